package logentry

import "time"

// Kind is the discriminator token identifying a record layout.
type Kind string

const (
	// KindProcessModel marks a record about a process model execution.
	KindProcessModel Kind = "ProcessModel"

	// KindFlowNodeInstance marks a record about a single flow node instance.
	KindFlowNodeInstance Kind = "FlowNodeInstance"
)

// LogEntry is a single execution log record.
//
// Entries are values: they are built by a caller for writing or decoded
// from one line on read and never mutated afterwards.
type LogEntry struct {
	Kind               Kind      `json:"kind"`
	Timestamp          time.Time `json:"timestamp"`
	CorrelationID      string    `json:"correlation_id"`
	ProcessModelID     string    `json:"process_model_id"`
	ProcessInstanceID  string    `json:"process_instance_id,omitempty"`
	FlowNodeInstanceID string    `json:"flow_node_instance_id,omitempty"`
	FlowNodeID         string    `json:"flow_node_id,omitempty"`
	LogLevel           Level     `json:"log_level"`
	Message            string    `json:"message"`
}

// NewProcessModelEntry builds a process-model record.
func NewProcessModelEntry(correlationID, processModelID, processInstanceID string, level Level, message string, ts time.Time) LogEntry {
	return LogEntry{
		Kind:              KindProcessModel,
		Timestamp:         ts,
		CorrelationID:     correlationID,
		ProcessModelID:    processModelID,
		ProcessInstanceID: processInstanceID,
		LogLevel:          level,
		Message:           message,
	}
}

// NewFlowNodeEntry builds a flow-node record.
func NewFlowNodeEntry(correlationID, processModelID, processInstanceID, flowNodeInstanceID, flowNodeID string, level Level, message string, ts time.Time) LogEntry {
	return LogEntry{
		Kind:               KindFlowNodeInstance,
		Timestamp:          ts,
		CorrelationID:      correlationID,
		ProcessModelID:     processModelID,
		ProcessInstanceID:  processInstanceID,
		FlowNodeInstanceID: flowNodeInstanceID,
		FlowNodeID:         flowNodeID,
		LogLevel:           level,
		Message:            message,
	}
}

// IsFlowNode reports whether the entry uses the flow-node layout.
// Entries without an explicit Kind are classified by their flow node fields.
func (e LogEntry) IsFlowNode() bool {
	switch e.Kind {
	case KindFlowNodeInstance:
		return true
	case KindProcessModel:
		return false
	}
	return e.FlowNodeInstanceID != "" || e.FlowNodeID != ""
}
