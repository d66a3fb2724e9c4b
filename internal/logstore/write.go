package logstore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/process-engine/logrepo/internal/logentry"
)

// WriteLogForProcessModel appends a process-model entry to the file of
// (correlationID, processModelID). processInstanceID may be empty.
func (r *Repository) WriteLogForProcessModel(
	ctx context.Context,
	correlationID, processModelID, processInstanceID string,
	level logentry.Level,
	message string,
	ts time.Time,
) error {
	entry := logentry.NewProcessModelEntry(correlationID, processModelID, processInstanceID, level, message, ts)
	if err := r.append(ctx, entry); err != nil {
		return fmt.Errorf("write process model log: %w", err)
	}
	return nil
}

// WriteLogForFlowNode appends a flow-node entry to the file of
// (correlationID, processModelID). processInstanceID may be empty.
func (r *Repository) WriteLogForFlowNode(
	ctx context.Context,
	correlationID, processModelID, processInstanceID, flowNodeInstanceID, flowNodeID string,
	level logentry.Level,
	message string,
	ts time.Time,
) error {
	entry := logentry.NewFlowNodeEntry(correlationID, processModelID, processInstanceID, flowNodeInstanceID, flowNodeID, level, message, ts)
	if err := r.append(ctx, entry); err != nil {
		return fmt.Errorf("write flow node log: %w", err)
	}
	return nil
}

// append resolves, encodes and appends one entry. Repeated calls add lines,
// they never overwrite.
func (r *Repository) append(ctx context.Context, entry logentry.LogEntry) error {
	path, err := r.addr.ProcessModelPath(entry.CorrelationID, entry.ProcessModelID)
	if err != nil {
		return err
	}

	line, err := r.codec.Encode(entry)
	if err != nil {
		return err
	}

	if err := r.fs.EnsureDir(ctx, filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	if err := r.fs.AppendLine(ctx, path, line); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}

	r.logger.Debug("log entry appended",
		"path", path,
		"kind", entry.Kind,
		"correlation_id", entry.CorrelationID,
		"process_model_id", entry.ProcessModelID,
	)
	return nil
}
