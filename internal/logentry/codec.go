package logentry

import (
	"fmt"
	"strings"
	"time"
)

// Format names an on-disk line revision.
type Format string

const (
	// FormatSemicolon is the current revision: discriminator, process
	// instance id, escaped fields, nanosecond timestamps.
	FormatSemicolon Format = "semicolon"

	// FormatSemicolonV1 is the first shipped revision: discriminator, no
	// process instance id, no escaping, millisecond timestamps.
	FormatSemicolonV1 Format = "semicolon-v1"

	// FormatTab is the tab-delimited revision without discriminator.
	FormatTab Format = "tab"
)

// Formats lists every supported revision.
var Formats = []Format{FormatSemicolon, FormatSemicolonV1, FormatTab}

type layout struct {
	delim         byte
	discriminator bool
	instance      bool
	escaped       bool
	timeLayout    string
}

var layouts = map[Format]layout{
	FormatSemicolon: {
		delim:         ';',
		discriminator: true,
		instance:      true,
		escaped:       true,
		timeLayout:    time.RFC3339Nano,
	},
	FormatSemicolonV1: {
		delim:         ';',
		discriminator: true,
		timeLayout:    millisLayout,
	},
	FormatTab: {
		delim:      '\t',
		instance:   true,
		timeLayout: millisLayout,
	},
}

// fieldCount is the number of fields in one line, discriminator included.
func (l layout) fieldCount() int {
	// timestamp, correlation, process model, flow node instance, flow node, level, message
	n := 7
	if l.discriminator {
		n++
	}
	if l.instance {
		n++
	}
	return n
}

// Codec converts log entries to and from single lines of one Format.
// Timestamps are written in UTC, so a decoded entry carries the same instant
// in time.UTC rather than the caller's location. Levels are written by their
// canonical lower-case name.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	format Format
	layout layout
}

// NewCodec returns the codec for the given revision.
func NewCodec(format Format) (*Codec, error) {
	l, ok := layouts[format]
	if !ok {
		return nil, &CodecError{
			Code:    ErrCodeUnknownFormat,
			Message: fmt.Sprintf("unknown log format %q", format),
		}
	}
	return &Codec{format: format, layout: l}, nil
}

// Format returns the revision this codec reads and writes.
func (c *Codec) Format() Format {
	return c.format
}

type field struct {
	name  string
	value string
}

// Encode serializes e into one line without the trailing line break.
func (c *Codec) Encode(e LogEntry) (string, error) {
	if !c.layout.discriminator && e.IsFlowNode() && e.FlowNodeInstanceID == "" && e.FlowNodeID == "" {
		// Without a discriminator the variant is carried by these fields alone.
		return "", &CodecError{
			Code:    ErrCodeUnencodableField,
			Message: fmt.Sprintf("flow node entry without flow node ids cannot be stored in %s format", c.format),
			Field:   "flow_node_id",
		}
	}
	if e.LogLevel != "" {
		lvl, err := ParseLevel(string(e.LogLevel))
		if err != nil {
			return "", err
		}
		e.LogLevel = lvl
	}
	if y := e.Timestamp.UTC().Year(); !e.Timestamp.IsZero() && (y < 0 || y > 9999) {
		return "", &CodecError{
			Code:    ErrCodeUnencodableField,
			Message: "timestamp year outside 0000-9999",
			Field:   "timestamp",
			Value:   e.Timestamp.String(),
		}
	}
	fields := c.fields(e)

	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(c.layout.delim)
		}
		if c.layout.escaped {
			writeEscaped(&sb, f.value, c.layout.delim)
			continue
		}
		if err := c.checkRaw(f, i == len(fields)-1); err != nil {
			return "", err
		}
		sb.WriteString(f.value)
	}
	return sb.String(), nil
}

func (c *Codec) fields(e LogEntry) []field {
	flowNode := e.IsFlowNode()

	fields := make([]field, 0, c.layout.fieldCount())
	if c.layout.discriminator {
		kind := KindProcessModel
		if flowNode {
			kind = KindFlowNodeInstance
		}
		fields = append(fields, field{"kind", string(kind)})
	}
	fields = append(fields,
		field{"timestamp", formatTimestamp(e.Timestamp, c.layout.timeLayout)},
		field{"correlation_id", e.CorrelationID},
		field{"process_model_id", e.ProcessModelID},
	)
	if c.layout.instance {
		fields = append(fields, field{"process_instance_id", e.ProcessInstanceID})
	}

	var flowNodeInstanceID, flowNodeID string
	if flowNode {
		flowNodeInstanceID, flowNodeID = e.FlowNodeInstanceID, e.FlowNodeID
	}
	return append(fields,
		field{"flow_node_instance_id", flowNodeInstanceID},
		field{"flow_node_id", flowNodeID},
		field{"log_level", string(e.LogLevel)},
		field{"message", e.Message},
	)
}

// checkRaw rejects values that an unescaped revision cannot represent. The
// message is the last field and is read back with a field limit, so only
// line breaks corrupt it.
func (c *Codec) checkRaw(f field, last bool) error {
	if strings.ContainsAny(f.value, "\r\n") {
		return &CodecError{
			Code:    ErrCodeUnencodableField,
			Message: fmt.Sprintf("line break cannot be stored in %s format", c.format),
			Field:   f.name,
			Value:   f.value,
		}
	}
	if !last && strings.IndexByte(f.value, c.layout.delim) >= 0 {
		return &CodecError{
			Code:    ErrCodeUnencodableField,
			Message: fmt.Sprintf("delimiter %q cannot be stored in %s format", c.layout.delim, c.format),
			Field:   f.name,
			Value:   f.value,
		}
	}
	return nil
}

// Decode parses one line. Missing trailing fields decode as empty values.
func (c *Codec) Decode(line string) (LogEntry, error) {
	line = strings.TrimSuffix(line, "\r")

	n := c.layout.fieldCount()
	var parts []string
	if c.layout.escaped {
		parts = splitEscaped(line, c.layout.delim, n)
	} else {
		parts = strings.SplitN(line, string(c.layout.delim), n)
	}
	at := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	var e LogEntry
	i := 0
	if c.layout.discriminator {
		e.Kind = KindProcessModel
		if at(0) == string(KindFlowNodeInstance) {
			e.Kind = KindFlowNodeInstance
		}
		i++
	}

	rawTimestamp := at(i)
	e.CorrelationID = at(i + 1)
	e.ProcessModelID = at(i + 2)
	i += 3
	if c.layout.instance {
		e.ProcessInstanceID = at(i)
		i++
	}
	flowNodeInstanceID, flowNodeID := at(i), at(i+1)
	rawLevel := at(i + 2)
	e.Message = at(i + 3)

	if !c.layout.discriminator {
		e.Kind = KindProcessModel
		if flowNodeInstanceID != "" || flowNodeID != "" {
			e.Kind = KindFlowNodeInstance
		}
	}
	if e.Kind == KindFlowNodeInstance {
		e.FlowNodeInstanceID = flowNodeInstanceID
		e.FlowNodeID = flowNodeID
	}

	ts, err := ParseTimestamp(rawTimestamp)
	if err != nil {
		return LogEntry{}, err
	}
	e.Timestamp = ts

	if rawLevel != "" {
		lvl, err := ParseLevel(rawLevel)
		if err != nil {
			return LogEntry{}, err
		}
		e.LogLevel = lvl
	}

	return e, nil
}
