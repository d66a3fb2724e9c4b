package logentry

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC)

// fixtureEntries is the record set behind the golden files.
func fixtureEntries() []LogEntry {
	return []LogEntry{
		NewProcessModelEntry("corr-1", "model-A", "inst-1", LevelInfo, "started", t0),
		NewFlowNodeEntry("corr-1", "model-A", "inst-1", "fni-7", "task-1", LevelWarning, "retrying; attempt 2", t0.Add(250*time.Millisecond)),
		NewProcessModelEntry("corr-1", "model-A", "inst-1", LevelError, "failed", t0.Add(time.Second)),
	}
}

func mustCodec(t *testing.T, f Format) *Codec {
	t.Helper()
	c, err := NewCodec(f)
	require.NoError(t, err)
	return c
}

// assertSameEntry compares entries with instant equality for timestamps.
func assertSameEntry(t *testing.T, want, got LogEntry) {
	t.Helper()
	assert.True(t, want.Timestamp.Equal(got.Timestamp), "timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	got.Timestamp = want.Timestamp
	assert.Equal(t, want, got)
}

func TestCodec_Golden(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			c := mustCodec(t, f)

			var sb strings.Builder
			for _, e := range fixtureEntries() {
				line, err := c.Encode(e)
				require.NoError(t, err)
				sb.WriteString(line)
				sb.WriteByte('\n')
			}

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, string(f), []byte(sb.String()))
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			c := mustCodec(t, f)
			for _, want := range fixtureEntries() {
				line, err := c.Encode(want)
				require.NoError(t, err)

				got, err := c.Decode(line)
				require.NoError(t, err)

				if f == FormatSemicolonV1 {
					// semicolon-v1 has no process instance column
					want.ProcessInstanceID = ""
				}
				assertSameEntry(t, want, got)
			}
		})
	}
}

func TestCodec_RoundTripNanosecondsAndZone(t *testing.T) {
	c := mustCodec(t, FormatSemicolon)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 123_456_789, time.FixedZone("CEST", 2*60*60))
	want := NewFlowNodeEntry("corr", "model", "inst", "fni", "fn", LevelDebug, "tick", ts)

	line, err := c.Encode(want)
	require.NoError(t, err)
	assert.Contains(t, line, "2024-05-01T10:00:00.123456789Z")

	got, err := c.Decode(line)
	require.NoError(t, err)
	assertSameEntry(t, want, got)
	assert.Equal(t, time.UTC, got.Timestamp.Location())
}

func TestCodec_EscapesMessage(t *testing.T) {
	c := mustCodec(t, FormatSemicolon)
	msg := "a;b\nc\r\\d;"
	want := NewProcessModelEntry("corr;1", "model\\A", "", LevelInfo, msg, t0)

	line, err := c.Encode(want)
	require.NoError(t, err)
	assert.NotContains(t, line, "\n")
	assert.Equal(t, `ProcessModel;2024-05-01T10:00:00.123Z;corr\;1;model\\A;;;;info;a\;b\nc\r\\d\;`, line)

	got, err := c.Decode(line)
	require.NoError(t, err)
	assertSameEntry(t, want, got)
}

func TestCodec_ProcessModelDropsFlowNodeFields(t *testing.T) {
	c := mustCodec(t, FormatSemicolon)
	e := LogEntry{
		Kind:               KindProcessModel,
		Timestamp:          t0,
		CorrelationID:      "corr",
		ProcessModelID:     "model",
		FlowNodeInstanceID: "stray",
		FlowNodeID:         "stray",
		LogLevel:           LevelInfo,
		Message:            "m",
	}

	line, err := c.Encode(e)
	require.NoError(t, err)
	assert.Equal(t, "ProcessModel;2024-05-01T10:00:00.123Z;corr;model;;;;info;m", line)

	got, err := c.Decode(line)
	require.NoError(t, err)
	assert.Equal(t, KindProcessModel, got.Kind)
	assert.Empty(t, got.FlowNodeInstanceID)
	assert.Empty(t, got.FlowNodeID)
}

func TestDecode_DiscriminatorSelectsLayout(t *testing.T) {
	c := mustCodec(t, FormatSemicolonV1)

	fn, err := c.Decode("FlowNodeInstance;2024-05-01T10:00:00.000Z;corr;model;fni;fn;info;step done")
	require.NoError(t, err)
	assert.Equal(t, KindFlowNodeInstance, fn.Kind)
	assert.Equal(t, "fni", fn.FlowNodeInstanceID)
	assert.Equal(t, "fn", fn.FlowNodeID)
	assert.Equal(t, LevelInfo, fn.LogLevel)
	assert.Equal(t, "step done", fn.Message)

	// Truncated process-model line in the same file.
	pm, err := c.Decode("ProcessModel;2024-05-01T10:00:01.000Z;corr;model")
	require.NoError(t, err)
	assert.Equal(t, KindProcessModel, pm.Kind)
	assert.Equal(t, "model", pm.ProcessModelID)
	assert.Empty(t, pm.FlowNodeInstanceID)
	assert.Empty(t, pm.LogLevel)
	assert.Empty(t, pm.Message)
}

func TestDecode_UnknownDiscriminatorIsProcessModel(t *testing.T) {
	c := mustCodec(t, FormatSemicolon)

	e, err := c.Decode("Something;2024-05-01T10:00:00Z;corr;model;inst;fni;fn;info;m")
	require.NoError(t, err)
	assert.Equal(t, KindProcessModel, e.Kind)
	assert.Empty(t, e.FlowNodeInstanceID)
	assert.Equal(t, "m", e.Message)
}

func TestDecode_MissingTrailingFields(t *testing.T) {
	tests := []struct {
		format Format
		line   string
	}{
		{FormatSemicolon, "ProcessModel;2024-05-01T10:00:00Z;corr"},
		{FormatSemicolonV1, "ProcessModel;2024-05-01T10:00:00Z;corr"},
		{FormatTab, "2024-05-01T10:00:00Z\tcorr"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			e, err := mustCodec(t, tt.format).Decode(tt.line)
			require.NoError(t, err)
			assert.Equal(t, "corr", e.CorrelationID)
			assert.Empty(t, e.ProcessModelID)
			assert.Empty(t, e.LogLevel)
			assert.Empty(t, e.Message)
			assert.True(t, e.Timestamp.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
		})
	}
}

func TestDecode_EmptyTimestampIsZero(t *testing.T) {
	e, err := mustCodec(t, FormatSemicolon).Decode("ProcessModel;;corr;model;;;;info;m")
	require.NoError(t, err)
	assert.True(t, e.Timestamp.IsZero())
}

func TestDecode_UnknownLogLevel(t *testing.T) {
	_, err := mustCodec(t, FormatSemicolon).Decode("ProcessModel;2024-05-01T10:00:00Z;corr;model;;;;verbose;m")
	require.Error(t, err)
	assert.True(t, IsUnknownLogLevel(err))
	assert.False(t, IsMalformedTimestamp(err))
	assert.Contains(t, err.Error(), "verbose")
}

func TestDecode_MalformedTimestamp(t *testing.T) {
	_, err := mustCodec(t, FormatSemicolonV1).Decode("ProcessModel;yesterday;corr;model;;;info;m")
	require.Error(t, err)
	assert.True(t, IsMalformedTimestamp(err))

	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "timestamp", ce.Field)
	assert.Equal(t, "yesterday", ce.Value)
}

func TestDecode_LegacyMessageKeepsDelimiter(t *testing.T) {
	e, err := mustCodec(t, FormatSemicolonV1).Decode("ProcessModel;2024-05-01T10:00:00.000Z;corr;model;;;info;a;b;c")
	require.NoError(t, err)
	assert.Equal(t, "a;b;c", e.Message)
	assert.Equal(t, LevelInfo, e.LogLevel)
}

func TestDecode_TabInfersVariant(t *testing.T) {
	c := mustCodec(t, FormatTab)

	fn, err := c.Decode("2024-05-01T10:00:00.000Z\tcorr\tmodel\tinst\tfni\tfn\terror\tboom")
	require.NoError(t, err)
	assert.Equal(t, KindFlowNodeInstance, fn.Kind)
	assert.Equal(t, "inst", fn.ProcessInstanceID)

	pm, err := c.Decode("2024-05-01T10:00:00.000Z\tcorr\tmodel\tinst\t\t\tinfo\tok")
	require.NoError(t, err)
	assert.Equal(t, KindProcessModel, pm.Kind)
}

func TestDecode_TrimsCarriageReturn(t *testing.T) {
	e, err := mustCodec(t, FormatSemicolonV1).Decode("ProcessModel;2024-05-01T10:00:00.000Z;corr;model;;;info;done\r")
	require.NoError(t, err)
	assert.Equal(t, "done", e.Message)
}

func TestEncode_LegacyRejectsLineBreaks(t *testing.T) {
	for _, f := range []Format{FormatSemicolonV1, FormatTab} {
		t.Run(string(f), func(t *testing.T) {
			e := NewProcessModelEntry("corr", "model", "", LevelInfo, "two\nlines", t0)
			_, err := mustCodec(t, f).Encode(e)
			require.Error(t, err)
			assert.True(t, IsUnencodableField(err))
		})
	}
}

func TestEncode_LegacyRejectsDelimiterInIdentifier(t *testing.T) {
	e := NewProcessModelEntry("corr;1", "model", "", LevelInfo, "m", t0)
	_, err := mustCodec(t, FormatSemicolonV1).Encode(e)
	require.Error(t, err)

	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeUnencodableField, ce.Code)
	assert.Equal(t, "correlation_id", ce.Field)
}

func TestEncode_TabRequiresFlowNodeIDs(t *testing.T) {
	e := NewFlowNodeEntry("corr", "model", "", "", "", LevelInfo, "m", t0)
	_, err := mustCodec(t, FormatTab).Encode(e)
	require.Error(t, err)
	assert.True(t, IsUnencodableField(err))
}

func TestEncode_RejectsUnknownLevel(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			e := NewProcessModelEntry("corr", "model", "inst", Level("fatal"), "m", t0)
			_, err := mustCodec(t, f).Encode(e)
			require.Error(t, err)
			assert.True(t, IsUnknownLogLevel(err))
		})
	}
}

func TestEncode_WritesCanonicalLevel(t *testing.T) {
	c := mustCodec(t, FormatSemicolon)
	e := NewProcessModelEntry("corr", "model", "inst", Level("WARN"), "m", t0)

	line, err := c.Encode(e)
	require.NoError(t, err)
	assert.Equal(t, "ProcessModel;2024-05-01T10:00:00.123Z;corr;model;inst;;;warning;m", line)

	got, err := c.Decode(line)
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, got.LogLevel)
}

func TestEncode_EmptyLevelIsKept(t *testing.T) {
	line, err := mustCodec(t, FormatSemicolon).Encode(NewProcessModelEntry("corr", "model", "", "", "m", t0))
	require.NoError(t, err)
	assert.Equal(t, "ProcessModel;2024-05-01T10:00:00.123Z;corr;model;;;;;m", line)
}

func TestEncode_RejectsYearOutsideFourDigits(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
	}{
		{"after 9999", time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"before 0000", time.Date(-1, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewProcessModelEntry("corr", "model", "", LevelInfo, "m", tt.ts)
			_, err := mustCodec(t, FormatSemicolon).Encode(e)
			require.Error(t, err)

			var ce *CodecError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, ErrCodeUnencodableField, ce.Code)
			assert.Equal(t, "timestamp", ce.Field)
		})
	}
}

func TestEncode_YearBoundariesRoundTrip(t *testing.T) {
	c := mustCodec(t, FormatSemicolon)
	for _, ts := range []time.Time{
		time.Date(9999, 12, 31, 23, 59, 59, 999_999_999, time.UTC),
		time.Date(1, 1, 1, 0, 0, 0, 1, time.UTC),
	} {
		want := NewProcessModelEntry("corr", "model", "", LevelInfo, "m", ts)
		line, err := c.Encode(want)
		require.NoError(t, err)
		got, err := c.Decode(line)
		require.NoError(t, err)
		assertSameEntry(t, want, got)
	}
}

func TestNewCodec_UnknownFormat(t *testing.T) {
	_, err := NewCodec("csv")
	require.Error(t, err)

	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeUnknownFormat, ce.Code)
}
