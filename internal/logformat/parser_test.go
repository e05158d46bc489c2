package logformat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubc-systopia/pancast-code/internal/timestamp"
)

func mustParser(t *testing.T, preset string) *Parser {
	t.Helper()

	layout, err := Preset(preset)
	require.NoError(t, err)

	p, err := NewParser(layout)
	require.NoError(t, err)
	return p
}

func TestParser_Presets(t *testing.T) {
	testCases := []struct {
		preset string
		line   string
		ts     timestamp.Timestamp
		value  int
	}{
		{
			preset: PresetTelemetry,
			line:   "2021-07-14 10:59:58.125 I/Scanner: TELEMETRY: [-71, 3, 1626285598]",
			ts:     timestamp.Timestamp{Hour: 10, Minute: 59, Second: 58.125},
			value:  -71,
		},
		{
			preset: PresetFixed,
			line:   "07-14 10:59:58.125  1234  1250 D Scanner: [-64]",
			ts:     timestamp.Timestamp{Hour: 10, Minute: 59, Second: 58.125},
			value:  -64,
		},
		{
			preset: PresetDongle,
			line:   "[I] 0:10:48.125 3 ../src/dongle.c:685 :dongle_track: dongle_track -82",
			ts:     timestamp.Timestamp{Hour: 0, Minute: 10, Second: 48.125},
			value:  -82,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.preset, func(t *testing.T) {
			p := mustParser(t, tc.preset)

			rec, err := p.ParseLine(7, tc.line)
			require.NoError(t, err)
			assert.Equal(t, 7, rec.Line)
			assert.Equal(t, tc.ts, rec.Timestamp)
			assert.Equal(t, tc.value, rec.Value)
		})
	}
}

func TestParser_Malformed(t *testing.T) {
	p := mustParser(t, PresetTelemetry)

	testCases := []struct {
		name   string
		line   string
		reason string
	}{
		{"single token", "garbage", "missing timestamp field"},
		{"bad timestamp", "2021-07-14 10:59 TELEMETRY: [-71, 3]", "invalid timestamp"},
		{"no marker", "2021-07-14 10:59:58.125 I/Scanner: started", "missing value field"},
		{"empty value", "2021-07-14 10:59:58.125 TELEMETRY: [, 3]", "missing value field"},
		{"non numeric", "2021-07-14 10:59:58.125 TELEMETRY: [abc, 3]", "invalid value"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.ParseLine(3, tc.line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed))

			var malformed *MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, 3, malformed.Line)
			assert.Equal(t, tc.line, malformed.Text)
			assert.Equal(t, tc.reason, malformed.Reason)
		})
	}
}

func TestParser_TimestampErrorIsWrapped(t *testing.T) {
	p := mustParser(t, PresetTelemetry)

	_, err := p.Parse("2021-07-14 1:x:3 TELEMETRY: [-71, 3]")
	assert.ErrorIs(t, err, timestamp.ErrMalformed)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParser_Skipped(t *testing.T) {
	p := mustParser(t, PresetDongle)

	_, err := p.Parse("")
	assert.ErrorIs(t, err, ErrSkipped)

	_, err = p.Parse("   ")
	assert.ErrorIs(t, err, ErrSkipped)

	_, err = p.Parse("[I] 0:10:48.125 3 ../src/dongle.c:120 :scan: started")
	assert.ErrorIs(t, err, ErrSkipped)
	assert.NotErrorIs(t, err, ErrMalformed)
}

func TestParser_CustomDelimiter(t *testing.T) {
	p, err := NewParser(Layout{
		Delimiter:      ",",
		TimestampField: 0,
		Value:          ValueRule{Field: 2},
	})
	require.NoError(t, err)

	rec, err := p.Parse("0:01:02.5, beacon-7, -77")
	require.NoError(t, err)
	assert.Equal(t, timestamp.Timestamp{Hour: 0, Minute: 1, Second: 2.5}, rec.Timestamp)
	assert.Equal(t, -77, rec.Value)
}

func TestLayout_Validate(t *testing.T) {
	_, err := NewParser(Layout{TimestampField: 1, Value: ValueRule{Field: 1}})
	var layoutErr *LayoutError
	assert.ErrorAs(t, err, &layoutErr)

	_, err = NewParser(Layout{TimestampField: 1, Value: ValueRule{Field: 2, Terminator: ","}})
	assert.ErrorAs(t, err, &layoutErr)
}

func TestPreset(t *testing.T) {
	assert.Equal(t, []string{PresetDongle, PresetFixed, PresetTelemetry}, PresetNames())

	l, err := Preset(PresetFixed)
	require.NoError(t, err)
	assert.Equal(t, "fixed", l.String())

	_, err = Preset("csv")
	assert.Error(t, err)
}
