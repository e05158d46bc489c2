package timestamp

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		field   string
		want    Timestamp
		wantErr bool
	}{
		{"integer seconds", "12:34:56", Timestamp{12, 34, 56}, false},
		{"fractional seconds", "0:05:07.250", Timestamp{0, 5, 7.25}, false},
		{"leading zeros", "09:00:00.000", Timestamp{9, 0, 0}, false},
		{"two parts", "12:34", Timestamp{}, true},
		{"four parts", "1:2:3:4", Timestamp{}, true},
		{"fractional minute", "1:2.5:3", Timestamp{}, true},
		{"text", "TELEMETRY:", Timestamp{}, true},
		{"negative minute", "1:-2:3", Timestamp{}, true},
		{"empty", "", Timestamp{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.field)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromLine(t *testing.T) {
	line := "2021-07-14 10:59:58.125 I/Scanner: TELEMETRY: [-71, 3]"

	ts, err := FromLine(line, 1)
	require.NoError(t, err)
	assert.Equal(t, Timestamp{10, 59, 58.125}, ts)

	_, err = FromLine(line, 42)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = FromLine("", 1)
	assert.ErrorIs(t, err, ErrMalformed)

	ts, err = FromLine("value 0:01:02.5", -1)
	require.NoError(t, err)
	assert.Equal(t, Timestamp{0, 1, 2.5}, ts)
}

func TestSeconds(t *testing.T) {
	assert.InDelta(t, 3600+120+3.5, Timestamp{1, 2, 3.5}.Seconds(), 1e-9)
	assert.Zero(t, Timestamp{}.Seconds())
}

func TestCompare(t *testing.T) {
	base := Timestamp{1, 30, 15.5}

	assert.Equal(t, 0, base.Compare(base))
	assert.Equal(t, -1, base.Compare(Timestamp{2, 0, 0}))
	assert.Equal(t, 1, base.Compare(Timestamp{1, 29, 59.9}))
	assert.Equal(t, -1, base.Compare(Timestamp{1, 30, 15.6}))
	assert.True(t, base.Before(Timestamp{1, 31, 0}))
	assert.True(t, base.After(Timestamp{0, 59, 59}))
}

func TestAdd_MinuteRollover(t *testing.T) {
	start := Timestamp{0, 55, 10.0}

	end := start.Add(600 * time.Second)

	assert.Equal(t, Timestamp{1, 5, 10.0}, end)
	assert.NotEqual(t, Timestamp{0, 65, 10.0}, end)
}

func TestAdd(t *testing.T) {
	testCases := []struct {
		name  string
		start Timestamp
		d     time.Duration
		want  Timestamp
	}{
		{"no carry", Timestamp{3, 10, 5}, 10 * time.Minute, Timestamp{3, 20, 5}},
		{"minute lands on 60", Timestamp{0, 50, 0}, 10 * time.Minute, Timestamp{1, 0, 0}},
		{"second carry", Timestamp{0, 59, 59.5}, time.Second, Timestamp{1, 0, 0.5}},
		{"past midnight", Timestamp{23, 55, 0}, 10 * time.Minute, Timestamp{24, 5, 0}},
		{"multiple hours", Timestamp{0, 0, 0}, 150 * time.Minute, Timestamp{2, 30, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.start.Add(tc.d)
			assert.Equal(t, tc.want.Hour, got.Hour)
			assert.Equal(t, tc.want.Minute, got.Minute)
			assert.InDelta(t, tc.want.Second, got.Second, 1e-9)
		})
	}
}

func TestAdd_KeepsFractionExact(t *testing.T) {
	for _, second := range []float64{59.9, 12.3, 0.1, 58.125, 33.7} {
		start := Timestamp{0, 55, second}
		assert.Equal(t, Timestamp{1, 5, second}, start.Add(10*time.Minute), "second %v", second)
	}

	assert.Equal(t, Timestamp{1, 0, 0.5}, Timestamp{0, 59, 59.5}.Add(time.Second))
	assert.InDelta(t, 0.25, Timestamp{0, 0, 59.75}.Add(500*time.Millisecond).Second, 1e-9)
	assert.Equal(t, 1, Timestamp{0, 0, 59.75}.Add(500*time.Millisecond).Minute)
}

func TestSub(t *testing.T) {
	assert.InDelta(t, 61.5, Timestamp{1, 0, 1}.Sub(Timestamp{0, 59, 59.5}), 1e-9)
}

func TestString(t *testing.T) {
	assert.Equal(t, "1:05:10.000", Timestamp{1, 5, 10}.String())
}
