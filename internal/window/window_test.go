package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubc-systopia/pancast-code/internal/timestamp"
)

func ts(h, m int, s float64) timestamp.Timestamp {
	return timestamp.Timestamp{Hour: h, Minute: m, Second: s}
}

func TestNew_NormalizesEnd(t *testing.T) {
	w, err := New(ts(0, 55, 10), DefaultLength)
	require.NoError(t, err)

	assert.Equal(t, ts(1, 5, 10), w.End)
	assert.Equal(t, DefaultLength, w.Length())

	_, err = New(ts(0, 0, 0), -time.Second)
	assert.Error(t, err)
}

func TestContains_Inclusive(t *testing.T) {
	w, err := New(ts(12, 0, 0), DefaultLength)
	require.NoError(t, err)

	assert.True(t, w.Contains(w.Start), "start is inside")
	assert.True(t, w.Contains(ts(12, 10, 0)), "end is inside")
	assert.False(t, w.Contains(ts(12, 10, 1)), "one second past end")
	assert.False(t, w.Contains(ts(11, 59, 59.999)), "before start")
}

func TestContains_AcrossMinuteRollover(t *testing.T) {
	w, err := New(ts(0, 55, 10), DefaultLength)
	require.NoError(t, err)

	testCases := []struct {
		name string
		ts   timestamp.Timestamp
		want bool
	}{
		{"just after start", ts(0, 55, 11), true},
		{"last minute of hour", ts(0, 59, 59.9), true},
		{"first minute of next hour", ts(1, 0, 30), true},
		{"exact end", ts(1, 5, 10), true},
		{"one second past", ts(1, 5, 11), false},
		{"next minute", ts(1, 6, 0), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.Contains(tc.ts))
		})
	}
}

func TestContains_FractionalEnd(t *testing.T) {
	testCases := []struct {
		name  string
		start timestamp.Timestamp
		end   timestamp.Timestamp
		past  timestamp.Timestamp
	}{
		{"tenths at minute edge", ts(0, 55, 59.9), ts(1, 5, 59.9), ts(1, 6, 0)},
		{"tenths", ts(0, 55, 12.3), ts(1, 5, 12.3), ts(1, 5, 12.4)},
		{"milliseconds", ts(2, 14, 7.1), ts(2, 24, 7.1), ts(2, 24, 7.101)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := New(tc.start, DefaultLength)
			require.NoError(t, err)

			assert.Equal(t, tc.end, w.End)
			assert.True(t, w.Contains(tc.end), "record exactly at the end")
			assert.False(t, w.Contains(tc.past))
		})
	}
}

func TestIsWithin(t *testing.T) {
	start, end := ts(2, 50, 0), ts(3, 20, 30.5)

	assert.True(t, IsWithin(ts(2, 59, 59), start, end))
	assert.True(t, IsWithin(ts(3, 19, 59), start, end))
	assert.True(t, IsWithin(ts(3, 20, 30.5), start, end))
	assert.False(t, IsWithin(ts(3, 20, 30.6), start, end))
	assert.False(t, IsWithin(ts(3, 21, 0), start, end))
	assert.False(t, IsWithin(ts(4, 0, 0), start, end))
	assert.False(t, IsWithin(ts(2, 49, 59), start, end))
}

func TestBetween(t *testing.T) {
	w, err := Between(ts(0, 10, 48), ts(0, 20, 50))
	require.NoError(t, err)
	assert.True(t, w.Contains(ts(0, 15, 0)))

	_, err = Between(ts(1, 0, 0), ts(0, 59, 0))
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	w, err := New(ts(0, 0, 0), time.Minute)
	require.NoError(t, err)

	items := []timestamp.Timestamp{ts(0, 0, 1), ts(0, 1, 0), ts(0, 1, 0.5), ts(0, 0, 30)}
	kept := Filter(w, items, func(x timestamp.Timestamp) timestamp.Timestamp { return x })

	assert.Equal(t, []timestamp.Timestamp{ts(0, 0, 1), ts(0, 1, 0), ts(0, 0, 30)}, kept)
}
