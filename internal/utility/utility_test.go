package utility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"10", 10, true},
		{"  7", 7, true},
		{"12abc", 12, true},
		{"-3", -3, true},
		{"+4", 4, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"3.9", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLeadingInt(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositiveIntOr(t *testing.T) {
	assert.Equal(t, int64(10), PositiveIntOr("", 10))
	assert.Equal(t, int64(10), PositiveIntOr("0", 10))
	assert.Equal(t, int64(10), PositiveIntOr("-5", 10))
	assert.Equal(t, int64(1), PositiveIntOr("x", 1))
	assert.Equal(t, int64(25), PositiveIntOr("25items", 10))
}

func TestFormatDayMonthYear(t *testing.T) {
	d := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "5/3/2024", FormatDayMonthYear(d))
}

func TestParseVisitDate(t *testing.T) {
	got, err := ParseVisitDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseVisitDate("5/3/2024")
	require.NoError(t, err)
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 5, got.Day())

	got, err = ParseVisitDate("2024-03-05T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())

	_, err = ParseVisitDate("yesterday")
	assert.Error(t, err)
}

func TestParseObjectID(t *testing.T) {
	_, ok := ParseObjectID("not-an-id")
	assert.False(t, ok)

	id, ok := ParseObjectID("65a1b2c3d4e5f60718293a4b")
	assert.True(t, ok)
	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", id.Hex())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))
}

func TestToMap(t *testing.T) {
	type sample struct {
		Name  string `bson:"name"`
		Count int    `bson:"count,omitempty"`
	}
	m, err := ToMap(sample{Name: "Tech Expo Mumbai"})
	require.NoError(t, err)
	assert.Equal(t, "Tech Expo Mumbai", m["name"])
	_, has := m["count"]
	assert.False(t, has)
}
