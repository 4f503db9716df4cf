package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	l := StringList{"P1", "P2"}

	v, err := l.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, StringList{"P1", "P2"}, scanned)
}

func TestStringListScanTolerance(t *testing.T) {
	// a supplier with broken selected_products monitors nothing,
	// it is never an error
	tests := []struct {
		name  string
		value interface{}
	}{
		{"nil", nil},
		{"garbage", "not-json{{"},
		{"wrong json type", `{"a":1}`},
		{"empty string", ""},
		{"bytes garbage", []byte{0xff, 0xfe}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			require.NoError(t, l.Scan(tt.value))
			assert.Empty(t, l)
		})
	}
}

func TestStringListContains(t *testing.T) {
	l := StringList{"P1", "P2"}

	assert.True(t, l.Contains("P1"))
	assert.False(t, l.Contains("P3"))
	assert.False(t, StringList(nil).Contains("P1"))
}

func TestStringListNilValue(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
