package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestClassify(t *testing.T) {
	var c Classifier // zero value, threshold 5

	for q := 0; q <= 5; q++ {
		assert.Equal(t, LevelCritical, c.Classify(q), "quantity %d", q)
	}
	for _, q := range []int{6, 7, 10, 100, 99999} {
		assert.Equal(t, LevelNormal, c.Classify(q), "quantity %d", q)
	}
}

func TestClassifyCustomThreshold(t *testing.T) {
	c := Classifier{Threshold: 10}

	assert.True(t, c.IsCritical(10))
	assert.False(t, c.IsCritical(11))
}

func TestJustWentCritical(t *testing.T) {
	var c Classifier

	tests := []struct {
		name string
		old  *int
		new  int
		want bool
	}{
		{"normal to critical", intPtr(10), 3, true},
		{"already critical does not re-fire", intPtr(3), 1, false},
		{"recovery does not fire", intPtr(3), 10, false},
		{"created at critical level", nil, 2, true},
		{"created at normal level", nil, 50, false},
		{"exactly at threshold from above", intPtr(6), 5, true},
		{"stays at threshold", intPtr(5), 5, false},
		{"normal to normal", intPtr(20), 15, false},
		{"zero stock from normal", intPtr(8), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.JustWentCritical(tt.old, tt.new))
		})
	}
}

func TestJustWentCriticalIsIdempotentPerState(t *testing.T) {
	var c Classifier

	// same (old, new) pair always yields the same answer,
	// and the post-crossing state never fires again
	assert.True(t, c.JustWentCritical(intPtr(10), 3))
	assert.True(t, c.JustWentCritical(intPtr(10), 3))
	assert.False(t, c.JustWentCritical(intPtr(3), 3))
}
