package reflectutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber(1))
	assert.True(t, IsNumber(int64(1)))
	assert.True(t, IsNumber(1.5))
	assert.True(t, IsNumber(uint8(3)))
	assert.False(t, IsNumber("1"))
	assert.False(t, IsNumber(nil))
	assert.False(t, IsNumber(true))
}

func TestNumbersEqual(t *testing.T) {
	testCases := []struct {
		name string
		a, b any
		want bool
	}{
		{"same int", 5, 5, true},
		{"int and float", int64(5), float64(5), true},
		{"float fraction", 5.5, int64(5), false},
		{"uint and int", uint32(7), 7, true},
		{"different", 1, 2, false},
		{"non number", "5", 5, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NumbersEqual(tc.a, tc.b))
		})
	}
}
