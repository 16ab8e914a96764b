package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsZeroFilled(t *testing.T) {
	b := New(4)
	assert.Equal(t, []float32{0, 0, 0, 0}, b.AsSlice())
}

func TestFill(t *testing.T) {
	b := New(3)
	b.Fill(1.5)
	assert.Equal(t, []float32{1.5, 1.5, 1.5}, b.AsSlice())
}

func TestFillFirst(t *testing.T) {
	b := New(4)
	b.Fill(9)
	b.FillFirst(2, 0)
	assert.Equal(t, []float32{0, 0, 9, 9}, b.AsSlice())
}

func TestFillFirstClampsToLength(t *testing.T) {
	b := New(2)
	b.FillFirst(10, 1)
	assert.Equal(t, []float32{1, 1}, b.AsSlice())
}

func TestAtSet(t *testing.T) {
	b := New(2)
	b.Set(1, 7)
	assert.Equal(t, float32(7), b.At(1))
}
