package controller

import (
	"testing"

	"github.com/justyntemme/kiroengine/buffer"
	"github.com/justyntemme/kiroengine/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmallestFreeBufferIsDeterministic(t *testing.T) {
	var gen key.KeyGen[buffer.Buffer]
	k0 := gen.Next()
	k1 := gen.Next()
	k2 := gen.Next()

	ctx := &updateContext{
		freeBuffers: map[key.Key[buffer.Buffer]]struct{}{
			k2: {}, k0: {}, k1: {},
		},
	}

	smallest, ok := ctx.smallestFreeBuffer()
	require.True(t, ok)
	assert.Equal(t, k0, smallest)
}

func TestSmallestFreeBufferEmpty(t *testing.T) {
	ctx := &updateContext{freeBuffers: map[key.Key[buffer.Buffer]]struct{}{}}
	_, ok := ctx.smallestFreeBuffer()
	assert.False(t, ok)
}
