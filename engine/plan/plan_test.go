package plan

import (
	"testing"

	"github.com/justyntemme/kiroengine/buffer"
	"github.com/justyntemme/kiroengine/paramvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueParamSourceBroadcastsIntoSlice(t *testing.T) {
	v := paramvalue.New(0.5)
	slice := buffer.New(4)
	src := ValueParamSource(v, slice)

	got := src.AsSlice()
	require.Len(t, got, 4)
	for _, s := range got {
		assert.Equal(t, float32(0.5), s)
	}
}

func TestBufferParamSourcePassesThrough(t *testing.T) {
	b := buffer.New(3)
	b.Set(0, 1)
	b.Set(1, 2)
	b.Set(2, 3)
	src := BufferParamSource(b)

	assert.Equal(t, []float32{1, 2, 3}, src.AsSlice())
}

func TestValueParamIterUpdatedOnlyOnFirstSample(t *testing.T) {
	v := paramvalue.New(0.25)
	slice := buffer.New(3)
	src := ValueParamSource(v, slice)

	it := src.Iter()
	val, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, float32(0.25), val)
	assert.True(t, it.Updated())

	val, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, float32(0.25), val)
	assert.False(t, it.Updated())

	_, ok = it.Next()
	require.True(t, ok)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestBufferParamIterTracksChanges(t *testing.T) {
	b := buffer.New(3)
	b.Set(0, 1)
	b.Set(1, 1)
	b.Set(2, 2)
	src := BufferParamSource(b)

	it := src.Iter()
	_, _ = it.Next()
	assert.True(t, it.Updated())

	_, _ = it.Next()
	assert.False(t, it.Updated())

	_, _ = it.Next()
	assert.True(t, it.Updated())
}

func TestRenderOpVariantsSatisfyInterface(t *testing.T) {
	var ops []RenderOp
	ops = append(ops, RenderOutputOp{Alias: "master", Input: NewAudioInputPort(nil)})
	ops = append(ops, RenderProcessorOp{})
	assert.Len(t, ops, 2)
}

func TestContextExposesBoundPorts(t *testing.T) {
	in := NewAudioInputPort([]*buffer.Buffer{buffer.New(8)})
	out := NewAudioOutputPort([]*buffer.Buffer{buffer.New(8)})
	ctx := NewContext([]AudioInputPort{in}, []AudioOutputPort{out}, nil)
	ctx.SetNumSamples(8)

	assert.Equal(t, 8, ctx.NumSamples())
	assert.Equal(t, 1, ctx.NumAudioInputs())
	assert.Equal(t, 1, ctx.NumAudioOutputs())
	assert.Equal(t, 0, ctx.NumParameters())
}
