// Package plan defines the render plan: the flattened, allocation-free
// instruction list the controller compiles from the graph's topology
// and hands across to the renderer. Nothing in this package allocates
// once a plan is built — the renderer walks it every block.
package plan

import (
	"github.com/justyntemme/kiroengine/buffer"
	"github.com/justyntemme/kiroengine/paramvalue"
)

// AudioInputPort is a bound audio input: one buffer per channel, read
// only by the processor it feeds.
type AudioInputPort struct {
	channels []*buffer.Buffer
}

// NewAudioInputPort builds a port over the given per-channel buffers.
func NewAudioInputPort(channels []*buffer.Buffer) AudioInputPort {
	return AudioInputPort{channels: channels}
}

// Len returns the channel count.
func (p AudioInputPort) Len() int { return len(p.channels) }

// Channel returns the buffer backing channel index.
func (p AudioInputPort) Channel(index int) *buffer.Buffer { return p.channels[index] }

// AudioOutputPort is a bound audio output: one buffer per channel,
// written by the processor that owns it.
type AudioOutputPort struct {
	channels []*buffer.Buffer
}

// NewAudioOutputPort builds a port over the given per-channel buffers.
func NewAudioOutputPort(channels []*buffer.Buffer) AudioOutputPort {
	return AudioOutputPort{channels: channels}
}

// Len returns the channel count.
func (p AudioOutputPort) Len() int { return len(p.channels) }

// Channel returns the buffer backing channel index.
func (p AudioOutputPort) Channel(index int) *buffer.Buffer { return p.channels[index] }

// ParamSource is the compiled source of a parameter port's value for one
// render block: either a plain held value broadcast into a scratch
// buffer, or an audio-rate buffer coming straight from a modulation
// source.
type ParamSource struct {
	value        *paramvalue.ParamValue
	sliceBuffer  *buffer.Buffer
	audioBuffer  *buffer.Buffer
	isAudioRate  bool
}

// ValueParamSource builds a held-value source: value is sampled once per
// block and broadcast across sliceBuffer.
func ValueParamSource(value *paramvalue.ParamValue, sliceBuffer *buffer.Buffer) ParamSource {
	return ParamSource{value: value, sliceBuffer: sliceBuffer}
}

// BufferParamSource builds an audio-rate source backed directly by a
// modulation buffer.
func BufferParamSource(audioBuffer *buffer.Buffer) ParamSource {
	return ParamSource{audioBuffer: audioBuffer, isAudioRate: true}
}

// AsSlice returns the current block's parameter values. For a held
// value it first broadcasts the latest sample into the scratch buffer.
func (p ParamSource) AsSlice() []float32 {
	if p.isAudioRate {
		return p.audioBuffer.AsSlice()
	}
	p.sliceBuffer.Fill(p.value.Get())
	return p.sliceBuffer.AsSlice()
}

// Iter returns a per-sample iterator over the parameter's values for the
// current block, tracking whether the value changed sample-to-sample.
func (p ParamSource) Iter() *ParamIter {
	if p.isAudioRate {
		return &ParamIter{buf: p.audioBuffer.AsSlice(), lastValue: math32Min, isAudioRate: true}
	}
	return &ParamIter{value: p.value.Get(), length: p.sliceBuffer.Len()}
}

// math32Min mirrors Rust's f32::MIN used to seed the buffer iterator's
// "last value" so the very first sample always reports as updated.
const math32Min = -3.4028235e38

// ParamIter walks a ParamSource one sample at a time.
type ParamIter struct {
	// held-value mode
	value  float32
	length int
	index  int

	// audio-rate mode
	buf         []float32
	pos         int
	isAudioRate bool
	lastValue   float32
	updated     bool
}

// Next returns the next sample and whether one was available.
func (it *ParamIter) Next() (float32, bool) {
	if it.isAudioRate {
		if it.pos >= len(it.buf) {
			return 0, false
		}
		v := it.buf[it.pos]
		it.updated = it.lastValue != v
		it.lastValue = v
		it.pos++
		return v, true
	}
	if it.index >= it.length {
		return 0, false
	}
	it.index++
	return it.value, true
}

// Updated reports whether the most recently returned sample differs
// from the one before it. For a held value this is true only for the
// very first sample of the block.
func (it *ParamIter) Updated() bool {
	if it.isAudioRate {
		return it.updated
	}
	return it.index == 1
}

// RenderOp is one instruction in a compiled RenderPlan: either render a
// processor, or copy a node's output into the host's interleaved output
// buffer.
type RenderOp interface {
	isRenderOp()
}

// RenderProcessorOp renders one processor against its bound ports.
type RenderProcessorOp struct {
	Processor ProcessorRenderer
	Context   *Context
}

func (RenderProcessorOp) isRenderOp() {}

// ProcessorRenderer is the minimal surface RenderProcessorOp needs from
// a processor — kept here rather than importing engine/process to avoid
// a dependency cycle (process imports plan for Context's port types).
type ProcessorRenderer interface {
	Render(ctx *Context)
}

// RenderOutputOp copies a bound audio input straight into the host's
// interleaved output buffer at render time.
type RenderOutputOp struct {
	Alias string
	Input AudioInputPort
}

func (RenderOutputOp) isRenderOp() {}

// RenderPlan is the full, flattened list of render instructions for one
// graph topology. Building one never happens on the audio thread;
// walking one (Renderer.Render) never allocates.
type RenderPlan struct {
	Operations []RenderOp
}

// NewRenderPlan wraps operations in a RenderPlan.
func NewRenderPlan(operations []RenderOp) *RenderPlan {
	return &RenderPlan{Operations: operations}
}
