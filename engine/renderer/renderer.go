// Package renderer implements the realtime-audio-thread half of the
// engine: it receives compiled render plans from the Controller and
// walks them every block. Nothing in this package allocates once a
// plan has arrived — Render is the hot path.
package renderer

import (
	"sync/atomic"

	"github.com/justyntemme/kiroengine/engine/config"
	"github.com/justyntemme/kiroengine/engine/message"
	"github.com/justyntemme/kiroengine/engine/plan"
	"github.com/justyntemme/kiroengine/spsc"
)

// Renderer owns the currently active RenderPlan and walks it every
// block. A Renderer must only ever be driven from one goroutine (the
// realtime audio callback); Render itself does not synchronize.
type Renderer struct {
	tx *spsc.Ring[message.Message]
	rx *spsc.Ring[message.Message]

	plan *plan.RenderPlan

	// drops counts stale plans this Renderer could not hand back to the
	// Controller because tx was full. It is only ever written here, on
	// the audio thread, with a plain atomic add — the Controller drains
	// it later from the control thread via Controller.SyncMetrics.
	drops *atomic.Uint64
}

// New builds a Renderer over the given rings: tx carries stale plans
// back to the controller, rx carries freshly compiled plans in. This is
// the mirror image of controller.New's (tx, rx) — the engine's two
// rings are wired back to back.
func New(tx, rx *spsc.Ring[message.Message], _ config.Config, drops *atomic.Uint64) *Renderer {
	return &Renderer{
		tx:    tx,
		rx:    rx,
		plan:  plan.NewRenderPlan(nil),
		drops: drops,
	}
}

// Render processes one block: first it swaps in any newly arrived plan,
// then it walks the active plan, filling output (interleaved,
// outputChannels wide, frames samples per channel).
func (r *Renderer) Render(output []float32, outputChannels, frames int) {
	r.processMessages()
	r.renderPlan(output, outputChannels, frames)
}

// processMessages drains every plan the controller has shipped. Each
// swap displaces the previous plan, which is pushed back onto tx so the
// controller drops it on the control thread; if tx is full the stale
// plan is dropped here instead and drops is incremented. The buffers a
// plan references stay owned by the controller either way.
func (r *Renderer) processMessages() {
	r.rx.PopEach(func(msg *message.Message) bool {
		prev := r.plan
		r.plan = msg.Plan
		if !r.tx.Push(&message.Message{Plan: prev}) {
			if r.drops != nil {
				r.drops.Add(1)
			}
		}
		return true
	})
}

// renderPlan walks the active plan's operations in order: a
// RenderProcessorOp calls straight into the processor after setting its
// context's sample count to frames, a RenderOutputOp copies frames
// samples of its bound channels into the interleaved output,
// zero-filling any of output's channels the op does not supply — unlike
// the original, which leaves that fill as a TODO and emits whatever was
// left over in the host's buffer from the previous block. output may be
// sized for the engine's full buffer_size and only partially used by a
// given call; frames must satisfy frames <= buffer_size, and frames == 0
// writes nothing at all.
func (r *Renderer) renderPlan(output []float32, outputChannels, frames int) {
	for _, op := range r.plan.Operations {
		switch v := op.(type) {
		case plan.RenderOutputOp:
			renderOutput(v.Input, output, outputChannels, frames)
		case plan.RenderProcessorOp:
			v.Context.SetNumSamples(frames)
			v.Processor.Render(v.Context)
		}
	}
}

func renderOutput(port plan.AudioInputPort, output []float32, outputChannels, frames int) {
	numChannels := port.Len()
	if numChannels > outputChannels {
		numChannels = outputChannels
	}

	for channelIndex := 0; channelIndex < numChannels; channelIndex++ {
		buf := port.Channel(channelIndex).AsSlice()
		n := frames
		if n > len(buf) {
			n = len(buf)
		}
		for sampleIndex := 0; sampleIndex < n; sampleIndex++ {
			outputOffset := sampleIndex*outputChannels + channelIndex
			if outputOffset >= len(output) {
				break
			}
			output[outputOffset] = buf[sampleIndex]
		}
	}

	for channelIndex := numChannels; channelIndex < outputChannels; channelIndex++ {
		for sampleIndex := 0; sampleIndex < frames; sampleIndex++ {
			outputOffset := sampleIndex*outputChannels + channelIndex
			if outputOffset >= len(output) {
				break
			}
			output[outputOffset] = 0
		}
	}
}
