package renderer

import (
	"sync/atomic"
	"testing"

	"github.com/justyntemme/kiroengine/buffer"
	"github.com/justyntemme/kiroengine/engine/config"
	"github.com/justyntemme/kiroengine/engine/message"
	"github.com/justyntemme/kiroengine/engine/plan"
	"github.com/justyntemme/kiroengine/spsc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) (*Renderer, *spsc.Ring[message.Message], *spsc.Ring[message.Message], *atomic.Uint64) {
	t.Helper()
	tx := spsc.New[message.Message](4)
	rx := spsc.New[message.Message](4)
	var drops atomic.Uint64
	return New(tx, rx, config.Default(), &drops), tx, rx, &drops
}

func bufferOf(samples ...float32) *buffer.Buffer {
	b := buffer.New(len(samples))
	for i, s := range samples {
		b.Set(i, s)
	}
	return b
}

func TestRenderInterleavesBoundOutputChannels(t *testing.T) {
	r, _, rx, _ := newTestRenderer(t)

	left := bufferOf(1, 2, 3)
	right := bufferOf(4, 5, 6)
	outOp := plan.RenderOutputOp{Alias: "master", Input: plan.NewAudioInputPort([]*buffer.Buffer{left, right})}
	rx.Push(&message.Message{Plan: plan.NewRenderPlan([]plan.RenderOp{outOp})})

	output := make([]float32, 6)
	r.Render(output, 2, 3)

	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, output)
}

func TestRenderZeroFillsExcessOutputChannels(t *testing.T) {
	r, _, rx, _ := newTestRenderer(t)

	mono := bufferOf(1, 2)
	outOp := plan.RenderOutputOp{Alias: "master", Input: plan.NewAudioInputPort([]*buffer.Buffer{mono})}
	rx.Push(&message.Message{Plan: plan.NewRenderPlan([]plan.RenderOp{outOp})})

	output := []float32{9, 9, 9, 9}
	r.Render(output, 2, 2)

	assert.Equal(t, []float32{1, 0, 2, 0}, output)
}

type fakeProcessor struct {
	calls    int
	samples  int
	lastSeen int
}

func (p *fakeProcessor) Render(ctx *plan.Context) {
	p.calls++
	p.lastSeen = ctx.NumSamples()
}

func TestRenderCallsProcessorWithFrameCount(t *testing.T) {
	r, _, rx, _ := newTestRenderer(t)

	proc := &fakeProcessor{}
	ctx := plan.NewContext(nil, nil, nil)
	procOp := plan.RenderProcessorOp{Processor: proc, Context: ctx}
	rx.Push(&message.Message{Plan: plan.NewRenderPlan([]plan.RenderOp{procOp})})

	output := make([]float32, 8)
	r.Render(output, 2, 4)

	assert.Equal(t, 1, proc.calls)
	assert.Equal(t, 4, proc.lastSeen)
}

// TestRenderHonorsFramesSmallerThanOutput covers a host that hands the
// renderer a fixed, over-allocated output buffer (sized for buffer_size
// frames) but requests fewer frames this call — output beyond
// outputChannels*frames must be left entirely untouched.
func TestRenderHonorsFramesSmallerThanOutput(t *testing.T) {
	r, _, rx, _ := newTestRenderer(t)

	mono := bufferOf(10, 20, 30, 40)
	outOp := plan.RenderOutputOp{Alias: "master", Input: plan.NewAudioInputPort([]*buffer.Buffer{mono})}
	rx.Push(&message.Message{Plan: plan.NewRenderPlan([]plan.RenderOp{outOp})})

	output := []float32{-1, -1, -1, -1, -1, -1, -1, -1}
	r.Render(output, 2, 2)

	assert.Equal(t, []float32{10, 0, 20, 0, -1, -1, -1, -1}, output)
}

// TestRenderZeroFramesWritesNothing covers the frames == 0 boundary: the
// renderer must not write anything, including the excess-channel
// zero-fill, so output's contents are left exactly as the caller set them.
func TestRenderZeroFramesWritesNothing(t *testing.T) {
	r, _, rx, _ := newTestRenderer(t)

	mono := bufferOf(1, 2, 3)
	outOp := plan.RenderOutputOp{Alias: "master", Input: plan.NewAudioInputPort([]*buffer.Buffer{mono})}

	proc := &fakeProcessor{}
	ctx := plan.NewContext(nil, nil, nil)
	procOp := plan.RenderProcessorOp{Processor: proc, Context: ctx}
	rx.Push(&message.Message{Plan: plan.NewRenderPlan([]plan.RenderOp{outOp, procOp})})

	output := []float32{-1, -1, -1, -1}
	r.Render(output, 2, 0)

	assert.Equal(t, []float32{-1, -1, -1, -1}, output)
	assert.Equal(t, 1, proc.calls)
	assert.Equal(t, 0, proc.lastSeen)
}

func TestProcessMessagesReturnsStalePlanAndSwapsIn(t *testing.T) {
	r, tx, rx, _ := newTestRenderer(t)

	staleMarker := plan.NewRenderPlan(nil)
	r.plan = staleMarker

	fresh := plan.NewRenderPlan([]plan.RenderOp{})
	rx.Push(&message.Message{Plan: fresh})

	r.processMessages()

	assert.Same(t, fresh, r.plan)
	msg, ok := tx.Pop()
	require.True(t, ok)
	assert.Same(t, staleMarker, msg.Plan)
}

func TestProcessMessagesIncrementsDropsWhenTxFull(t *testing.T) {
	tx := spsc.New[message.Message](1)
	rx := spsc.New[message.Message](4)
	var drops atomic.Uint64
	r := New(tx, rx, config.Default(), &drops)

	require.True(t, tx.Push(&message.Message{Plan: plan.NewRenderPlan(nil)}))

	rx.Push(&message.Message{Plan: plan.NewRenderPlan(nil)})
	r.processMessages()

	assert.Equal(t, uint64(1), drops.Load())
}
