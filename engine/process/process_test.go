package process

import (
	"testing"

	"github.com/justyntemme/kiroengine/engine/plan"
	"github.com/justyntemme/kiroengine/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gainProcessor struct{ gain float32 }

func (g *gainProcessor) Render(ctx *plan.Context) {
	n := ctx.AudioOutput(0).Len()
	for ch := 0; ch < n; ch++ {
		buf := ctx.AudioOutput(0).Channel(ch)
		buf.Fill(g.gain)
	}
}

func TestGenericFactoryCreatesRegisteredClass(t *testing.T) {
	factory := NewGenericFactory().WithFactory("Gain", func(descriptor graph.NodeDescriptor) (Processor, bool) {
		return &gainProcessor{gain: 0.5}, true
	})

	proc, ok := factory.Create(graph.NewNodeDescriptor("Gain"))
	require.True(t, ok)
	assert.NotNil(t, proc)
	assert.ElementsMatch(t, []string{"Gain"}, factory.SupportedClasses())
}

func TestGenericFactoryUnknownClass(t *testing.T) {
	factory := NewGenericFactory()
	_, ok := factory.Create(graph.NewNodeDescriptor("Unknown"))
	assert.False(t, ok)
}

func TestLaterRegistrationWins(t *testing.T) {
	factory := NewGenericFactory().
		WithFactory("Gain", func(descriptor graph.NodeDescriptor) (Processor, bool) {
			return &gainProcessor{gain: 1}, true
		}).
		WithFactory("Gain", func(descriptor graph.NodeDescriptor) (Processor, bool) {
			return &gainProcessor{gain: 2}, true
		})

	proc, ok := factory.Create(graph.NewNodeDescriptor("Gain"))
	require.True(t, ok)
	assert.Equal(t, float32(2), proc.(*gainProcessor).gain)
}
