package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnectionsFixture(t *testing.T) (*Graph, NodeRef, NodeRef) {
	t.Helper()
	g := New()

	sourceDesc := NewNodeDescriptor("Source").
		WithStaticAudioOutputs(NewAudioDescriptor("OUT", 1)).
		WithStaticMidiOutputs(NewMidiDescriptor("OUT"))
	sinkDesc := NewNodeDescriptor("Sink").
		WithStaticAudioInputs(NewAudioDescriptor("IN", 1)).
		WithStaticParameters(NewParamDescriptor("P1")).
		WithStaticMidiInputs(NewMidiDescriptor("IN"))

	n1, err := g.AddNode("N1", sourceDesc)
	require.NoError(t, err)
	n2, err := g.AddNode("N2", sinkDesc)
	require.NoError(t, err)

	return g, n1, n2
}

func TestAddNodeRejectsDuplicateID(t *testing.T) {
	g := New()
	_, err := g.AddNode("N1", NewNodeDescriptor("Source"))
	require.NoError(t, err)
	_, err = g.AddNode("N1", NewNodeDescriptor("Source"))
	assert.ErrorIs(t, err, ErrNodeAlreadyExists)
}

func TestConnectAudioNodeWithNode(t *testing.T) {
	g, n1, n2 := newConnectionsFixture(t)

	require.NoError(t, g.ConnectAudio(AudioOutputOf(n1), AudioInputOf(n2)))

	node, err := g.GetNode(n2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []NodeRef{n1}, node.Sources())

	firstKey, ok := node.AudioInputs().FirstKey()
	require.True(t, ok)
	port, ok := node.AudioInputs().Get(firstKey)
	require.True(t, ok)
	require.NotNil(t, port.Connection)
	assert.Equal(t, n1, port.Connection.NodeRef)
}

func TestConnectAudioOutputWithAudioInput(t *testing.T) {
	g, n1, n2 := newConnectionsFixture(t)

	source, err := g.AudioOutput(n1, "OUT")
	require.NoError(t, err)
	destination, err := g.AudioInput(n2, "IN")
	require.NoError(t, err)

	require.NoError(t, g.ConnectAudio(AudioOutputPort(source), AudioInputPort(destination)))

	node, err := g.GetNode(n2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []NodeRef{n1}, node.Sources())

	port, ok := node.AudioInputs().Get(destination.Key)
	require.True(t, ok)
	require.NotNil(t, port.Connection)
	assert.Equal(t, source.Key, *port.Connection.Key)
}

func TestConnectNodeWithParam(t *testing.T) {
	g, n1, n2 := newConnectionsFixture(t)

	destination, err := g.Param(n2, "P1")
	require.NoError(t, err)

	require.NoError(t, g.ConnectParam(AudioOutputOf(n1), Param(destination)))

	node, err := g.GetNode(n2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []NodeRef{n1}, node.Sources())

	port, ok := node.Params().Get(destination.Key)
	require.True(t, ok)
	require.NotNil(t, port.Connection)
	assert.Equal(t, n1, port.Connection.NodeRef)
}

func TestConnectMidiNodeWithNode(t *testing.T) {
	g, n1, n2 := newConnectionsFixture(t)

	require.NoError(t, g.ConnectMidi(MidiOutputOf(n1), MidiInputOf(n2)))

	node, err := g.GetNode(n2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []NodeRef{n1}, node.Sources())
}

func TestConnectDestinationAlreadyConnected(t *testing.T) {
	g, n1, n2 := newConnectionsFixture(t)
	require.NoError(t, g.ConnectAudio(AudioOutputOf(n1), AudioInputOf(n2)))

	n3, err := g.AddNode("N3", NewNodeDescriptor("Source").WithStaticAudioOutputs(NewAudioDescriptor("OUT", 1)))
	require.NoError(t, err)

	err = g.ConnectAudio(AudioOutputOf(n3), AudioInputOf(n2))
	assert.ErrorIs(t, err, ErrDestinationAlreadyWired)
}

func TestConnectNoSourceDefaultPort(t *testing.T) {
	g := New()
	noOutputs, err := g.AddNode("NoOutputs", NewNodeDescriptor("Source"))
	require.NoError(t, err)
	sink, err := g.AddNode("Sink", NewNodeDescriptor("Sink").WithStaticAudioInputs(NewAudioDescriptor("IN", 1)))
	require.NoError(t, err)

	err = g.ConnectAudio(AudioOutputOf(noOutputs), AudioInputOf(sink))
	assert.ErrorIs(t, err, ErrNoSourceDefaultPort)
}

func TestTopologyOrdersBySourceDependency(t *testing.T) {
	g := New()

	mixDesc := NewNodeDescriptor("Mix").
		WithStaticAudioInputs(NewAudioDescriptor("in1", 1), NewAudioDescriptor("in2", 1)).
		WithStaticAudioOutputs(NewAudioDescriptor("out", 1))
	sourceDesc := NewNodeDescriptor("Source").WithStaticAudioOutputs(NewAudioDescriptor("out", 1))
	procDesc := NewNodeDescriptor("Proc").
		WithStaticAudioInputs(NewAudioDescriptor("in1", 1), NewAudioDescriptor("in2", 1)).
		WithStaticAudioOutputs(NewAudioDescriptor("out", 1))

	a, err := g.AddNode("A", mixDesc)
	require.NoError(t, err)
	b, err := g.AddNode("B", procDesc)
	require.NoError(t, err)
	c, err := g.AddNode("C", procDesc)
	require.NoError(t, err)
	d, err := g.AddNode("D", sourceDesc)
	require.NoError(t, err)
	e, err := g.AddNode("E", sourceDesc)
	require.NoError(t, err)
	f, err := g.AddNode("F", sourceDesc)
	require.NoError(t, err)
	unreachable, err := g.AddNode("Unreachable", sourceDesc)
	require.NoError(t, err)

	bIn1, err := g.AudioInput(b, "in1")
	require.NoError(t, err)
	bIn2, err := g.AudioInput(b, "in2")
	require.NoError(t, err)
	aIn1, err := g.AudioInput(a, "in1")
	require.NoError(t, err)
	aIn2, err := g.AudioInput(a, "in2")
	require.NoError(t, err)

	require.NoError(t, g.ConnectAudio(AudioOutputOf(d), AudioInputPort(bIn1)))
	require.NoError(t, g.ConnectAudio(AudioOutputOf(e), AudioInputPort(bIn2)))
	require.NoError(t, g.ConnectAudio(AudioOutputOf(b), AudioInputPort(aIn1)))
	require.NoError(t, g.ConnectAudio(AudioOutputOf(f), AudioInputOf(c)))
	require.NoError(t, g.ConnectAudio(AudioOutputOf(c), AudioInputPort(aIn2)))

	require.NoError(t, g.BindAudioOutput(AudioOutputOf(a), "master"))

	topology, err := g.Topology()
	require.NoError(t, err)

	index := make(map[NodeRef]int, len(topology.Nodes))
	for i, ref := range topology.Nodes {
		index[ref] = i
	}

	for _, edge := range [][2]NodeRef{{d, b}, {e, b}, {b, a}, {f, c}, {c, a}} {
		from, to := edge[0], edge[1]
		assert.Less(t, index[from], index[to])
	}

	assert.Equal(t, 2, topology.SourceCounts[a])
	assert.Equal(t, 2, topology.SourceCounts[b])
	assert.Equal(t, 1, topology.SourceCounts[c])
	assert.Equal(t, 0, topology.SourceCounts[d])

	assert.NotContains(t, index, unreachable)
}

func TestTopologyDetectsCycle(t *testing.T) {
	g := New()
	desc := NewNodeDescriptor("Node").
		WithStaticAudioInputs(NewAudioDescriptor("in", 1)).
		WithStaticAudioOutputs(NewAudioDescriptor("out", 1))

	a, err := g.AddNode("A", desc)
	require.NoError(t, err)
	b, err := g.AddNode("B", desc)
	require.NoError(t, err)

	require.NoError(t, g.ConnectAudio(AudioOutputOf(a), AudioInputOf(b)))
	require.NoError(t, g.ConnectAudio(AudioOutputOf(b), AudioInputOf(a)))
	require.NoError(t, g.BindAudioOutput(AudioOutputOf(a), "out"))

	_, err = g.Topology()
	assert.ErrorIs(t, err, ErrCycleDetected)
}
