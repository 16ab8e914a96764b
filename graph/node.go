package graph

import (
	"fmt"

	"github.com/justyntemme/kiroengine/key"
	"github.com/justyntemme/kiroengine/keystore"
)

// NodeRef is an opaque reference to one node in a Graph. The key is
// tagged by *Node because the graph's KeyStoreWithId stores node pointers
// (nodes are mutated in place through Graph's methods).
type NodeRef struct {
	key key.Key[*Node]
}

// RefString renders the underlying key for logging and error messages.
func (r NodeRef) RefString() string {
	return fmt.Sprintf("Node[%d]", r.key.Value())
}

// Node holds one graph node's descriptor, its port stores, and the set of
// nodes it is connected to/from. Nodes are owned by a Graph and mutated
// only through Graph's methods.
type Node struct {
	id          string
	invalidated bool
	descriptor  NodeDescriptor

	params       *keystore.KeyStoreWithId[ParamPort]
	audioInputs  *keystore.KeyStoreWithId[AudioInPort]
	audioOutputs *keystore.KeyStoreWithId[AudioOutPort]
	midiInputs   *keystore.KeyStoreWithId[MidiInPort]
	midiOutputs  *keystore.KeyStoreWithId[MidiOutPort]

	dynamicAudioInputsAdded  int
	dynamicAudioOutputsAdded int
	dynamicParamsAdded       int

	sources      map[NodeRef]struct{}
	destinations map[NodeRef]struct{}
}

func newNode(id string, descriptor NodeDescriptor) *Node {
	params := keystore.NewWithId[ParamPort]()
	for _, d := range descriptor.StaticParameters {
		params.Add(ParamPort{Descriptor: d})
	}
	audioInputs := keystore.NewWithId[AudioInPort]()
	for _, d := range descriptor.StaticAudioInputs {
		audioInputs.Add(AudioInPort{Descriptor: d})
	}
	audioOutputs := keystore.NewWithId[AudioOutPort]()
	for _, d := range descriptor.StaticAudioOutputs {
		audioOutputs.Add(AudioOutPort{Descriptor: d})
	}
	midiInputs := keystore.NewWithId[MidiInPort]()
	for _, d := range descriptor.StaticMidiInputs {
		midiInputs.Add(MidiInPort{Descriptor: d})
	}
	midiOutputs := keystore.NewWithId[MidiOutPort]()
	for _, d := range descriptor.StaticMidiOutputs {
		midiOutputs.Add(MidiOutPort{Descriptor: d})
	}

	return &Node{
		id:           id,
		invalidated:  true,
		descriptor:   descriptor,
		params:       params,
		audioInputs:  audioInputs,
		audioOutputs: audioOutputs,
		midiInputs:   midiInputs,
		midiOutputs:  midiOutputs,
		sources:      make(map[NodeRef]struct{}),
		destinations: make(map[NodeRef]struct{}),
	}
}

func (n *Node) ID() string { return n.id }

// RefString renders this node's id for logging and error messages.
func (n *Node) RefString() string {
	return fmt.Sprintf("Node[%s]", n.id)
}

// Invalidated reports whether the controller must rebuild this node's
// cached processor/buffers on the next UpdateGraph pass.
func (n *Node) Invalidated() bool { return n.invalidated }

func (n *Node) Descriptor() NodeDescriptor { return n.descriptor }

func (n *Node) AudioInputs() *keystore.KeyStoreWithId[AudioInPort] { return n.audioInputs }

func (n *Node) AudioOutputs() *keystore.KeyStoreWithId[AudioOutPort] { return n.audioOutputs }

func (n *Node) Params() *keystore.KeyStoreWithId[ParamPort] { return n.params }

func (n *Node) MidiInputs() *keystore.KeyStoreWithId[MidiInPort] { return n.midiInputs }

func (n *Node) MidiOutputs() *keystore.KeyStoreWithId[MidiOutPort] { return n.midiOutputs }

// Sources returns the set of nodes this node reads from.
func (n *Node) Sources() []NodeRef {
	refs := make([]NodeRef, 0, len(n.sources))
	for ref := range n.sources {
		refs = append(refs, ref)
	}
	return refs
}

// Destinations returns the set of nodes that read from this node.
func (n *Node) Destinations() []NodeRef {
	refs := make([]NodeRef, 0, len(n.destinations))
	for ref := range n.destinations {
		refs = append(refs, ref)
	}
	return refs
}

// GraphTopology is the result of Graph.Topology: nodes in dependency
// order (every node's sources appear before it), together with, for every
// node, how many sources and destinations it has.
type GraphTopology struct {
	Nodes             []NodeRef
	SourceCounts      map[NodeRef]int
	DestinationCounts map[NodeRef]int
}
