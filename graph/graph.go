// Package graph implements the Audio Graph Model: a declarative,
// control-thread-only description of nodes and how their audio, MIDI and
// parameter ports connect. A Graph is mutated freely between render
// cycles; Graph.Topology compiles it into the dependency order the
// Controller needs to build a RenderPlan.
package graph

import (
	"github.com/justyntemme/kiroengine/key"
	"github.com/justyntemme/kiroengine/keystore"
)

// Graph is a mutable collection of nodes and their connections, plus the
// graph-level input/output aliases bound via BindAudioOutput and its
// siblings.
type Graph struct {
	nodes *keystore.KeyStoreWithId[*Node]

	audioInputs  map[string]AudioInRef
	audioOutputs map[string]AudioOutRef
	midiInputs   map[string]MidiInRef
	midiOutputs  map[string]MidiOutRef
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:        keystore.NewWithId[*Node](),
		audioInputs:  make(map[string]AudioInRef),
		audioOutputs: make(map[string]AudioOutRef),
		midiInputs:   make(map[string]MidiInRef),
		midiOutputs:  make(map[string]MidiOutRef),
	}
}

// AddNode creates a node with the given id and descriptor. It fails with
// ErrNodeAlreadyExists if id is already in use.
func (g *Graph) AddNode(id string, descriptor NodeDescriptor) (NodeRef, error) {
	if g.nodes.ContainsID(id) {
		return NodeRef{}, newError(ErrNodeAlreadyExists, id, "")
	}
	k := g.nodes.Add(newNode(id, descriptor))
	return NodeRef{key: k}, nil
}

// GetNodeRef resolves a node id to its NodeRef.
func (g *Graph) GetNodeRef(id string) (NodeRef, error) {
	k, ok := g.nodes.KeyFromID(id)
	if !ok {
		return NodeRef{}, newError(ErrNodeNotFound, id, "")
	}
	return NodeRef{key: k}, nil
}

// GetNode returns the node named by ref.
func (g *Graph) GetNode(ref NodeRef) (*Node, error) {
	n, ok := g.nodes.Get(ref.key)
	if !ok {
		return nil, newError(ErrInvalidNodeRef, ref.RefString(), "")
	}
	return n, nil
}

// Param resolves a node's parameter id to a ParamRef.
func (g *Graph) Param(ref NodeRef, paramID string) (ParamRef, error) {
	n, err := g.GetNode(ref)
	if err != nil {
		return ParamRef{}, err
	}
	k, ok := n.params.KeyFromID(paramID)
	if !ok {
		return ParamRef{}, newError(ErrParamNotFound, n.RefString(), paramID)
	}
	return ParamRef{NodeRef: ref, Key: k}, nil
}

// AudioInput resolves a node's audio input port id to an AudioInRef.
func (g *Graph) AudioInput(ref NodeRef, portID string) (AudioInRef, error) {
	n, err := g.GetNode(ref)
	if err != nil {
		return AudioInRef{}, err
	}
	k, ok := n.audioInputs.KeyFromID(portID)
	if !ok {
		return AudioInRef{}, newError(ErrAudioPortNotFound, n.RefString(), portID)
	}
	return AudioInRef{NodeRef: ref, Key: k}, nil
}

// AudioOutput resolves a node's audio output port id to an AudioOutRef.
func (g *Graph) AudioOutput(ref NodeRef, portID string) (AudioOutRef, error) {
	n, err := g.GetNode(ref)
	if err != nil {
		return AudioOutRef{}, err
	}
	k, ok := n.audioOutputs.KeyFromID(portID)
	if !ok {
		return AudioOutRef{}, newError(ErrAudioPortNotFound, n.RefString(), portID)
	}
	return AudioOutRef{NodeRef: ref, Key: k}, nil
}

// MidiInput resolves a node's MIDI input port id to a MidiInRef.
func (g *Graph) MidiInput(ref NodeRef, portID string) (MidiInRef, error) {
	n, err := g.GetNode(ref)
	if err != nil {
		return MidiInRef{}, err
	}
	k, ok := n.midiInputs.KeyFromID(portID)
	if !ok {
		return MidiInRef{}, newError(ErrMidiPortNotFound, n.RefString(), portID)
	}
	return MidiInRef{NodeRef: ref, Key: k}, nil
}

// MidiOutput resolves a node's MIDI output port id to a MidiOutRef.
func (g *Graph) MidiOutput(ref NodeRef, portID string) (MidiOutRef, error) {
	n, err := g.GetNode(ref)
	if err != nil {
		return MidiOutRef{}, err
	}
	k, ok := n.midiOutputs.KeyFromID(portID)
	if !ok {
		return MidiOutRef{}, newError(ErrMidiPortNotFound, n.RefString(), portID)
	}
	return MidiOutRef{NodeRef: ref, Key: k}, nil
}

func (g *Graph) ensureValidAudioSource(source AudioSource) (AudioSource, error) {
	n, err := g.GetNode(source.NodeRef)
	if err != nil {
		return AudioSource{}, newError(ErrInvalidSourceNode, source.NodeRef.RefString(), "AudioOut")
	}

	k := source.Key
	if k == nil {
		fk, ok := n.audioOutputs.FirstKey()
		if !ok {
			return AudioSource{}, newError(ErrNoSourceDefaultPort, n.RefString(), "AudioOut")
		}
		k = &fk
	}
	if !n.audioOutputs.ContainsKey(*k) {
		return AudioSource{}, newError(ErrInvalidAudioSourceKey, n.RefString(), "AudioOut")
	}
	return AudioSource{NodeRef: source.NodeRef, Key: k}, nil
}

func (g *Graph) ensureValidMidiSource(source MidiSource) (MidiSource, error) {
	n, err := g.GetNode(source.NodeRef)
	if err != nil {
		return MidiSource{}, newError(ErrInvalidSourceNode, source.NodeRef.RefString(), "MidiOut")
	}

	k := source.Key
	if k == nil {
		fk, ok := n.midiOutputs.FirstKey()
		if !ok {
			return MidiSource{}, newError(ErrNoSourceDefaultPort, n.RefString(), "MidiOut")
		}
		k = &fk
	}
	if !n.midiOutputs.ContainsKey(*k) {
		return MidiSource{}, newError(ErrInvalidMidiSourceKey, n.RefString(), "MidiOut")
	}
	return MidiSource{NodeRef: source.NodeRef, Key: k}, nil
}

func (g *Graph) ensureValidAudioDestination(dest AudioDestination) (AudioDestination, error) {
	n, err := g.GetNode(dest.NodeRef)
	if err != nil {
		return AudioDestination{}, newError(ErrInvalidDestinationNode, dest.NodeRef.RefString(), "AudioIn")
	}

	k := dest.Key
	if k == nil {
		fk, ok := n.audioInputs.FirstKey()
		if !ok {
			return AudioDestination{}, newError(ErrNoDestinationDefaultPort, n.RefString(), "AudioIn")
		}
		k = &fk
	}
	port, ok := n.audioInputs.Get(*k)
	if !ok {
		return AudioDestination{}, newError(ErrInvalidAudioDestKey, n.RefString(), "AudioIn")
	}
	if port.Connection != nil {
		return AudioDestination{}, newError(ErrDestinationAlreadyWired, n.RefString(), port.ID())
	}
	return AudioDestination{NodeRef: dest.NodeRef, Key: k}, nil
}

func (g *Graph) ensureValidMidiDestination(dest MidiDestination) (MidiDestination, error) {
	n, err := g.GetNode(dest.NodeRef)
	if err != nil {
		return MidiDestination{}, newError(ErrInvalidDestinationNode, dest.NodeRef.RefString(), "MidiIn")
	}

	k := dest.Key
	if k == nil {
		fk, ok := n.midiInputs.FirstKey()
		if !ok {
			return MidiDestination{}, newError(ErrNoDestinationDefaultPort, n.RefString(), "MidiIn")
		}
		k = &fk
	}
	port, ok := n.midiInputs.Get(*k)
	if !ok {
		return MidiDestination{}, newError(ErrInvalidMidiDestKey, n.RefString(), "MidiIn")
	}
	if port.Connection != nil {
		return MidiDestination{}, newError(ErrDestinationAlreadyWired, n.RefString(), port.ID())
	}
	return MidiDestination{NodeRef: dest.NodeRef, Key: k}, nil
}

func (g *Graph) ensureValidParamDestination(dest ParamDestination) (ParamDestination, error) {
	n, err := g.GetNode(dest.NodeRef)
	if err != nil {
		return ParamDestination{}, newError(ErrInvalidDestinationNode, dest.NodeRef.RefString(), "Param")
	}
	port, ok := n.params.Get(dest.Key)
	if !ok {
		return ParamDestination{}, newError(ErrInvalidParamDestKey, n.RefString(), "Param")
	}
	if port.Connection != nil {
		return ParamDestination{}, newError(ErrDestinationAlreadyWired, n.RefString(), port.ID())
	}
	return dest, nil
}

func (g *Graph) linkSourceAndDestination(source, dest NodeRef) error {
	sourceNode, err := g.GetNode(source)
	if err != nil {
		return err
	}
	sourceNode.destinations[dest] = struct{}{}

	destNode, err := g.GetNode(dest)
	if err != nil {
		return err
	}
	destNode.invalidated = true
	destNode.sources[source] = struct{}{}
	return nil
}

// ConnectAudio wires an audio output to an audio input. Either endpoint
// may omit its port (AudioOutputOf/AudioInputOf) to mean "the node's
// first declared port of that kind".
func (g *Graph) ConnectAudio(source AudioSource, dest AudioDestination) error {
	validSource, err := g.ensureValidAudioSource(source)
	if err != nil {
		return err
	}
	validDest, err := g.ensureValidAudioDestination(dest)
	if err != nil {
		return err
	}
	if err := g.linkSourceAndDestination(validSource.NodeRef, validDest.NodeRef); err != nil {
		return err
	}
	destNode, _ := g.GetNode(validDest.NodeRef)
	port, _ := destNode.audioInputs.Get(*validDest.Key)
	port.Connection = &validSource
	destNode.audioInputs.Set(*validDest.Key, port)
	return nil
}

// ConnectMidi wires a MIDI output to a MIDI input.
func (g *Graph) ConnectMidi(source MidiSource, dest MidiDestination) error {
	validSource, err := g.ensureValidMidiSource(source)
	if err != nil {
		return err
	}
	validDest, err := g.ensureValidMidiDestination(dest)
	if err != nil {
		return err
	}
	if err := g.linkSourceAndDestination(validSource.NodeRef, validDest.NodeRef); err != nil {
		return err
	}
	destNode, _ := g.GetNode(validDest.NodeRef)
	port, _ := destNode.midiInputs.Get(*validDest.Key)
	port.Connection = &validSource
	destNode.midiInputs.Set(*validDest.Key, port)
	return nil
}

// ConnectParam wires an audio output to a parameter port, giving the
// parameter audio-rate modulation instead of a fixed control-rate value.
func (g *Graph) ConnectParam(source AudioSource, dest ParamDestination) error {
	validSource, err := g.ensureValidAudioSource(source)
	if err != nil {
		return err
	}
	validDest, err := g.ensureValidParamDestination(dest)
	if err != nil {
		return err
	}
	if err := g.linkSourceAndDestination(validSource.NodeRef, validDest.NodeRef); err != nil {
		return err
	}
	destNode, _ := g.GetNode(validDest.NodeRef)
	port, _ := destNode.params.Get(validDest.Key)
	port.Connection = &validSource
	destNode.params.Set(validDest.Key, port)
	return nil
}

// BindAudioOutput aliases a node's audio output as one of the graph's
// top-level outputs, under the given name.
func (g *Graph) BindAudioOutput(source AudioSource, alias string) error {
	valid, err := g.ensureValidAudioSource(source)
	if err != nil {
		return err
	}
	g.audioOutputs[alias] = AudioOutRef{NodeRef: valid.NodeRef, Key: *valid.Key}
	return nil
}

// BindMidiOutput aliases a node's MIDI output as one of the graph's
// top-level outputs.
func (g *Graph) BindMidiOutput(source MidiSource, alias string) error {
	valid, err := g.ensureValidMidiSource(source)
	if err != nil {
		return err
	}
	g.midiOutputs[alias] = MidiOutRef{NodeRef: valid.NodeRef, Key: *valid.Key}
	return nil
}

// BindAudioInput aliases a node's audio input as one of the graph's
// top-level inputs. The alias is only recorded (see AudioInputAliases):
// the controller does not compile bound inputs into the render plan, and
// the renderer does not read host input, so nothing is copied into the
// bound port at render time.
//
// Binding does not check whether the port is also connected.
func (g *Graph) BindAudioInput(dest AudioDestination, alias string) error {
	n, err := g.GetNode(dest.NodeRef)
	if err != nil {
		return newError(ErrInvalidDestinationNode, dest.NodeRef.RefString(), "AudioIn")
	}
	k := dest.Key
	if k == nil {
		fk, ok := n.audioInputs.FirstKey()
		if !ok {
			return newError(ErrNoDestinationDefaultPort, n.RefString(), "AudioIn")
		}
		k = &fk
	}
	g.audioInputs[alias] = AudioInRef{NodeRef: dest.NodeRef, Key: *k}
	return nil
}

// BindMidiInput aliases a node's MIDI input as one of the graph's
// top-level inputs.
func (g *Graph) BindMidiInput(dest MidiDestination, alias string) error {
	n, err := g.GetNode(dest.NodeRef)
	if err != nil {
		return newError(ErrInvalidDestinationNode, dest.NodeRef.RefString(), "MidiIn")
	}
	k := dest.Key
	if k == nil {
		fk, ok := n.midiInputs.FirstKey()
		if !ok {
			return newError(ErrNoDestinationDefaultPort, n.RefString(), "MidiIn")
		}
		k = &fk
	}
	g.midiInputs[alias] = MidiInRef{NodeRef: dest.NodeRef, Key: *k}
	return nil
}

// BindParamInput is explicitly unsupported: the original implementation
// leaves this arm unimplemented, and nothing in this spec requires a
// graph-level input alias driving a parameter directly (control-thread
// callers set parameters through Controller.SetParam instead).
func (g *Graph) BindParamInput(ParamDestination, string) error {
	return ErrParamBindingNotSupported
}

// AudioOutputAliases returns the graph's bound top-level audio outputs.
func (g *Graph) AudioOutputAliases() map[string]AudioOutRef {
	return g.audioOutputs
}

// AudioInputAliases returns the graph's bound top-level audio inputs.
func (g *Graph) AudioInputAliases() map[string]AudioInRef {
	return g.audioInputs
}

// NodeKeys exposes the underlying key.Key values for nodes, ascending,
// for iterating nodes deterministically outside of topology order.
func (g *Graph) NodeKeys() []key.Key[*Node] {
	return g.nodes.Keys()
}
