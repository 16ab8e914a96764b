package graph

import "fmt"

// AudioDescriptor describes a static audio port: a name and a channel
// count.
type AudioDescriptor struct {
	IDValue  string
	Channels int
}

// NewAudioDescriptor returns an AudioDescriptor with the given id and
// channel count.
func NewAudioDescriptor(id string, channels int) AudioDescriptor {
	return AudioDescriptor{IDValue: id, Channels: channels}
}

// ID satisfies keystore.Identifiable.
func (d AudioDescriptor) ID() string { return d.IDValue }

// MidiDescriptor describes a static MIDI port: a name only.
type MidiDescriptor struct {
	IDValue string
}

// NewMidiDescriptor returns a MidiDescriptor with the given id.
func NewMidiDescriptor(id string) MidiDescriptor {
	return MidiDescriptor{IDValue: id}
}

// ID satisfies keystore.Identifiable.
func (d MidiDescriptor) ID() string { return d.IDValue }

// ParamDescriptor describes a parameter port: its name, initial value
// and value range. The controller seeds the port's value with Initial;
// it does not clamp values to [Min, Max].
type ParamDescriptor struct {
	IDValue string
	Initial float32
	Min     float32
	Max     float32
	Center  float32
}

// NewParamDescriptor returns a ParamDescriptor with defaults matching the
// original implementation: Initial 0, Min 0, Max 1, Center 0.
func NewParamDescriptor(id string) ParamDescriptor {
	return ParamDescriptor{IDValue: id, Initial: 0, Min: 0, Max: 1, Center: 0}
}

func (d ParamDescriptor) WithInitial(v float32) ParamDescriptor {
	d.Initial = v
	return d
}

func (d ParamDescriptor) WithMin(v float32) ParamDescriptor {
	d.Min = v
	return d
}

func (d ParamDescriptor) WithMax(v float32) ParamDescriptor {
	d.Max = v
	return d
}

func (d ParamDescriptor) WithCenter(v float32) ParamDescriptor {
	d.Center = v
	return d
}

// ID satisfies keystore.Identifiable.
func (d ParamDescriptor) ID() string { return d.IDValue }

// DynamicPortsKind describes whether a node accepts ports beyond its
// statically declared set, and if so, how many more.
type DynamicPortsKind int

const (
	// DynamicPortsNone means the node accepts no additional ports at
	// runtime.
	DynamicPortsNone DynamicPortsKind = iota
	// DynamicPortsLimited means the node accepts up to Limit additional
	// ports beyond its static set.
	DynamicPortsLimited
	// DynamicPortsUnlimited means the node accepts any number of
	// additional ports.
	DynamicPortsUnlimited
)

// DynamicPorts describes a node's policy for runtime-added ports of one
// kind (audio input, audio output, or parameter).
type DynamicPorts struct {
	Kind  DynamicPortsKind
	Limit int // meaningful only when Kind == DynamicPortsLimited
}

// NoDynamicPorts is the default policy: no ports may be added at runtime.
var NoDynamicPorts = DynamicPorts{Kind: DynamicPortsNone}

// LimitedDynamicPorts allows up to n additional ports at runtime.
func LimitedDynamicPorts(n int) DynamicPorts {
	return DynamicPorts{Kind: DynamicPortsLimited, Limit: n}
}

// UnlimitedDynamicPorts allows any number of additional ports at runtime.
var UnlimitedDynamicPorts = DynamicPorts{Kind: DynamicPortsUnlimited}

// allows reports whether adding one more dynamic port, given dynamicCount
// already added, is permitted by this policy.
func (d DynamicPorts) allows(dynamicCount int) bool {
	switch d.Kind {
	case DynamicPortsNone:
		return false
	case DynamicPortsLimited:
		return dynamicCount < d.Limit
	case DynamicPortsUnlimited:
		return true
	default:
		return false
	}
}

// NodeDescriptor declares a node's class name and its complete port
// surface: static ports present from construction, plus a policy for how
// many dynamic ports of each kind may be added later (see
// Graph.AddDynamicAudioInput and friends).
type NodeDescriptor struct {
	Class string

	StaticAudioInputs   []AudioDescriptor
	DynamicAudioInputs  DynamicPorts
	StaticAudioOutputs  []AudioDescriptor
	DynamicAudioOutputs DynamicPorts

	StaticParameters  []ParamDescriptor
	DynamicParameters DynamicPorts

	StaticMidiInputs  []MidiDescriptor
	StaticMidiOutputs []MidiDescriptor
}

// NewNodeDescriptor returns an empty descriptor for the given class name.
func NewNodeDescriptor(class string) NodeDescriptor {
	return NodeDescriptor{
		Class:               class,
		DynamicAudioInputs:  NoDynamicPorts,
		DynamicAudioOutputs: NoDynamicPorts,
		DynamicParameters:   NoDynamicPorts,
	}
}

func (d NodeDescriptor) WithStaticAudioInputs(descriptors ...AudioDescriptor) NodeDescriptor {
	d.StaticAudioInputs = descriptors
	return d
}

// WithStaticAudioInputsCardinality declares `cardinality` audio inputs
// named "input-0".."input-<cardinality-1>", each with `channels` channels.
func (d NodeDescriptor) WithStaticAudioInputsCardinality(cardinality, channels int) NodeDescriptor {
	inputs := make([]AudioDescriptor, cardinality)
	for i := 0; i < cardinality; i++ {
		inputs[i] = NewAudioDescriptor(fmt.Sprintf("input-%d", i), channels)
	}
	d.StaticAudioInputs = inputs
	return d
}

func (d NodeDescriptor) WithDynamicAudioInputs(p DynamicPorts) NodeDescriptor {
	d.DynamicAudioInputs = p
	return d
}

func (d NodeDescriptor) WithStaticAudioOutputs(descriptors ...AudioDescriptor) NodeDescriptor {
	d.StaticAudioOutputs = descriptors
	return d
}

// WithStaticAudioOutputsCardinality declares `cardinality` audio outputs
// named "output-0".."output-<cardinality-1>", each with `channels` channels.
func (d NodeDescriptor) WithStaticAudioOutputsCardinality(cardinality, channels int) NodeDescriptor {
	outputs := make([]AudioDescriptor, cardinality)
	for i := 0; i < cardinality; i++ {
		outputs[i] = NewAudioDescriptor(fmt.Sprintf("output-%d", i), channels)
	}
	d.StaticAudioOutputs = outputs
	return d
}

func (d NodeDescriptor) WithDynamicAudioOutputs(p DynamicPorts) NodeDescriptor {
	d.DynamicAudioOutputs = p
	return d
}

func (d NodeDescriptor) WithStaticParameters(params ...ParamDescriptor) NodeDescriptor {
	d.StaticParameters = params
	return d
}

func (d NodeDescriptor) WithDynamicParameters(p DynamicPorts) NodeDescriptor {
	d.DynamicParameters = p
	return d
}

func (d NodeDescriptor) WithStaticMidiInputs(descriptors ...MidiDescriptor) NodeDescriptor {
	d.StaticMidiInputs = descriptors
	return d
}

func (d NodeDescriptor) WithStaticMidiOutputs(descriptors ...MidiDescriptor) NodeDescriptor {
	d.StaticMidiOutputs = descriptors
	return d
}
