// Package descriptorfile gives graph.NodeDescriptor a textual wire shape:
// a class name plus static port descriptors, round-tripped through YAML.
// This is the "Node descriptor wire shape" collaborator spec.md §6 names
// but leaves unspecified.
package descriptorfile

import (
	"fmt"

	"github.com/justyntemme/kiroengine/graph"
	"gopkg.in/yaml.v3"
)

// AudioPort is the wire shape of a graph.AudioDescriptor.
type AudioPort struct {
	ID       string `yaml:"id"`
	Channels int    `yaml:"channels"`
}

// MidiPort is the wire shape of a graph.MidiDescriptor.
type MidiPort struct {
	ID string `yaml:"id"`
}

// Param is the wire shape of a graph.ParamDescriptor.
type Param struct {
	ID      string  `yaml:"id"`
	Initial float32 `yaml:"initial"`
	Min     float32 `yaml:"min"`
	Max     float32 `yaml:"max"`
	Center  float32 `yaml:"center"`
}

// DynamicPorts is the wire shape of a graph.DynamicPorts policy: omitted
// or "none" means DynamicPortsNone, "unlimited" means
// DynamicPortsUnlimited, and "limited" means DynamicPortsLimited with
// Limit as its limit. Any other policy value is an error.
type DynamicPorts struct {
	Policy string `yaml:"policy,omitempty"`
	Limit  int    `yaml:"limit,omitempty"`
}

func (d DynamicPorts) toGraph() (graph.DynamicPorts, error) {
	switch d.Policy {
	case "", "none":
		return graph.NoDynamicPorts, nil
	case "unlimited":
		return graph.UnlimitedDynamicPorts, nil
	case "limited":
		return graph.LimitedDynamicPorts(d.Limit), nil
	default:
		return graph.DynamicPorts{}, fmt.Errorf("descriptorfile: unknown dynamic ports policy %q", d.Policy)
	}
}

func fromGraphDynamicPorts(d graph.DynamicPorts) DynamicPorts {
	switch d.Kind {
	case graph.DynamicPortsUnlimited:
		return DynamicPorts{Policy: "unlimited"}
	case graph.DynamicPortsLimited:
		return DynamicPorts{Policy: "limited", Limit: d.Limit}
	default:
		return DynamicPorts{Policy: "none"}
	}
}

// NodeDescriptor is the YAML wire shape of a graph.NodeDescriptor.
type NodeDescriptor struct {
	Class string `yaml:"class"`

	StaticAudioInputs   []AudioPort  `yaml:"audioInputs,omitempty"`
	DynamicAudioInputs  DynamicPorts `yaml:"dynamicAudioInputs,omitempty"`
	StaticAudioOutputs  []AudioPort  `yaml:"audioOutputs,omitempty"`
	DynamicAudioOutputs DynamicPorts `yaml:"dynamicAudioOutputs,omitempty"`

	StaticParameters  []Param      `yaml:"parameters,omitempty"`
	DynamicParameters DynamicPorts `yaml:"dynamicParameters,omitempty"`

	StaticMidiInputs  []MidiPort `yaml:"midiInputs,omitempty"`
	StaticMidiOutputs []MidiPort `yaml:"midiOutputs,omitempty"`
}

// ToGraph converts the wire shape into a graph.NodeDescriptor.
func (n NodeDescriptor) ToGraph() (graph.NodeDescriptor, error) {
	desc := graph.NewNodeDescriptor(n.Class)

	audioIns := make([]graph.AudioDescriptor, len(n.StaticAudioInputs))
	for i, p := range n.StaticAudioInputs {
		audioIns[i] = graph.NewAudioDescriptor(p.ID, p.Channels)
	}
	desc = desc.WithStaticAudioInputs(audioIns...)

	audioOuts := make([]graph.AudioDescriptor, len(n.StaticAudioOutputs))
	for i, p := range n.StaticAudioOutputs {
		audioOuts[i] = graph.NewAudioDescriptor(p.ID, p.Channels)
	}
	desc = desc.WithStaticAudioOutputs(audioOuts...)

	params := make([]graph.ParamDescriptor, len(n.StaticParameters))
	for i, p := range n.StaticParameters {
		params[i] = graph.NewParamDescriptor(p.ID).
			WithInitial(p.Initial).WithMin(p.Min).WithMax(p.Max).WithCenter(p.Center)
	}
	desc = desc.WithStaticParameters(params...)

	midiIns := make([]graph.MidiDescriptor, len(n.StaticMidiInputs))
	for i, p := range n.StaticMidiInputs {
		midiIns[i] = graph.NewMidiDescriptor(p.ID)
	}
	desc = desc.WithStaticMidiInputs(midiIns...)

	midiOuts := make([]graph.MidiDescriptor, len(n.StaticMidiOutputs))
	for i, p := range n.StaticMidiOutputs {
		midiOuts[i] = graph.NewMidiDescriptor(p.ID)
	}
	desc = desc.WithStaticMidiOutputs(midiOuts...)

	dynIn, err := n.DynamicAudioInputs.toGraph()
	if err != nil {
		return graph.NodeDescriptor{}, err
	}
	desc = desc.WithDynamicAudioInputs(dynIn)

	dynOut, err := n.DynamicAudioOutputs.toGraph()
	if err != nil {
		return graph.NodeDescriptor{}, err
	}
	desc = desc.WithDynamicAudioOutputs(dynOut)

	dynParam, err := n.DynamicParameters.toGraph()
	if err != nil {
		return graph.NodeDescriptor{}, err
	}
	desc = desc.WithDynamicParameters(dynParam)

	return desc, nil
}

// FromGraph converts a graph.NodeDescriptor into its YAML wire shape.
func FromGraph(desc graph.NodeDescriptor) NodeDescriptor {
	n := NodeDescriptor{Class: desc.Class}

	for _, p := range desc.StaticAudioInputs {
		n.StaticAudioInputs = append(n.StaticAudioInputs, AudioPort{ID: p.ID(), Channels: p.Channels})
	}
	for _, p := range desc.StaticAudioOutputs {
		n.StaticAudioOutputs = append(n.StaticAudioOutputs, AudioPort{ID: p.ID(), Channels: p.Channels})
	}
	for _, p := range desc.StaticParameters {
		n.StaticParameters = append(n.StaticParameters, Param{
			ID: p.ID(), Initial: p.Initial, Min: p.Min, Max: p.Max, Center: p.Center,
		})
	}
	for _, p := range desc.StaticMidiInputs {
		n.StaticMidiInputs = append(n.StaticMidiInputs, MidiPort{ID: p.ID()})
	}
	for _, p := range desc.StaticMidiOutputs {
		n.StaticMidiOutputs = append(n.StaticMidiOutputs, MidiPort{ID: p.ID()})
	}

	n.DynamicAudioInputs = fromGraphDynamicPorts(desc.DynamicAudioInputs)
	n.DynamicAudioOutputs = fromGraphDynamicPorts(desc.DynamicAudioOutputs)
	n.DynamicParameters = fromGraphDynamicPorts(desc.DynamicParameters)

	return n
}

// Marshal renders a graph.NodeDescriptor as YAML.
func Marshal(desc graph.NodeDescriptor) ([]byte, error) {
	return yaml.Marshal(FromGraph(desc))
}

// Unmarshal parses YAML into a graph.NodeDescriptor.
func Unmarshal(data []byte) (graph.NodeDescriptor, error) {
	var wire NodeDescriptor
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return graph.NodeDescriptor{}, fmt.Errorf("descriptorfile: %w", err)
	}
	return wire.ToGraph()
}
