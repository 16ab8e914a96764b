package graph

import "github.com/justyntemme/kiroengine/key"

// AudioInPort, AudioOutPort, MidiInPort, MidiOutPort and ParamPort are the
// node-local port types stored in a Node's KeyStoreWithId collections.
// Input ports carry an optional connection (nil until something is wired
// into them); output ports carry none, since the connection lives on the
// consuming input port instead.

type AudioInPort struct {
	Descriptor AudioDescriptor
	Connection *AudioSource
}

func (p AudioInPort) ID() string { return p.Descriptor.ID() }

type AudioOutPort struct {
	Descriptor AudioDescriptor
}

func (p AudioOutPort) ID() string { return p.Descriptor.ID() }

type MidiInPort struct {
	Descriptor MidiDescriptor
	Connection *MidiSource
}

func (p MidiInPort) ID() string { return p.Descriptor.ID() }

type MidiOutPort struct {
	Descriptor MidiDescriptor
}

func (p MidiOutPort) ID() string { return p.Descriptor.ID() }

type ParamPort struct {
	Descriptor ParamDescriptor
	Connection *AudioSource
}

func (p ParamPort) ID() string { return p.Descriptor.ID() }

// AudioInRef, AudioOutRef, MidiInRef and MidiOutRef name one specific port
// on one specific node, the handle returned by Graph.AudioInput and its
// siblings.

type AudioInRef struct {
	NodeRef NodeRef
	Key     key.Key[AudioInPort]
}

type AudioOutRef struct {
	NodeRef NodeRef
	Key     key.Key[AudioOutPort]
}

type MidiInRef struct {
	NodeRef NodeRef
	Key     key.Key[MidiInPort]
}

type MidiOutRef struct {
	NodeRef NodeRef
	Key     key.Key[MidiOutPort]
}

// ParamRef names one specific parameter port on one specific node.
type ParamRef struct {
	NodeRef NodeRef
	Key     key.Key[ParamPort]
}

// AudioSource names a connect/bind source: a node's audio output, either
// a specific port (Key set) or "the node's default audio output" (Key
// nil, resolved to the node's first audio output port at connect time).
type AudioSource struct {
	NodeRef NodeRef
	Key     *key.Key[AudioOutPort]
}

// AudioOutputOf targets a node's default audio output port.
func AudioOutputOf(ref NodeRef) AudioSource {
	return AudioSource{NodeRef: ref}
}

// AudioOutputPort targets a specific audio output port.
func AudioOutputPort(ref AudioOutRef) AudioSource {
	k := ref.Key
	return AudioSource{NodeRef: ref.NodeRef, Key: &k}
}

// MidiSource names a connect/bind source: a node's MIDI output.
type MidiSource struct {
	NodeRef NodeRef
	Key     *key.Key[MidiOutPort]
}

// MidiOutputOf targets a node's default MIDI output port.
func MidiOutputOf(ref NodeRef) MidiSource {
	return MidiSource{NodeRef: ref}
}

// MidiOutputPort targets a specific MIDI output port.
func MidiOutputPort(ref MidiOutRef) MidiSource {
	k := ref.Key
	return MidiSource{NodeRef: ref.NodeRef, Key: &k}
}

// AudioDestination names a connect/bind destination: a node's audio
// input, either a specific port or the node's default.
type AudioDestination struct {
	NodeRef NodeRef
	Key     *key.Key[AudioInPort]
}

// AudioInputOf targets a node's default audio input port.
func AudioInputOf(ref NodeRef) AudioDestination {
	return AudioDestination{NodeRef: ref}
}

// AudioInputPort targets a specific audio input port.
func AudioInputPort(ref AudioInRef) AudioDestination {
	k := ref.Key
	return AudioDestination{NodeRef: ref.NodeRef, Key: &k}
}

// MidiDestination names a connect/bind destination: a node's MIDI input.
type MidiDestination struct {
	NodeRef NodeRef
	Key     *key.Key[MidiInPort]
}

// MidiInputOf targets a node's default MIDI input port.
func MidiInputOf(ref NodeRef) MidiDestination {
	return MidiDestination{NodeRef: ref}
}

// MidiInputPort targets a specific MIDI input port.
func MidiInputPort(ref MidiInRef) MidiDestination {
	k := ref.Key
	return MidiDestination{NodeRef: ref.NodeRef, Key: &k}
}

// ParamDestination names a connect destination: one specific parameter
// port. Unlike audio/MIDI destinations there is no "default parameter" —
// the original implementation always requires an explicit ParamRef, and
// this module keeps that requirement.
type ParamDestination struct {
	NodeRef NodeRef
	Key     key.Key[ParamPort]
}

// Param targets the parameter port named by ref.
func Param(ref ParamRef) ParamDestination {
	return ParamDestination{NodeRef: ref.NodeRef, Key: ref.Key}
}
