// Package event names the message shapes an embedding host exchanges
// with the engine's control thread: notes and control-change messages
// coming in, parameter and modulation updates going out to the graph.
// This package defines shapes only — no decoding, no queueing, no
// dispatch. MIDI decoding and MIDI-to-parameter mapping are explicitly
// out of scope (spec.md §1 Non-goals); an embedding host is expected to
// translate its own wire protocol into these types before handing them to
// a Controller.
package event

import "github.com/justyntemme/kiroengine/graph"

// NoteOn requests a voice be triggered. SampleOffset locates the event
// within the current render block, matching the VST3-style sample-
// accurate timing the teacher's own MIDI event shapes carry.
type NoteOn struct {
	Channel      uint8
	Note         uint8
	Velocity     uint8
	SampleOffset int32
}

// NoteOff requests a voice be released.
type NoteOff struct {
	Channel      uint8
	Note         uint8
	Velocity     uint8
	SampleOffset int32
}

// ParamValue sets a parameter to an absolute value, delivered to the
// control thread and applied through paramvalue.ParamValue.Set.
type ParamValue struct {
	Param graph.ParamRef
	Value float32
}

// ParamChange nudges a parameter by a relative amount, e.g. a relative
// MIDI controller or a UI drag delta.
type ParamChange struct {
	Param graph.ParamRef
	Delta float32
}

// ModulationUpdate requests a new audio-rate modulation connection onto a
// parameter — the control-thread-side request that becomes a
// Graph.ConnectParam call.
type ModulationUpdate struct {
	Source graph.AudioSource
	Target graph.ParamRef
}

// ModulationDelete requests the modulation connection on a parameter be
// severed. The underlying Graph has no direct "disconnect" operation
// (matching the original implementation, which has no removal either;
// keystore offers no removal operation); a host honoring
// this message rebuilds the destination node with a plain ParamValue
// source instead.
type ModulationDelete struct {
	Target graph.ParamRef
}
