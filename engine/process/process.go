// Package process defines the processor contract: the interface a DSP
// unit implements to be driven by a compiled render plan, and the
// factory registry a controller uses to instantiate one per graph node
// class. Concrete DSP processors (oscillators, filters, envelopes) are
// out of scope here — this package only defines the contract and the
// registry, matching the abstraction boundary the teacher draws between
// its framework packages and its concrete dsp packages.
package process

import (
	"github.com/justyntemme/kiroengine/engine/plan"
	"github.com/justyntemme/kiroengine/graph"
)

// Processor renders one block of audio against its bound ports.
// Render must not allocate and must not block: it runs on the realtime
// audio thread.
type Processor interface {
	Render(ctx *plan.Context)
}

// Factory creates a Processor instance for a node, given the node's
// descriptor. Returning false means the factory does not support that
// node's class.
type Factory interface {
	SupportedClasses() []string
	Create(descriptor graph.NodeDescriptor) (Processor, bool)
}

// CreateFunc builds a Processor for a single node class.
type CreateFunc func(descriptor graph.NodeDescriptor) (Processor, bool)

// GenericFactory is a Factory built from a set of per-class constructor
// functions, registered fluently with WithFactory. Registering the same
// class twice makes the later registration win, since it simply
// overwrites the map entry — there is no ordering ambiguity to resolve.
type GenericFactory struct {
	factories map[string]CreateFunc
}

// NewGenericFactory returns an empty GenericFactory.
func NewGenericFactory() *GenericFactory {
	return &GenericFactory{factories: make(map[string]CreateFunc)}
}

// WithFactory registers create for class and returns the receiver for
// chaining.
func (f *GenericFactory) WithFactory(class string, create CreateFunc) *GenericFactory {
	f.factories[class] = create
	return f
}

// SupportedClasses returns every class this factory can create.
func (f *GenericFactory) SupportedClasses() []string {
	classes := make([]string, 0, len(f.factories))
	for class := range f.factories {
		classes = append(classes, class)
	}
	return classes
}

// Create builds a Processor for descriptor's class, if registered.
func (f *GenericFactory) Create(descriptor graph.NodeDescriptor) (Processor, bool) {
	create, ok := f.factories[descriptor.Class]
	if !ok {
		return nil, false
	}
	return create(descriptor)
}
