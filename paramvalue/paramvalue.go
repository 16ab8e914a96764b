// Package paramvalue provides a lock-free shared float32, the mechanism
// by which the control thread publishes a parameter's current value to
// the audio thread without a mutex: a single atomic word, written from
// the control thread and read from the audio thread, with no tearing and
// no blocking on either side.
package paramvalue

import (
	"fmt"
	"math"
	"sync/atomic"
)

// ParamValue is an atomic float32. The zero value holds 0.0 and is ready
// to use.
type ParamValue struct {
	bits atomic.Uint32
}

// New returns a ParamValue initialized to value.
func New(value float32) *ParamValue {
	p := &ParamValue{}
	p.Set(value)
	return p
}

// Get loads the current value.
func (p *ParamValue) Get() float32 {
	return math.Float32frombits(p.bits.Load())
}

// Set stores value.
func (p *ParamValue) Set(value float32) {
	p.bits.Store(math.Float32bits(value))
}

// Clone returns a new, independent ParamValue initialized to p's current
// value.
func (p *ParamValue) Clone() *ParamValue {
	return New(p.Get())
}

func (p *ParamValue) String() string {
	return fmt.Sprintf("%v", p.Get())
}
