// Package key provides typed, process-unique handles.
//
// A Key[T] is an opaque, monotonically increasing identifier scoped to a
// type parameter T. Keys are never reused and order by the sequence in
// which they were generated, which KeyGen guarantees is strictly
// ascending. Two KeyGen[T] instances generate overlapping numeric ranges;
// keys from different generators are never compared against each other in
// this module.
package key

import "fmt"

// Key is an opaque handle to a value of type T. Only values returned by a
// KeyGen are meaningful. A KeyGen's first key has value 0, so the zero
// Key equals that first key and cannot serve as a "no key" marker.
type Key[T any] struct {
	value uint64
}

// Value returns the underlying numeric identifier, mostly useful for
// logging and deterministic ordering.
func (k Key[T]) Value() uint64 {
	return k.value
}

func (k Key[T]) String() string {
	return fmt.Sprintf("Key(%d)", k.value)
}

// Less reports whether k sorts before other. Keys generated by the same
// KeyGen sort in generation order.
func (k Key[T]) Less(other Key[T]) bool {
	return k.value < other.value
}

// KeyGen generates a strictly ascending sequence of Key[T] values. The
// zero value is ready to use. KeyGen is not safe for concurrent use; in
// this module it is only ever called from the control thread.
type KeyGen[T any] struct {
	next uint64
}

// Next returns the next key in the sequence. It panics if the generator is
// exhausted (2^64-1 keys issued), mirroring the original implementation's
// assertion rather than silently wrapping around into reused keys.
func (g *KeyGen[T]) Next() Key[T] {
	if g.next == ^uint64(0) {
		panic("key: generator exhausted")
	}
	v := g.next
	g.next++
	return Key[T]{value: v}
}
