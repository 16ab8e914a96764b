// Package keystore implements an insertion-ordered table keyed by
// key.Key[T], the storage primitive underneath every graph collection
// (nodes, ports, parameters). Ascending key order coincides with
// insertion order because keys are generated monotonically, which is
// what lets KeyStore.FirstKey serve as a deterministic "first port"
// default.
package keystore

import (
	"sort"

	"github.com/justyntemme/kiroengine/key"
)

// Identifiable is implemented by values that carry a stable string id,
// used by KeyStoreWithId to provide id-based lookup alongside key-based
// lookup.
type Identifiable interface {
	ID() string
}

// KeyStore is a map from key.Key[T] to T with a generator that owns key
// assignment. It is not safe for concurrent use; callers on the control
// thread own it exclusively.
type KeyStore[T any] struct {
	gen  key.KeyGen[T]
	data map[key.Key[T]]T
}

// New returns an empty KeyStore.
func New[T any]() *KeyStore[T] {
	return &KeyStore[T]{data: make(map[key.Key[T]]T)}
}

// Len reports the number of stored elements.
func (s *KeyStore[T]) Len() int {
	return len(s.data)
}

// Keys returns the stored keys in ascending (= insertion) order.
func (s *KeyStore[T]) Keys() []key.Key[T] {
	keys := make([]key.Key[T], 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// ContainsKey reports whether k is present.
func (s *KeyStore[T]) ContainsKey(k key.Key[T]) bool {
	_, ok := s.data[k]
	return ok
}

// Get returns the value stored at k, if any.
func (s *KeyStore[T]) Get(k key.Key[T]) (T, bool) {
	v, ok := s.data[k]
	return v, ok
}

// Add generates a new key, stores item under it, and returns the key.
func (s *KeyStore[T]) Add(item T) key.Key[T] {
	k := s.gen.Next()
	s.data[k] = item
	return k
}

// Set overwrites the value stored at an existing key. It is a no-op if
// the key is not present.
func (s *KeyStore[T]) Set(k key.Key[T], item T) {
	if _, ok := s.data[k]; ok {
		s.data[k] = item
	}
}

// FirstKey returns the smallest key present, which — because keys are
// generated monotonically — is also the first one ever inserted. This is
// the mechanism behind default-port resolution: the first port declared
// on a node is always the one returned when a caller omits an explicit
// port key.
func (s *KeyStore[T]) FirstKey() (key.Key[T], bool) {
	var (
		first key.Key[T]
		found bool
	)
	for k := range s.data {
		if !found || k.Less(first) {
			first = k
			found = true
		}
	}
	return first, found
}

// Iter calls fn for every stored element, in ascending key order.
func (s *KeyStore[T]) Iter(fn func(key.Key[T], T)) {
	for _, k := range s.Keys() {
		fn(k, s.data[k])
	}
}

// KeyStoreWithId layers an id -> key secondary index on top of KeyStore,
// for types that carry a stable, human-assigned id (node ids, named
// ports).
type KeyStoreWithId[T Identifiable] struct {
	store    *KeyStore[T]
	keysByID map[string]key.Key[T]
}

// NewWithId returns an empty KeyStoreWithId.
func NewWithId[T Identifiable]() *KeyStoreWithId[T] {
	return &KeyStoreWithId[T]{
		store:    New[T](),
		keysByID: make(map[string]key.Key[T]),
	}
}

func (s *KeyStoreWithId[T]) Len() int { return s.store.Len() }

func (s *KeyStoreWithId[T]) Keys() []key.Key[T] { return s.store.Keys() }

func (s *KeyStoreWithId[T]) ContainsKey(k key.Key[T]) bool { return s.store.ContainsKey(k) }

// ContainsID reports whether id has been assigned a key.
func (s *KeyStoreWithId[T]) ContainsID(id string) bool {
	_, ok := s.keysByID[id]
	return ok
}

// KeyFromID resolves an id to its key.
func (s *KeyStoreWithId[T]) KeyFromID(id string) (key.Key[T], bool) {
	k, ok := s.keysByID[id]
	return k, ok
}

func (s *KeyStoreWithId[T]) Get(k key.Key[T]) (T, bool) { return s.store.Get(k) }

func (s *KeyStoreWithId[T]) Set(k key.Key[T], item T) { s.store.Set(k, item) }

// Add assigns item a new key and indexes it by item.ID().
func (s *KeyStoreWithId[T]) Add(item T) key.Key[T] {
	k := s.store.Add(item)
	s.keysByID[item.ID()] = k
	return k
}

func (s *KeyStoreWithId[T]) FirstKey() (key.Key[T], bool) { return s.store.FirstKey() }

func (s *KeyStoreWithId[T]) Iter(fn func(key.Key[T], T)) { s.store.Iter(fn) }
