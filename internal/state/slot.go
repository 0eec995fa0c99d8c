// Package state holds the per-feature session state of mythos: psychic
// state, landforms, navigation mode, ritual progress and settings.
//
// Each slice lives in a Slot that rehydrates from the kvstore Adapter on
// creation and persists on every change. The setter is the only way to
// write a slot, so normalization (clamping, enum checks) applied there
// holds for every writer, including the drift task.
package state

import (
	"sync"

	"github.com/HendryAvila/mythos/internal/kvstore"
)

// Slot is one persisted slice of state.
type Slot[T any] struct {
	mu        sync.Mutex
	store     *kvstore.Adapter
	key       string
	def       T
	value     T
	normalize func(T) T
}

// NewSlot rehydrates key from store, falling back to def. normalize may be
// nil; when set it is applied to the rehydrated value and to every write.
func NewSlot[T any](store *kvstore.Adapter, key string, def T, normalize func(T) T) *Slot[T] {
	s := &Slot[T]{store: store, key: key, def: def, normalize: normalize}
	s.value = s.norm(kvstore.Get(store, key, def))
	return s
}

func (s *Slot[T]) norm(v T) T {
	if s.normalize == nil {
		return v
	}
	return s.normalize(v)
}

// Value returns the current value.
func (s *Slot[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value, persists it and returns the stored (normalized) value.
func (s *Slot[T]) Set(v T) T {
	return s.Update(func(T) T { return v })
}

// Update computes the next value from the previous one under the slot's
// lock, persists it and returns it.
func (s *Slot[T]) Update(fn func(prev T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = s.norm(fn(s.value))
	kvstore.Set(s.store, s.key, s.value)
	return s.value
}

// Reset drops the in-memory value back to the default without writing it.
// It is used after the backing key has been removed.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = s.norm(s.def)
}
