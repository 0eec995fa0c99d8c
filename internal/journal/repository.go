package journal

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/HendryAvila/mythos/internal/kvstore"
)

// IDPrefix starts every entry ID.
const IDPrefix = "journal-"

// newID returns a time-ordered, never-reused entry ID.
var newID = func() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return IDPrefix + id.String()
}

// Repository is the session's authoritative list of journal entries.
type Repository struct {
	mu      sync.RWMutex
	store   *kvstore.Adapter
	entries []Entry
}

// New creates a Repository and rehydrates it from store. A missing or
// unreadable list starts the session empty.
func New(store *kvstore.Adapter) *Repository {
	return &Repository{
		store:   store,
		entries: kvstore.Get(store, kvstore.KeyJournalEntries, []Entry{}),
	}
}

// Reset empties the in-memory list without persisting, for use after the
// backing key has been cleared.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = []Entry{}
}

// persist writes the full list. Callers must hold mu.
func (r *Repository) persist() {
	kvstore.Set(r.store, kvstore.KeyJournalEntries, r.entries)
}

// Create allocates an ID and timestamps, prepends the entry and persists
// the list. It performs no validation of title or content.
func (r *Repository) Create(p CreateParams) Entry {
	now := timeNow().UTC().Round(0)
	e := Entry{
		ID:        newID(),
		Type:      p.Type,
		Title:     p.Title,
		Content:   p.Content,
		Mood:      p.Mood,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.AssociatedLandforms != nil {
		e.AssociatedLandforms = append([]string(nil), p.AssociatedLandforms...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]Entry{e}, r.entries...)
	r.persist()
	return e.clone()
}

// Update merges the non-nil fields of p into the entry with the given ID
// and refreshes UpdatedAt. It returns the updated entry and whether it was
// found; an unknown ID leaves the list untouched and nothing is persisted.
func (r *Repository) Update(id string, p UpdateParams) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Entry{}, false
	}

	e := r.entries[i]
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.AssociatedLandforms != nil {
		e.AssociatedLandforms = append([]string(nil), (*p.AssociatedLandforms)...)
	}

	now := timeNow().UTC().Round(0)
	if now.Before(e.CreatedAt) {
		// Wall clock stepped backwards; keep updatedAt >= createdAt.
		now = e.CreatedAt
	}
	e.UpdatedAt = now

	r.entries[i] = e
	r.persist()
	return e.clone(), true
}

// Delete removes the entry with the given ID and reports whether it existed.
func (r *Repository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
	r.persist()
	return true
}

// Get returns the entry with the given ID.
func (r *Repository) Get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Entry{}, false
	}
	return r.entries[i].clone(), true
}

// Entries returns every entry, newest first.
func (r *Repository) Entries() []Entry {
	return r.filter(func(Entry) bool { return true })
}

// ByType returns the entries of type t, newest first.
func (r *Repository) ByType(t EntryType) []Entry {
	return r.filter(func(e Entry) bool { return e.Type == t })
}

// Dreams is ByType(TypeDream).
func (r *Repository) Dreams() []Entry {
	return r.ByType(TypeDream)
}

// Insights is ByType(TypeInsight).
func (r *Repository) Insights() []Entry {
	return r.ByType(TypeInsight)
}

// Search returns entries whose title or content contains query,
// ignoring case. The empty query matches every entry.
func (r *Repository) Search(query string) []Entry {
	q := strings.ToLower(query)
	return r.filter(func(e Entry) bool {
		return strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Content), q)
	})
}

// Total returns the number of entries.
func (r *Repository) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// CountByType returns the number of entries per type.
func (r *Repository) CountByType() map[EntryType]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[EntryType]int, len(validTypes))
	for _, e := range r.entries {
		counts[e.Type]++
	}
	return counts
}

func (r *Repository) filter(keep func(Entry) bool) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if keep(e) {
			out = append(out, e.clone())
		}
	}
	return out
}

// indexOf returns the position of id, or -1. Callers must hold mu.
func (r *Repository) indexOf(id string) int {
	for i := range r.entries {
		if r.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// ResolveLandforms materializes e's associated landform IDs through lookup.
// The IDs are weak references: IDs lookup cannot find are omitted.
func ResolveLandforms[T any](e Entry, lookup func(id string) (T, bool)) []T {
	out := make([]T, 0, len(e.AssociatedLandforms))
	for _, id := range e.AssociatedLandforms {
		if v, ok := lookup(id); ok {
			out = append(out, v)
		}
	}
	return out
}
