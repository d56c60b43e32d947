// Package registry is the content registry (component L): it maps a
// content id to its type, current text, current vector, tags, project and
// timestamps, and is the single surface search, clustering, drift and
// validation iterate over instead of each knowing about six concrete
// entity types.
package registry

import (
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/todozi/todozi/pkg/concurrent"
	"github.com/todozi/todozi/pkg/content"
)

// Entry is one registry record.
type Entry struct {
	ID          string
	ContentType content.Type
	Text        string
	Vector      []float64
	ModelID     string
	Tags        []string
	Project     string
	Created     time.Time
	Updated     time.Time
}

// Registry owns no content itself — callers remain the owner of their
// records — it only holds a weak, by-id projection suitable for search,
// clustering, drift tracking and validation. The projection itself is a
// pkg/concurrent.Map so concurrent Put/Get/Delete/All calls from search,
// clustering and drift tracking need no registry-level lock of their own.
type Registry struct {
	entries *concurrent.Map[string, Entry]
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: concurrent.NewMap[string, Entry]()}
}

// Put inserts or replaces the entry for id.
func (r *Registry) Put(e Entry) {
	r.entries.Store(e.ID, e)
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (Entry, bool) {
	return r.entries.Load(id)
}

// Delete removes id from the registry.
func (r *Registry) Delete(id string) {
	r.entries.Delete(id)
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return r.entries.Length()
}

// GetOrPut returns the existing entry for e.ID if one is already registered,
// otherwise it registers e and returns it. loaded reports which happened.
func (r *Registry) GetOrPut(e Entry) (actual Entry, loaded bool) {
	return r.entries.LoadOrStore(e.ID, e)
}

// IDs returns a snapshot of every registered id, in unspecified order.
func (r *Registry) IDs() []string {
	return r.entries.Keys()
}

// Filter narrows iteration: zero-value fields are wildcards. ProjectGlob
// supports doublestar patterns (e.g. "team-*", "**").
type Filter struct {
	ContentType content.Type
	Project     string
	ProjectGlob string
}

func (f Filter) matches(e Entry) bool {
	if f.ContentType != "" && e.ContentType != f.ContentType {
		return false
	}
	if f.Project != "" && e.Project != f.Project {
		return false
	}
	if f.ProjectGlob != "" {
		ok, err := doublestar.Match(f.ProjectGlob, e.Project)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// All returns every entry matching filter, in no particular order. Callers
// needing a stable order (e.g. for tie-breaking) should sort the result
// themselves.
func (r *Registry) All(filter Filter) []Entry {
	out := make([]Entry, 0, r.entries.Length())
	r.entries.Range(func(_ string, e Entry) bool {
		if filter.matches(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Range calls fn for every entry matching filter, stopping early if fn
// returns false.
func (r *Registry) Range(filter Filter, fn func(Entry) bool) {
	r.entries.Range(func(_ string, e Entry) bool {
		if !filter.matches(e) {
			return true
		}
		return fn(e)
	})
}
