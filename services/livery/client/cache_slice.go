package client

import (
	"maps"
	"slices"
	"sync"

	"github.com/liverylab/catalog/services/livery/domain/models"
)

// CacheEntry is the accumulated state of one browsing context.
type CacheEntry struct {
	IDs          []models.LiveryID
	Entities     map[models.LiveryID]*models.Livery
	Filters      models.FilterSpec
	LastCursor   *models.LiveryID
	ScrollOffset *float64
	// Exhausted is set once a page with no next cursor has been merged.
	Exhausted bool
}

// NewEntry returns an empty entry for f. The cursor is paging state and is
// not kept in Filters.
func NewEntry(f models.FilterSpec) CacheEntry {
	f.Cursor = ""
	return CacheEntry{
		IDs:      []models.LiveryID{},
		Entities: map[models.LiveryID]*models.Livery{},
		Filters:  f,
	}
}

// EnsureEntry returns entry unchanged when it already holds f's filters.
// Otherwise it returns a fresh entry for f and reports the replacement.
func EnsureEntry(entry *CacheEntry, f models.FilterSpec) (CacheEntry, bool) {
	if entry != nil && entry.Filters.SameFilters(f) {
		return *entry, false
	}
	return NewEntry(f), true
}

// NextRequest returns the filter for the page after the last merged one.
func (e CacheEntry) NextRequest() models.FilterSpec {
	f := e.Filters
	if e.LastCursor != nil {
		f.Cursor = *e.LastCursor
	}
	return f
}

// Accepts reports whether a page requested with origin may be merged into e.
// The filters must still match and the request must have started from the
// entry's current cursor; anything else is a stale or replayed response.
func (e CacheEntry) Accepts(origin models.FilterSpec) bool {
	if e.Exhausted || !e.Filters.SameFilters(origin) {
		return false
	}
	var last models.LiveryID
	if e.LastCursor != nil {
		last = *e.LastCursor
	}
	return origin.Cursor == last
}

// MergePage appends the page's unseen ids in page order, overwrites their
// entities and advances the cursor. It returns entry unchanged when the page
// is not accepted. The input entry is never modified.
func MergePage(entry CacheEntry, origin models.FilterSpec, page *models.Page) CacheEntry {
	if page == nil || !entry.Accepts(origin) {
		return entry
	}

	out := entry
	out.IDs = slices.Clone(entry.IDs)
	out.Entities = maps.Clone(entry.Entities)
	if out.Entities == nil {
		out.Entities = map[models.LiveryID]*models.Livery{}
	}
	for _, l := range page.Items {
		if _, seen := out.Entities[l.ID]; !seen {
			out.IDs = append(out.IDs, l.ID)
		}
		out.Entities[l.ID] = l
	}
	out.LastCursor = page.NextCursor
	out.Exhausted = page.NextCursor == nil
	return out
}

// Items returns the entry's liveries in accumulation order.
func (e CacheEntry) Items() []*models.Livery {
	out := make([]*models.Livery, 0, len(e.IDs))
	for _, id := range e.IDs {
		if l, ok := e.Entities[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

func (e CacheEntry) clone() CacheEntry {
	out := e
	out.IDs = slices.Clone(e.IDs)
	out.Entities = maps.Clone(e.Entities)
	if e.ScrollOffset != nil {
		off := *e.ScrollOffset
		out.ScrollOffset = &off
	}
	return out
}

// Slice holds one CacheEntry per browsing context. It is safe for
// concurrent use.
type Slice struct {
	mu      sync.Mutex
	entries map[BrowsingContext]CacheEntry
}

// NewSlice returns an empty Slice.
func NewSlice() *Slice {
	return &Slice{entries: map[BrowsingContext]CacheEntry{}}
}

// Ensure makes bc hold an entry for f, replacing any entry with different
// filters. It reports whether a new entry was created.
func (s *Slice) Ensure(bc BrowsingContext, f models.FilterSpec) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current *CacheEntry
	if e, ok := s.entries[bc]; ok {
		current = &e
	}
	next, replaced := EnsureEntry(current, f)
	if replaced {
		s.entries[bc] = next
	}
	return replaced
}

// MergePage merges page into bc's entry and reports whether it was accepted.
// A nil page is never accepted.
func (s *Slice) MergePage(bc BrowsingContext, origin models.FilterSpec, page *models.Page) bool {
	if page == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[bc]
	if !ok || !e.Accepts(origin) {
		return false
	}
	s.entries[bc] = MergePage(e, origin, page)
	return true
}

// SaveScroll records the scroll offset to restore when bc is revisited.
func (s *Slice) SaveScroll(bc BrowsingContext, offset float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[bc]; ok {
		e.ScrollOffset = &offset
		s.entries[bc] = e
	}
}

// ClearScroll forgets bc's saved scroll offset.
func (s *Slice) ClearScroll(bc BrowsingContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[bc]; ok {
		e.ScrollOffset = nil
		s.entries[bc] = e
	}
}

// Reset drops bc's entry.
func (s *Slice) Reset(bc BrowsingContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, bc)
}

// Entry returns a copy of bc's entry.
func (s *Slice) Entry(bc BrowsingContext) (CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[bc]
	if !ok {
		return CacheEntry{}, false
	}
	return e.clone(), true
}

// Items returns bc's accumulated liveries in order.
func (s *Slice) Items(bc BrowsingContext) []*models.Livery {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[bc]
	if !ok {
		return nil
	}
	return e.Items()
}
