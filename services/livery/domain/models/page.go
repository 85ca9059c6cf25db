package models

// Page is one slice of a catalog enumeration. NextCursor is nil once the
// enumeration is exhausted.
type Page struct {
	Items      []*Livery
	NextCursor *LiveryID
}

// Exhausted reports whether no further page exists.
func (p *Page) Exhausted() bool {
	return p.NextCursor == nil
}

// CursorPtr returns a pointer to id, or nil when id is empty.
func CursorPtr(id LiveryID) *LiveryID {
	if id == "" {
		return nil
	}
	return &id
}
