package model

// Page is a window over a filtered collection. The backend may answer a list
// request with either a bare JSON array or a paginated envelope carrying
// items plus total count and next/previous cursors; both shapes normalize
// into this one record at the client boundary and are never inspected ad hoc
// by callers.
type Page[T any] struct {
	// Items is the ordered sequence for the current window.
	Items []T
	// Count is the total size of the filtered collection, or nil when the
	// backend answered with a bare array and the total is unknown.
	Count *int
	// HasNext and HasPrev report whether the backend advertised a cursor for
	// the adjacent window. Bare-array responses advertise neither.
	HasNext bool
	HasPrev bool
}

// Prepend inserts item at index 0 and bumps the total count when known.
// Used to reconcile a confirmed create without a full re-fetch.
func (p *Page[T]) Prepend(item T) {
	p.Items = append([]T{item}, p.Items...)
	if p.Count != nil {
		*p.Count++
	}
}

// Remove deletes the first item matching keep==false and decrements the
// count when known. Returns true when an item was removed.
func (p *Page[T]) Remove(match func(T) bool) bool {
	for i, item := range p.Items {
		if match(item) {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			if p.Count != nil {
				*p.Count--
			}
			return true
		}
	}
	return false
}
