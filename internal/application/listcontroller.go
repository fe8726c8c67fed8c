package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jcastellan/workpanel/internal/domain/model"
)

// ErrPageUnavailable is returned by SetPage when the requested step has no
// cursor: the last fetched page did not advertise a next/previous window.
var ErrPageUnavailable = errors.New("requested page is not reachable from the current page")

// FetchFunc fetches one page of a filtered collection for a (filter, page)
// key. Implementations are expected to honor ctx.
type FetchFunc[T any] func(ctx context.Context, filter string, page int) (model.Page[T], error)

// CreateFunc submits a creation request and returns the server-confirmed
// item.
type CreateFunc[T, F any] func(ctx context.Context, fields F) (*T, error)

// DeleteFunc submits a deletion request for the item with the given id.
type DeleteFunc func(ctx context.Context, id int64) error

// ListController keeps a displayed page of a filtered collection consistent
// with the current filter, the current page index, and pending local
// mutations. Confirmed creates and deletes are reconciled into the held page
// without a re-fetch.
//
// Every (filter, page) change bumps an internal generation counter and
// issues one fetch; a fetch result commits only if its generation is still
// current when it returns. Arrival order never decides which result wins --
// a slow response for a superseded view key is discarded.
type ListController[T, F any] struct {
	fetch  FetchFunc[T]
	create CreateFunc[T, F]
	remove DeleteFunc
	itemID func(T) int64
	logger *slog.Logger

	mu      sync.Mutex
	filter  string
	pageNum int
	gen     uint64
	current model.Page[T]
	loaded  bool
	loading bool
	lastErr error
}

// ListState is a consistent snapshot of the controller for rendering.
type ListState[T any] struct {
	Items   []T
	Count   *int
	HasNext bool
	HasPrev bool
	Filter  string
	PageNum int
	Loading bool
	Loaded  bool
	Err     error
}

// NewListController creates a controller positioned on page 1 with no
// filter. Nothing is fetched until Refresh or a state change is invoked.
func NewListController[T, F any](
	fetch FetchFunc[T],
	create CreateFunc[T, F],
	remove DeleteFunc,
	itemID func(T) int64,
	logger *slog.Logger,
) *ListController[T, F] {
	return &ListController[T, F]{
		fetch:   fetch,
		create:  create,
		remove:  remove,
		itemID:  itemID,
		logger:  logger,
		pageNum: 1,
	}
}

// Refresh re-issues the fetch for the current (filter, page) key.
func (c *ListController[T, F]) Refresh(ctx context.Context) {
	c.mu.Lock()
	gen, filter, page := c.begin()
	c.mu.Unlock()

	c.load(ctx, gen, filter, page)
}

// SetFilter updates the filter and resets the page index to 1: a filter
// change must never leave the user on a page number invalid for the new
// filter. Issues the fetch for the new key.
func (c *ListController[T, F]) SetFilter(ctx context.Context, filter string) {
	c.mu.Lock()
	c.filter = filter
	c.pageNum = 1
	gen, f, page := c.begin()
	c.mu.Unlock()

	c.load(ctx, gen, f, page)
}

// SetPage moves to page n. Only a step to the adjacent page is permitted,
// and only when the last fetched page reported that cursor as available;
// otherwise ErrPageUnavailable. Requesting the current page is a no-op.
func (c *ListController[T, F]) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	switch {
	case n == c.pageNum:
		c.mu.Unlock()
		return nil
	case n == c.pageNum+1 && c.current.HasNext:
		// forward
	case n == c.pageNum-1 && n >= 1 && c.current.HasPrev:
		// backward
	default:
		c.mu.Unlock()
		return ErrPageUnavailable
	}

	c.pageNum = n
	gen, filter, page := c.begin()
	c.mu.Unlock()

	c.load(ctx, gen, filter, page)
	return nil
}

// Next steps forward one page.
func (c *ListController[T, F]) Next(ctx context.Context) error {
	c.mu.Lock()
	n := c.pageNum + 1
	c.mu.Unlock()
	return c.SetPage(ctx, n)
}

// Prev steps back one page.
func (c *ListController[T, F]) Prev(ctx context.Context) error {
	c.mu.Lock()
	n := c.pageNum - 1
	c.mu.Unlock()
	return c.SetPage(ctx, n)
}

// Create submits a creation request; on success the confirmed item is
// prepended to the displayed page and the total count, when known, is
// incremented -- without re-fetching. The error, if any, arrives already
// classified by the backend client.
func (c *ListController[T, F]) Create(ctx context.Context, fields F) (*T, error) {
	item, err := c.create(ctx, fields)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current.Prepend(*item)
	c.mu.Unlock()
	return item, nil
}

// Delete submits a deletion request. Callers must have obtained explicit
// user confirmation before invoking this; the controller dispatches
// unconditionally. On success the item is removed from the local page and
// the count decremented; if that empties the page and a previous cursor
// exists, the controller steps back one page so the user is not left on an
// empty page that still has prior data. On failure nothing changes locally.
func (c *ListController[T, F]) Delete(ctx context.Context, id int64) error {
	if err := c.remove(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.current.Remove(func(item T) bool { return c.itemID(item) == id })
	if len(c.current.Items) == 0 && c.current.HasPrev && c.pageNum > 1 {
		c.pageNum--
		gen, filter, page := c.begin()
		c.mu.Unlock()
		c.load(ctx, gen, filter, page)
		return nil
	}
	c.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current state safe for rendering.
func (c *ListController[T, F]) Snapshot() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, len(c.current.Items))
	copy(items, c.current.Items)

	var count *int
	if c.current.Count != nil {
		v := *c.current.Count
		count = &v
	}

	return ListState[T]{
		Items:   items,
		Count:   count,
		HasNext: c.current.HasNext,
		HasPrev: c.current.HasPrev,
		Filter:  c.filter,
		PageNum: c.pageNum,
		Loading: c.loading,
		Loaded:  c.loaded,
		Err:     c.lastErr,
	}
}

// begin bumps the generation for a new (filter, page) key and marks the
// controller loading. Caller must hold c.mu.
func (c *ListController[T, F]) begin() (gen uint64, filter string, page int) {
	c.gen++
	c.loading = true
	c.lastErr = nil
	return c.gen, c.filter, c.pageNum
}

// load runs the fetch for a generation and commits the result only if that
// generation is still current. The generation check, not arrival order,
// decides which result wins.
func (c *ListController[T, F]) load(ctx context.Context, gen uint64, filter string, page int) {
	result, err := c.fetch(ctx, filter, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		// Superseded while in flight; a newer request owns the view now.
		return
	}

	c.loading = false
	if err != nil {
		c.lastErr = err
		c.logger.Error("list fetch failed", "filter", filter, "page", page, "error", err)
		return
	}
	c.current = result
	c.loaded = true
}
