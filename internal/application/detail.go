package application

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jcastellan/workpanel/internal/domain/model"
	"github.com/jcastellan/workpanel/internal/domain/port/driven"
)

// DetailController composes one work-order fetch with its dependent
// inspection collection and supports the two mutation forms on the detail
// view: partial entity update and child inspection creation.
type DetailController struct {
	api    driven.BackendClient
	logger *slog.Logger

	mu          sync.Mutex
	gen         uint64
	id          int64
	order       *model.WorkOrder
	inspections []model.Inspection
	insCount    *int
	insDegraded bool
	loading     bool
	err         error
}

// DetailState is a consistent snapshot of the controller for rendering.
type DetailState struct {
	ID          int64
	Order       *model.WorkOrder
	Inspections []model.Inspection
	// InsCount is the inspection total when the backend reported one.
	InsCount *int
	// InsDegraded is set when the inspection fetch failed; the entity is
	// still usable and the list renders empty instead of blocking the view.
	InsDegraded bool
	Loading     bool
	// Err is the fatal entity-fetch error, classified. When set, the view
	// renders an error state and nothing else.
	Err error
}

// NewDetailController creates a controller with no entity loaded.
func NewDetailController(api driven.BackendClient, logger *slog.Logger) *DetailController {
	return &DetailController{api: api, logger: logger}
}

// Load fetches the work order and its inspections concurrently and
// independently. An entity-fetch failure is fatal to the view; an
// inspection-fetch failure degrades to an empty list. A result commits only
// if no newer Load has been issued meanwhile.
func (c *DetailController) Load(ctx context.Context, id int64) {
	c.mu.Lock()
	c.id = id
	c.gen++
	gen := c.gen
	c.loading = true
	c.err = nil
	c.mu.Unlock()

	var (
		order   *model.WorkOrder
		insPage model.Page[model.Inspection]
		insErr  error
	)

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		var err error
		order, err = c.api.GetWorkOrder(grpCtx, id)
		return err
	})
	grp.Go(func() error {
		// Inspection failures are swallowed here and handled as degraded
		// state below; only the entity fetch can fail the group.
		insPage, insErr = c.api.ListInspections(grpCtx, id, 1)
		return nil
	})
	fatal := grp.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}

	c.loading = false
	if fatal != nil {
		c.err = fatal
		c.order = nil
		c.inspections = nil
		c.insCount = nil
		c.insDegraded = false
		c.logger.Error("work order fetch failed", "id", id, "error", fatal)
		return
	}

	c.order = order
	if insErr != nil {
		c.inspections = []model.Inspection{}
		c.insCount = nil
		c.insDegraded = true
		c.logger.Warn("inspection fetch failed, rendering empty list", "work_order", id, "error", insErr)
		return
	}
	c.inspections = insPage.Items
	c.insCount = insPage.Count
	c.insDegraded = false
}

// Update applies a partial update to the loaded work order. On success the
// locally held entity is replaced wholesale by the server-returned
// representation -- the server is the source of truth post-update, not a
// local patch-merge.
func (c *DetailController) Update(ctx context.Context, patch model.WorkOrderPatch) (*model.WorkOrder, error) {
	c.mu.Lock()
	id := c.id
	c.mu.Unlock()

	updated, err := c.api.UpdateWorkOrder(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.id == id {
		c.order = updated
	}
	c.mu.Unlock()
	return updated, nil
}

// AddInspection creates an inspection scoped to the loaded work order and
// prepends the confirmed record to the held collection.
func (c *DetailController) AddInspection(ctx context.Context, result model.InspectionResult, notes string) (*model.Inspection, error) {
	c.mu.Lock()
	id := c.id
	c.mu.Unlock()

	created, err := c.api.CreateInspection(ctx, model.InspectionFields{
		WorkOrder: id,
		Result:    result,
		Notes:     notes,
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.id == id {
		c.inspections = append([]model.Inspection{*created}, c.inspections...)
		if c.insCount != nil {
			*c.insCount++
		}
	}
	c.mu.Unlock()
	return created, nil
}

// Snapshot returns a copy of the current state safe for rendering.
func (c *DetailController) Snapshot() DetailState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := DetailState{
		ID:          c.id,
		InsDegraded: c.insDegraded,
		Loading:     c.loading,
		Err:         c.err,
	}
	if c.order != nil {
		order := *c.order
		state.Order = &order
	}
	state.Inspections = make([]model.Inspection, len(c.inspections))
	copy(state.Inspections, c.inspections)
	if c.insCount != nil {
		v := *c.insCount
		state.InsCount = &v
	}
	return state
}
