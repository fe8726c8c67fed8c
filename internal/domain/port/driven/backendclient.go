package driven

import (
	"context"

	"github.com/jcastellan/workpanel/internal/domain/model"
)

// BackendClient defines the driven port for the work-order REST backend.
// Every method returns a *model.APIError on backend rejection so callers can
// branch on the error kind rather than raw status codes. All methods except
// Login carry the session bearer token when one is present; an absent token
// is a valid request state and simply draws a 401 on protected endpoints.
type BackendClient interface {
	// Login exchanges a username and password for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// ListWorkOrders fetches one page of work orders. status filters by
	// lifecycle state when non-empty; page is 1-based and omitted when <= 1.
	ListWorkOrders(ctx context.Context, status model.WorkOrderStatus, page int) (model.Page[model.WorkOrder], error)

	// GetWorkOrder fetches a single work order by id.
	GetWorkOrder(ctx context.Context, id int64) (*model.WorkOrder, error)

	// CreateWorkOrder creates a work order and returns the backend's
	// representation of it.
	CreateWorkOrder(ctx context.Context, fields model.WorkOrderFields) (*model.WorkOrder, error)

	// UpdateWorkOrder applies a partial update and returns the post-update
	// representation. The returned entity, not a local merge, is the source
	// of truth.
	UpdateWorkOrder(ctx context.Context, id int64, patch model.WorkOrderPatch) (*model.WorkOrder, error)

	// DeleteWorkOrder removes a work order.
	DeleteWorkOrder(ctx context.Context, id int64) error

	// ListInspections fetches one page of inspections scoped to a work order.
	ListInspections(ctx context.Context, workOrder int64, page int) (model.Page[model.Inspection], error)

	// CreateInspection creates an inspection scoped to its work order.
	CreateInspection(ctx context.Context, fields model.InspectionFields) (*model.Inspection, error)

	// UpdateInspection and DeleteInspection are exposed by the backend and
	// the service layer; the GUI does not surface them.
	UpdateInspection(ctx context.Context, id int64, patch model.InspectionPatch) (*model.Inspection, error)
	DeleteInspection(ctx context.Context, id int64) error
}

// TokenSource supplies the current bearer token to the backend client.
// An empty string means no credential is held.
type TokenSource interface {
	Token() string
}
