package model

import "time"

// WorkOrderStatus represents the lifecycle state of a work order.
type WorkOrderStatus string

const (
	StatusOpen       WorkOrderStatus = "OPEN"
	StatusInProgress WorkOrderStatus = "IN_PROGRESS"
	StatusDone       WorkOrderStatus = "DONE"
)

// WorkOrderStatuses lists every valid status in display order.
var WorkOrderStatuses = []WorkOrderStatus{StatusOpen, StatusInProgress, StatusDone}

// IsValid reports whether s is one of the known statuses.
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// WorkOrder is a trackable unit of factory work. The backend owns the record;
// the panel holds a transient copy per loaded page or detail view.
type WorkOrder struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Station   string          `json:"station"`
	Status    WorkOrderStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// WorkOrderFields carries the writable fields for creating a work order.
// Status defaults to OPEN on the backend when empty.
type WorkOrderFields struct {
	Title   string          `json:"title"`
	Station string          `json:"station"`
	Status  WorkOrderStatus `json:"status,omitempty"`
}

// WorkOrderPatch carries a partial update. Nil fields are omitted from the
// request body so the backend leaves them untouched.
type WorkOrderPatch struct {
	Title   *string          `json:"title,omitempty"`
	Station *string          `json:"station,omitempty"`
	Status  *WorkOrderStatus `json:"status,omitempty"`
}

// IsEmpty reports whether the patch carries no changes at all.
func (p WorkOrderPatch) IsEmpty() bool {
	return p.Title == nil && p.Station == nil && p.Status == nil
}
