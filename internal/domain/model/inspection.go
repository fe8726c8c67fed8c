package model

import "time"

// InspectionResult is the pass/fail outcome of an inspection.
type InspectionResult string

const (
	ResultOK   InspectionResult = "OK"
	ResultFail InspectionResult = "FAIL"
)

// InspectionResults lists every valid result in display order.
var InspectionResults = []InspectionResult{ResultOK, ResultFail}

// IsValid reports whether r is one of the known results.
func (r InspectionResult) IsValid() bool {
	return r == ResultOK || r == ResultFail
}

// Inspection is a pass/fail record attached to exactly one work order.
// The panel never edits or deletes inspections; once created they are
// immutable in the GUI even though the backend exposes update/delete.
type Inspection struct {
	ID        int64            `json:"id"`
	WorkOrder int64            `json:"work_order"`
	Result    InspectionResult `json:"result"`
	Notes     string           `json:"notes"`
	CreatedAt time.Time        `json:"created_at"`
}

// InspectionFields carries the writable fields for creating an inspection.
// WorkOrder is required and must reference an existing order; Notes may be
// empty.
type InspectionFields struct {
	WorkOrder int64            `json:"work_order"`
	Result    InspectionResult `json:"result"`
	Notes     string           `json:"notes,omitempty"`
}

// InspectionPatch carries a partial update for an inspection. Exposed for
// service-level callers (woctl); the GUI does not surface it.
type InspectionPatch struct {
	Result *InspectionResult `json:"result,omitempty"`
	Notes  *string           `json:"notes,omitempty"`
}
