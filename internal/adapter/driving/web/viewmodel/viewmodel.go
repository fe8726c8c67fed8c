// Package viewmodel defines the render-ready data shapes consumed by the
// page templates. View models carry strings and pre-rendered HTML only;
// templates never reach into domain types.
package viewmodel

// LoginViewModel backs the login page.
type LoginViewModel struct {
	Username  string
	Next      string
	Error     string
	CSRFToken string
}

// WorkOrderCardViewModel is one row in the work-order list.
type WorkOrderCardViewModel struct {
	ID         int64
	Title      string
	Station    string
	Status     string
	CreatedAt  string
	DetailPath string
}

// WorkOrderListViewModel backs the work-order list page.
type WorkOrderListViewModel struct {
	Items    []WorkOrderCardViewModel
	Filter   string
	Statuses []string
	PageNum  int
	HasNext  bool
	HasPrev  bool
	// Count is empty when the backend did not report a total.
	Count string
	// Notice is a one-shot success message from the previous request.
	Notice string
	Error  string
	// FieldErrors holds per-field messages from a rejected create.
	FieldErrors map[string][]string
	// Form echoes the rejected create input so the user can correct it.
	Form      WorkOrderFormViewModel
	CSRFToken string
}

// WorkOrderFormViewModel echoes submitted create/update input.
type WorkOrderFormViewModel struct {
	Title   string
	Station string
	Status  string
}

// InspectionViewModel is one inspection row on the detail page.
type InspectionViewModel struct {
	ID        int64
	Result    string
	NotesHTML string
	CreatedAt string
}

// WorkOrderDetailViewModel backs the work-order detail page.
type WorkOrderDetailViewModel struct {
	ID          int64
	Title       string
	Station     string
	Status      string
	Statuses    []string
	CreatedAt   string
	Inspections []InspectionViewModel
	// InsCount is empty when the backend did not report a total.
	InsCount string
	// InsDegraded signals the inspection fetch failed; the list renders
	// empty with a notice instead of blocking the page.
	InsDegraded bool
	// Notice is a one-shot success message from the previous request.
	Notice      string
	Error       string
	FieldErrors map[string][]string
	CSRFToken   string
}
