package web

import (
	"errors"
	"fmt"
	"strconv"

	vm "github.com/jcastellan/workpanel/internal/adapter/driving/web/viewmodel"
	"github.com/jcastellan/workpanel/internal/application"
	"github.com/jcastellan/workpanel/internal/domain/model"
)

const displayTime = "2006-01-02 15:04"

func statusNames() []string {
	names := make([]string, 0, len(model.WorkOrderStatuses))
	for _, s := range model.WorkOrderStatuses {
		names = append(names, string(s))
	}
	return names
}

func toCardViewModel(wo model.WorkOrder) vm.WorkOrderCardViewModel {
	return vm.WorkOrderCardViewModel{
		ID:         wo.ID,
		Title:      wo.Title,
		Station:    wo.Station,
		Status:     string(wo.Status),
		CreatedAt:  wo.CreatedAt.UTC().Format(displayTime),
		DetailPath: fmt.Sprintf("/workorders/%d", wo.ID),
	}
}

func toListViewModel(state application.ListState[model.WorkOrder], csrf string) vm.WorkOrderListViewModel {
	items := make([]vm.WorkOrderCardViewModel, 0, len(state.Items))
	for _, wo := range state.Items {
		items = append(items, toCardViewModel(wo))
	}

	count := ""
	if state.Count != nil {
		count = strconv.Itoa(*state.Count)
	}

	return vm.WorkOrderListViewModel{
		Items:     items,
		Filter:    state.Filter,
		Statuses:  statusNames(),
		PageNum:   state.PageNum,
		HasNext:   state.HasNext,
		HasPrev:   state.HasPrev,
		Count:     count,
		Error:     errorMessage(state.Err),
		CSRFToken: csrf,
	}
}

func toDetailViewModel(state application.DetailState, csrf string) vm.WorkOrderDetailViewModel {
	detail := vm.WorkOrderDetailViewModel{
		ID:          state.ID,
		Statuses:    statusNames(),
		InsDegraded: state.InsDegraded,
		Error:       errorMessage(state.Err),
		CSRFToken:   csrf,
	}

	if state.Order != nil {
		detail.Title = state.Order.Title
		detail.Station = state.Order.Station
		detail.Status = string(state.Order.Status)
		detail.CreatedAt = state.Order.CreatedAt.UTC().Format(displayTime)
	}

	if state.InsCount != nil {
		detail.InsCount = strconv.Itoa(*state.InsCount)
	}

	detail.Inspections = make([]vm.InspectionViewModel, 0, len(state.Inspections))
	for _, ins := range state.Inspections {
		detail.Inspections = append(detail.Inspections, toInspectionViewModel(ins))
	}

	return detail
}

func toInspectionViewModel(ins model.Inspection) vm.InspectionViewModel {
	return vm.InspectionViewModel{
		ID:        ins.ID,
		Result:    string(ins.Result),
		NotesHTML: RenderNotes(ins.Notes),
		CreatedAt: ins.CreatedAt.UTC().Format(displayTime),
	}
}

// errorMessage maps a classified error to the message shown to the user.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}

	switch model.ErrorKindOf(err) {
	case model.KindNotAuthenticated:
		return "Your session has expired. Please sign in again."
	case model.KindNotFound:
		return "This record no longer exists."
	case model.KindFieldValidation:
		return "Some fields need attention."
	default:
		return "The operation could not be completed. Please try again."
	}
}

// fieldErrorsOf extracts per-field validation messages when the error
// carries them.
func fieldErrorsOf(err error) map[string][]string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		return apiErr.Fields
	}
	return nil
}
