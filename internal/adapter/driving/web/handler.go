// Package web implements the HTML GUI driving adapter.
package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/jcastellan/workpanel/internal/adapter/driving/web/templates"
	vm "github.com/jcastellan/workpanel/internal/adapter/driving/web/viewmodel"
	"github.com/jcastellan/workpanel/internal/application"
	"github.com/jcastellan/workpanel/internal/domain/model"
)

// WorkOrderController is the list controller specialized to work orders.
type WorkOrderController = application.ListController[model.WorkOrder, model.WorkOrderFields]

// Handler is the web GUI driving adapter that serves HTML pages.
type Handler struct {
	session *application.Session
	orders  *WorkOrderController
	detail  *application.DetailController
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	session *application.Session,
	orders *WorkOrderController,
	detail *application.DetailController,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		session: session,
		orders:  orders,
		detail:  detail,
		logger:  logger,
	}
}

// render writes the full page with layout. The status must be decided before
// calling; render failures can only be logged at that point.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, contents templ.Component) {
	username := ""
	if id := h.session.Current(); id != nil {
		username = id.Username
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(title, username, contents).Render(r.Context(), w); err != nil {
		h.logger.Error("page render failed", "path", r.URL.Path, "error", err)
	}
}

// redirectToLogin sends the browser to the login page, preserving the
// requested URI so login can resume there.
func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
}

// Home redirects to the work-order list.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/workorders", http.StatusFound)
}

// LoginForm renders the credential form. An already authenticated user is
// sent straight to their destination.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if h.session.Current() != nil {
		http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
		return
	}

	h.render(w, r, http.StatusOK, "Sign in", templates.LoginPage(vm.LoginViewModel{
		Next:      next,
		CSRFToken: csrfToken(w, r),
	}))
}

// LoginSubmit exchanges the submitted credentials for a session. Rejection
// re-renders the form with the error; success resumes at the next target.
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	next := r.FormValue("next")

	_, err := h.session.Login(r.Context(), username, password)
	if err != nil {
		status := http.StatusUnauthorized
		message := "Invalid username or password."
		if model.ErrorKindOf(err) != model.KindNotAuthenticated {
			status = http.StatusBadGateway
			message = "The backend could not be reached. Please try again."
			h.logger.Error("login exchange failed", "error", err)
		}
		h.render(w, r, status, "Sign in", templates.LoginPage(vm.LoginViewModel{
			Username:  username,
			Next:      next,
			Error:     message,
			CSRFToken: csrfToken(w, r),
		}))
		return
	}

	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// Logout ends the session and returns to the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.Error("logout cleanup failed", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// WorkOrders renders the filtered, paginated list. The URL query is the
// source of truth for filter and page; the controller is steered to match it.
func (h *Handler) WorkOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p >= 1 {
		page = p
	}

	snap := h.orders.Snapshot()
	switch {
	case status != snap.Filter:
		// A filter change resets to page 1 regardless of the page parameter.
		h.orders.SetFilter(r.Context(), status)
	case page != snap.PageNum:
		if err := h.orders.SetPage(r.Context(), page); err != nil {
			http.Redirect(w, r, listPath(snap.Filter, snap.PageNum), http.StatusSeeOther)
			return
		}
	default:
		h.orders.Refresh(r.Context())
	}

	snap = h.orders.Snapshot()
	if snap.Err != nil && model.ErrorKindOf(snap.Err) == model.KindNotAuthenticated {
		h.expireSession(w, r)
		return
	}

	m := toListViewModel(snap, csrfToken(w, r))
	notice, alert := takeFlash(w, r)
	m.Notice = notice
	if m.Error == "" {
		m.Error = alert
	}
	h.render(w, r, http.StatusOK, "Work orders", templates.WorkOrdersPage(m))
}

// WorkOrderCreate handles the list page's create form.
func (h *Handler) WorkOrderCreate(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	fields := model.WorkOrderFields{
		Title:   r.FormValue("title"),
		Station: r.FormValue("station"),
		Status:  model.WorkOrderStatus(r.FormValue("status")),
	}

	_, err := h.orders.Create(r.Context(), fields)
	if err == nil {
		http.Redirect(w, r, "/workorders", http.StatusSeeOther)
		return
	}

	if model.ErrorKindOf(err) == model.KindNotAuthenticated {
		h.expireSession(w, r)
		return
	}

	m := toListViewModel(h.orders.Snapshot(), csrfToken(w, r))
	m.Error = errorMessage(err)
	m.FieldErrors = fieldErrorsOf(err)
	m.Form = vm.WorkOrderFormViewModel{
		Title:   fields.Title,
		Station: fields.Station,
		Status:  string(fields.Status),
	}
	h.render(w, r, statusForError(err), "Work orders", templates.WorkOrdersPage(m))
}

// WorkOrderDelete handles the per-row delete form. Deletion only proceeds
// with the explicit confirm field; without it the request bounces back.
func (h *Handler) WorkOrderDelete(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	snap := h.orders.Snapshot()
	back := listPath(snap.Filter, snap.PageNum)

	if r.FormValue("confirm") != "yes" {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		if model.ErrorKindOf(err) == model.KindNotAuthenticated {
			h.expireSession(w, r)
			return
		}
		// The failure changed nothing locally; surface it on the next render.
		setFlash(w, flashAlertCookie, errorMessage(err))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	// Delete may have stepped the controller back a page.
	snap = h.orders.Snapshot()
	http.Redirect(w, r, listPath(snap.Filter, snap.PageNum), http.StatusSeeOther)
}

// WorkOrderDetail renders one work order with its inspections.
func (h *Handler) WorkOrderDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	h.detail.Load(r.Context(), id)
	state := h.detail.Snapshot()

	if state.Err != nil {
		switch model.ErrorKindOf(state.Err) {
		case model.KindNotAuthenticated:
			h.expireSession(w, r)
		case model.KindNotFound:
			h.render(w, r, http.StatusNotFound, "Not found",
				templates.ErrorPage("This work order no longer exists."))
		default:
			h.render(w, r, http.StatusBadGateway, "Error",
				templates.ErrorPage(errorMessage(state.Err)))
		}
		return
	}

	m := toDetailViewModel(state, csrfToken(w, r))
	notice, alert := takeFlash(w, r)
	m.Notice = notice
	if m.Error == "" {
		m.Error = alert
	}
	h.render(w, r, http.StatusOK, detailTitle(state), templates.WorkOrderDetailPage(m))
}

// WorkOrderUpdate applies the detail page's edit form as a partial update.
func (h *Handler) WorkOrderUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	patch := patchFromForm(r)
	if patch.IsEmpty() {
		http.Redirect(w, r, fmt.Sprintf("/workorders/%d", id), http.StatusSeeOther)
		return
	}

	if _, err := h.detail.Update(r.Context(), patch); err != nil {
		h.renderDetailError(w, r, err)
		return
	}

	setFlash(w, flashNoticeCookie, "Work order updated.")
	http.Redirect(w, r, fmt.Sprintf("/workorders/%d", id), http.StatusSeeOther)
}

// InspectionCreate records an inspection against the loaded work order.
func (h *Handler) InspectionCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	result := model.InspectionResult(r.FormValue("result"))
	if !result.IsValid() {
		h.renderDetailError(w, r, &model.APIError{
			Kind:   model.KindFieldValidation,
			Status: http.StatusBadRequest,
			Fields: map[string][]string{"result": {"must be OK or FAIL"}},
		})
		return
	}

	if _, err := h.detail.AddInspection(r.Context(), result, r.FormValue("notes")); err != nil {
		h.renderDetailError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/workorders/%d", id), http.StatusSeeOther)
}

// renderDetailError re-renders the detail page carrying a mutation error.
func (h *Handler) renderDetailError(w http.ResponseWriter, r *http.Request, err error) {
	if model.ErrorKindOf(err) == model.KindNotAuthenticated {
		h.expireSession(w, r)
		return
	}

	state := h.detail.Snapshot()
	m := toDetailViewModel(state, csrfToken(w, r))
	m.Error = errorMessage(err)
	m.FieldErrors = fieldErrorsOf(err)
	h.render(w, r, statusForError(err), detailTitle(state), templates.WorkOrderDetailPage(m))
}

// expireSession drops a session the backend has rejected and restarts the
// login flow from the current location.
func (h *Handler) expireSession(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.Error("session cleanup failed", "error", err)
	}
	h.redirectToLogin(w, r)
}

func detailTitle(state application.DetailState) string {
	if state.Order != nil && state.Order.Title != "" {
		return state.Order.Title
	}
	return "Work order"
}

// pathID parses the {id} path segment; a malformed id is a client error.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		http.Error(w, "invalid work order id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// patchFromForm builds a partial update from the edit form. Empty title and
// station inputs are treated as "leave unchanged" rather than "clear".
func patchFromForm(r *http.Request) model.WorkOrderPatch {
	var patch model.WorkOrderPatch
	if v := r.FormValue("title"); v != "" {
		patch.Title = &v
	}
	if v := r.FormValue("station"); v != "" {
		patch.Station = &v
	}
	if v := r.FormValue("status"); v != "" {
		status := model.WorkOrderStatus(v)
		patch.Status = &status
	}
	return patch
}

// listPath rebuilds the canonical list URL for a (filter, page) pair.
func listPath(filter string, page int) string {
	q := url.Values{}
	if filter != "" {
		q.Set("status", filter)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/workorders"
	}
	return "/workorders?" + q.Encode()
}

// statusForError maps a classified error to the HTTP status of the re-render.
func statusForError(err error) int {
	switch model.ErrorKindOf(err) {
	case model.KindFieldValidation:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
