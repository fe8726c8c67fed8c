package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux. The login
// pages and static assets are public; everything else requires a session.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Public routes.
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.LoginSubmit)
	mux.HandleFunc("POST /logout", h.Logout)

	// Guarded routes.
	guard := func(fn http.HandlerFunc) http.Handler {
		return requireAuth(h.session, fn)
	}
	mux.Handle("GET /{$}", guard(h.Home))
	mux.Handle("GET /workorders", guard(h.WorkOrders))
	mux.Handle("POST /workorders", guard(h.WorkOrderCreate))
	mux.Handle("GET /workorders/{id}", guard(h.WorkOrderDetail))
	mux.Handle("POST /workorders/{id}", guard(h.WorkOrderUpdate))
	mux.Handle("POST /workorders/{id}/delete", guard(h.WorkOrderDelete))
	mux.Handle("POST /workorders/{id}/inspections", guard(h.InspectionCreate))
}
