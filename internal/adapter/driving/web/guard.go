package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jcastellan/workpanel/internal/application"
)

// requireAuth gates a route on an authenticated session. Unauthenticated
// requests are redirected to the login page with the originally requested
// URI carried in the next parameter, so a successful login can resume where
// the user was headed.
func requireAuth(session *application.Session, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.Current() == nil {
			target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// safeNext validates a post-login redirect target. Only same-site absolute
// paths are honored; anything else falls back to the work-order list.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/workorders"
	}
	return next
}
