package web

import (
	"net/http"
	"net/url"
)

const (
	flashNoticeCookie = "flash_notice"
	flashAlertCookie  = "flash_alert"
)

// setFlash queues a one-shot message delivered on the next page render.
func setFlash(w http.ResponseWriter, name, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and clears the queued notice and alert, if any.
func takeFlash(w http.ResponseWriter, r *http.Request) (notice, alert string) {
	return popFlash(w, r, flashNoticeCookie), popFlash(w, r, flashAlertCookie)
}

func popFlash(w http.ResponseWriter, r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
