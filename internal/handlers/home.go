package handlers

import "net/http"

// NewHomeHandler returns an HTTP handler for the root route. Unauthenticated
// visitors land here; they are pointed at the login endpoint.
// @Summary Home
// @Description Redirects to the login endpoint
// @Tags auth
// @Success 307 "Redirect to /api/v1/login"
// @Router / [get]
func NewHomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/v1/login", http.StatusTemporaryRedirect)
	}
}
