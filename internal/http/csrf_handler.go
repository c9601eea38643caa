package http

import (
	"net/http"

	"github.com/caseyos/caseyos/internal/http/middleware"
)

// CSRFHandler issues tokens for the browser client. The route is a GET so
// it sits outside the CSRF check itself, but it still requires the admin
// token.
type CSRFHandler struct {
	csrf *middleware.CSRF
	auth *middleware.AdminAuth
}

func NewCSRFHandler(csrf *middleware.CSRF, auth *middleware.AdminAuth) *CSRFHandler {
	return &CSRFHandler{csrf: csrf, auth: auth}
}

func (h *CSRFHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/csrf.token", h.auth.Require()(http.HandlerFunc(h.Token)))
}

func (h *CSRFHandler) Token(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": h.csrf.Issue(),
	})
}
