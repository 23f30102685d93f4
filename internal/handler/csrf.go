package handler

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFToken handles GET /api/csrf-token, issuing a token for subsequent
// state-changing requests.
func CSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CSRFTokenResponse{CSRFToken: csrf.Token(r)})
}
