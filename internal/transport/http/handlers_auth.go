package httptransport

import (
	"encoding/json"
	"net/http"
	"strings"

	authmodels "roomalchemy/internal/auth/models"
	"roomalchemy/internal/platform/middleware"
	derrors "roomalchemy/pkg/domain-errors"
	"roomalchemy/pkg/platform/httputil"
)

func writeOK(w http.ResponseWriter, v any) {
	httputil.WriteJSON(w, http.StatusOK, v)
}

// handleLogin exchanges credentials for a signed token.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authmodels.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteErrorStatus(w, http.StatusBadRequest,
			derrors.New(derrors.CodeInvalidCredentials, "Email and password are required."))
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httputil.WriteErrorStatus(w, http.StatusBadRequest,
			derrors.New(derrors.CodeInvalidCredentials, "Email and password are required."))
		return
	}

	result, err := h.auth.Login(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	writeOK(w, result)
}

// handleLogout revokes the presented token. Idempotent: revoking twice still
// returns 200.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := middleware.BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		httputil.WriteError(w, derrors.New(derrors.CodeInvalidRequest, "Authorization header required."))
		return
	}

	if err := h.auth.Logout(ctx, token); err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeOK(w, map[string]string{"message": "Logged out successfully."})
}
