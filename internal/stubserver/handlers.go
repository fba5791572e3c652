package stubserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/appfoundry/apikit/internal/apperrors"
	"github.com/appfoundry/apikit/internal/logger"
	"github.com/appfoundry/apikit/internal/version"
)

// maximum artificial delay accepted by the timeout test route
const maxFailDelay = 60 * time.Second

type HandlerService struct {
	auth        *authService
	schema      *jsonschema.Schema // nil when no schema is configured
	environment string
}

type claimsContextKey struct{}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// HandleHealth reports liveness plus build information.
func (h *HandlerService) HandleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": h.environment,
		"version":     version.Get().Version,
	})
}

// HandleLogin checks the fixed dev credential and issues a short-lived JWT.
func (h *HandlerService) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, fmt.Sprintf("could not decode request body: %v", err))
		return
	}

	if req.Email != h.auth.devEmail || h.auth.checkPassword(req.Password) != nil {
		RespondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeAuthenticationFailure, "incorrect email or password")
		return
	}

	accessToken, expiresIn, err := h.auth.createAccessToken(req.Email)
	if err != nil {
		RespondWithError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternalError, fmt.Sprintf("error creating access token: %v", err))
		return
	}

	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Info("user logged in", slog.String("email", req.Email))

	RespondWithJSON(w, http.StatusOK, AccessTokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	})
}

// RequireAuth verifies the bearer token and stores the claims in context.
func (h *HandlerService) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			RespondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeTokenInvalid, "missing bearer token")
			return
		}

		claims, err := h.auth.verifyAccessToken(token)
		if err != nil {
			RespondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeTokenInvalid, fmt.Sprintf("invalid access token: %v", err))
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HandleMe echoes the claims of the authenticated caller.
func (h *HandlerService) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(claimsContextKey{}).(*jwt.RegisteredClaims)
	if !ok {
		RespondWithError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternalError, "claims missing from context")
		return
	}

	RespondWithJSON(w, http.StatusOK, map[string]any{
		"email":      claims.Subject,
		"issued_at":  claims.IssuedAt,
		"expires_at": claims.ExpiresAt,
	})
}

// HandleEcho returns the JSON body unchanged, optionally validating it
// against the configured schema first.
func (h *HandlerService) HandleEcho(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, fmt.Sprintf("could not read request body: %v", err))
		return
	}

	if !json.Valid(body) {
		RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, "request body is not valid JSON")
		return
	}

	if h.schema != nil {
		if err := validateBody(h.schema, body); err != nil {
			RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeValidationFailure, err.Error())
			return
		}
	}

	RespondWithJSON(w, http.StatusOK, json.RawMessage(body))
}

// HandleFailUnauthorized always responds 401 - exists so clients can exercise
// their unauthorized handling.
func (h *HandlerService) HandleFailUnauthorized(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, r, http.StatusUnauthorized, apperrors.ErrCodeAuthenticationFailure, "this route always responds 401")
}

// HandleFailServerError always responds 500.
func (h *HandlerService) HandleFailServerError(w http.ResponseWriter, r *http.Request) {
	RespondWithError(w, r, http.StatusInternalServerError, apperrors.ErrCodeInternalError, "this route always responds 500")
}

// HandleFailTimeout holds the response until the client gives up. The delay
// defaults to 30s and can be shortened with ?duration=500ms.
func (h *HandlerService) HandleFailTimeout(w http.ResponseWriter, r *http.Request) {
	delay := 30 * time.Second

	if raw := r.URL.Query().Get("duration"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			RespondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid duration %q", raw))
			return
		}
		delay = min(parsed, maxFailDelay)
	}

	select {
	case <-time.After(delay):
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "slept"})
	case <-r.Context().Done():
		// client went away, nothing to write
	}
}
