// Package auth implements the authentication endpoints and the JWT
// authorization middleware protecting the API.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"stockwatch/internal/domain/entity"
	"stockwatch/internal/handler/http/respond"
	authsvc "stockwatch/internal/service/auth"
)

const tokenTTL = time.Hour

// Handler serves login and registration.
type Handler struct {
	service *authsvc.Service
	secret  []byte
}

// NewHandler returns a Handler signing tokens with secret.
func NewHandler(service *authsvc.Service, secret []byte) *Handler {
	return &Handler{service: service, secret: secret}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token handles POST /auth/token. Valid credentials yield a signed
// bearer token carrying the user identity and a fresh session ID.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			respond.Error(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err, "authentication unavailable")
		return
	}

	token, err := h.sign(user)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err, "authentication unavailable")
		return
	}

	respond.JSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(tokenTTL.Seconds()),
	})
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		var verr *entity.ValidationError
		switch {
		case errors.Is(err, authsvc.ErrUsernameTaken):
			respond.Error(w, http.StatusConflict, "username already taken")
		case errors.Is(err, authsvc.ErrWeakPassword):
			respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		case errors.As(err, &verr):
			respond.Error(w, http.StatusBadRequest, verr.Error())
		default:
			respond.SafeError(w, http.StatusInternalServerError, err, "registration unavailable")
		}
		return
	}

	slog.InfoContext(r.Context(), "user registered", "username", user.Username)
	respond.JSON(w, http.StatusCreated, map[string]string{"username": user.Username})
}

func (h *Handler) sign(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.Username,
		"uid": user.ID,
		"sid": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}
