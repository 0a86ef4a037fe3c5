package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evcharge/backend/services/booking-service/internal/models"
	"evcharge/backend/services/booking-service/internal/service"
)

// AuthHandlers serves login, registration and profile endpoints.
type AuthHandlers struct {
	identity *service.IdentityService
	logger   *zap.Logger
}

// NewAuthHandlers returns handler.
func NewAuthHandlers(identity *service.IdentityService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{identity: identity, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *models.User `json:"user"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, user, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to login")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		User:      user,
	})
}

type registerRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	Phone    string          `json:"phone"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if req.Role != "" && req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		writeError(w, http.StatusBadRequest, "role must be user or admin")
		return
	}

	user, err := h.identity.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to register")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.Profile(r.Context(), identity(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
