package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"safetrack/internal/middleware"
	"safetrack/internal/service"
	"safetrack/pkg/validator"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account with the inspector role
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} service.AuthResult "Registration successful"
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authService.Register(service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		slog.Warn("Registration failed", "email", req.Email, "error", err)
		respondWithServiceError(w, err)
		return
	}

	slog.Info("User registered", "user_id", result.User.ID, "email", result.User.Email)
	respondWithJSON(w, http.StatusCreated, result)
}

// Login handles user login
// @Summary Log in
// @Description Authenticate with email and password, returning a JWT
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} service.AuthResult "Login successful"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.authService.Login(service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "error", err)
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Profile returns the authenticated user's profile
// @Summary Get own profile
// @Description Get the authenticated user with roles
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserWithRoles "Profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	profile, err := h.authService.Profile(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}
