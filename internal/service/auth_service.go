package service

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"safetrack/internal/auth"
	"safetrack/internal/models"
	"safetrack/internal/repository"
)

// UserStore is the user surface the auth flow depends on
type UserStore interface {
	Create(user *models.User) error
	GetByID(userID uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetUserRoles(userID uint) ([]models.Role, error)
	AssignRole(userID, roleID uint) error
	UpdateLastLogin(userID uint) error
}

// RoleStore resolves roles by name
type RoleStore interface {
	GetByName(name string) (*models.Role, error)
}

// AuthService handles registration and login
type AuthService struct {
	users UserStore
	roles RoleStore
	auth  *auth.Service
	audit AuditStore
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, roles RoleStore, authSvc *auth.Service, audit AuditStore) *AuthService {
	return &AuthService{users: users, roles: roles, auth: authSvc, audit: audit}
}

// RegisterInput is the registration payload
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginInput is the login payload
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult carries the issued token and the authenticated user
type AuthResult struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
	User      models.UserWithRoles `json:"user"`
}

// Register creates a new user account. New accounts receive the inspector
// role; elevated roles are assigned by an admin afterwards.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", ErrValidation)
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, fmt.Errorf("first and last name are required: %w", ErrValidation)
	}

	hash, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     true,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, fmt.Errorf("email already registered: %w", ErrValidation)
		}
		return nil, err
	}

	role, err := s.roles.GetByName("inspector")
	if err != nil {
		return nil, err
	}
	if role != nil {
		if err := s.users.AssignRole(user.ID, role.ID); err != nil {
			return nil, err
		}
	}

	s.audit.Create(&models.AuditLog{
		UserID:   &user.ID,
		Action:   "register",
		Resource: "user",
		Details:  fmt.Sprintf("Registered user %s", user.Email),
	})

	return s.issueToken(user)
}

// Login authenticates a user and issues a token. Inactive accounts and bad
// credentials are indistinguishable to the caller.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	}
	if err := s.auth.VerifyPassword(user.PasswordHash, input.Password); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		return nil, err
	}

	s.audit.Create(&models.AuditLog{
		UserID:   &user.ID,
		Action:   "login",
		Resource: "user",
		Details:  fmt.Sprintf("User %s logged in", user.Email),
	})

	return s.issueToken(user)
}

// Profile returns the authenticated user with roles
func (s *AuthService) Profile(userID uint) (*models.UserWithRoles, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	roles, err := s.users.GetUserRoles(userID)
	if err != nil {
		return nil, err
	}
	return &models.UserWithRoles{User: *user, Roles: roles}, nil
}

// RoleNames returns the names of the user's roles, for permission checks
func (s *AuthService) RoleNames(userID uint) ([]string, error) {
	roles, err := s.users.GetUserRoles(userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names, nil
}

func (s *AuthService) issueToken(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	roles, err := s.users.GetUserRoles(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      models.UserWithRoles{User: *user, Roles: roles},
	}, nil
}
