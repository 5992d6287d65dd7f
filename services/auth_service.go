package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/auth"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/disserto/disserto-api/utils/validation"
	"github.com/rs/zerolog"
)

// AuthService handles registration, login and logout
type AuthService struct {
	users     repository.UserRepository
	jwt       *auth.JWTManager
	blacklist *auth.BlacklistService
	validator *validation.Validator
	log       zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, jwtManager *auth.JWTManager, blacklist *auth.BlacklistService) *AuthService {
	return &AuthService{
		users:     users,
		jwt:       jwtManager,
		blacklist: blacklist,
		validator: validation.NewValidator(),
		log:       logger.With("auth"),
	}
}

// RegisterRequest represents a user registration request. Admins cannot
// register themselves.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,oneof=student faculty hod"`
	Department string `json:"department" validate:"max=100"`
	Branch     string `json:"branch" validate:"max=100"`
	Course     string `json:"course" validate:"max=100"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expiresIn"` // seconds
}

// Register creates the account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = validation.SanitizeString(req.Name)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}
	if ok, problems := validation.ValidatePassword(req.Password); !ok {
		return nil, apperrors.Validation("Password does not meet requirements", map[string]string{"password": strings.Join(problems, "; ")})
	}

	user := &model.User{
		Name:       req.Name,
		Email:      req.Email,
		Role:       model.Role(req.Role),
		Department: req.Department,
		Branch:     req.Branch,
		Course:     req.Course,
	}
	if err := NormalizeRoleFields(user); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to process password", err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Duplicate("User with this email already exists")
		}
		return nil, internal(err)
	}

	s.log.Info().Uint("user_id", user.ID).Str("role", user.Role.String()).Msg("user registered")
	return s.issue(user)
}

// Login verifies the credentials and signs a token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, internal(err)
	}
	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	return s.issue(user)
}

// Logout revokes the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.Unauthorized("")
	}
	expiresAt := s.jwtExpiry(claims)
	if err := s.blacklist.RevokeToken(ctx, claims.ID, claims.UserID, expiresAt, "logout"); err != nil {
		return apperrors.Internal("Failed to revoke token", err)
	}
	return nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate token", err)
	}
	return &AuthResult{
		User:      user,
		Token:     token.Token,
		ExpiresIn: int64(s.jwt.Expiry().Seconds()),
	}, nil
}

func (s *AuthService) jwtExpiry(claims *auth.Claims) time.Time {
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Now().Add(s.jwt.Expiry())
}
