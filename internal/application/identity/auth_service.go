package identity

import (
	"context"
	"errors"
	"time"

	"github.com/bizflow/backend/internal/domain/identity"
	"github.com/bizflow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TokenIssuer mints authentication tokens carrying tenant and user claims
type TokenIssuer interface {
	Issue(tenantID, userID uuid.UUID, username string) (token string, expiresAt time.Time, err error)
}

// AuthService handles credential-based authentication
type AuthService struct {
	userRepo identity.UserRepository
	issuer   TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, issuer TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// Login verifies credentials and issues a token.
// Invalid username and wrong password return the same error so the
// endpoint does not leak which usernames exist.
func (s *AuthService) Login(ctx context.Context, tenantID uuid.UUID, req LoginRequest) (*LoginResponse, error) {
	invalidCredentials := shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

	user, err := s.userRepo.FindByUsername(ctx, tenantID, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(req.Password) {
		return nil, invalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(user.TenantID, user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		TenantID:  user.TenantID,
		Username:  user.Username,
	}, nil
}

// Register creates a new user in the tenant
func (s *AuthService) Register(ctx context.Context, tenantID uuid.UUID, req RegisterUserRequest) (*UserResponse, error) {
	existing, err := s.userRepo.FindByUsername(ctx, tenantID, req.Username)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this username already exists")
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
	}, nil
}
