package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
)

// TokenIssuer creates signed access tokens
type TokenIssuer interface {
	IssueToken(userID, companyID uuid.UUID, role identity.AccountRole) (string, error)
}

// AuthService handles sign-in and credential changes
type AuthService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(userRepo identity.UserRepository, roleRepo identity.RoleRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// ErrInvalidCredentials is returned on any failed sign-in attempt
var ErrInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")

// LoginInput carries sign-in credentials
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned on successful sign-in
type LoginResult struct {
	Token       string                `json:"token"`
	User        *UserDTO              `json:"user"`
	Permissions []identity.Permission `json:"permissions"`
}

// Login verifies credentials and issues an access token together with
// the user's resolved permission set
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, identity.ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.logger.Warn("failed login attempt", zap.String("email", input.Email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user.ID, user.CompanyID, user.Role)
	if err != nil {
		return nil, err
	}

	roles, err := s.roleRepo.FindByIDs(ctx, user.RoleIDs)
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("failed to record login time", zap.Error(err))
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return &LoginResult{
		Token:       token,
		User:        toUserDTO(user),
		Permissions: identity.EffectivePermissions(user, roles),
	}, nil
}

// ChangePasswordInput carries a password change request
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword verifies the current password and stores a new hash
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.ChangePassword(string(hash))
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.String("user_id", userID.String()))
	return nil
}

// CheckPermission reports whether a user holds the required permission,
// resolving assigned roles with the account-role fallback
func (s *AuthService) CheckPermission(ctx context.Context, userID uuid.UUID, required identity.Permission) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !user.IsActive {
		return false, identity.ErrUserInactive
	}
	roles, err := s.roleRepo.FindByIDs(ctx, user.RoleIDs)
	if err != nil {
		return false, err
	}
	return identity.HasPermission(user, roles, required), nil
}
