package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
)

// UserService manages user accounts within a company
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// UserDTO is the read model for users. The password hash never leaves
// the application layer.
type UserDTO struct {
	ID           uuid.UUID            `json:"id"`
	Email        string               `json:"email"`
	FirstName    string               `json:"first_name"`
	LastName     string               `json:"last_name"`
	Role         identity.AccountRole `json:"role"`
	RoleIDs      []uuid.UUID          `json:"role_ids"`
	CompanyID    uuid.UUID            `json:"company_id"`
	DepartmentID *uuid.UUID           `json:"department_id,omitempty"`
	Phone        string               `json:"phone,omitempty"`
	IsActive     bool                 `json:"is_active"`
	LastLoginAt  *time.Time           `json:"last_login_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

func toUserDTO(user *identity.User) *UserDTO {
	return &UserDTO{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         user.Role,
		RoleIDs:      user.RoleIDs,
		CompanyID:    user.CompanyID,
		DepartmentID: user.DepartmentID,
		Phone:        user.Phone,
		IsActive:     user.IsActive,
		LastLoginAt:  user.LastLoginAt,
		CreatedAt:    user.CreatedAt,
	}
}

// CreateUserInput carries the data to register a user
type CreateUserInput struct {
	Email     string               `json:"email" binding:"required,email"`
	Password  string               `json:"password" binding:"required,min=8"`
	FirstName string               `json:"first_name" binding:"required"`
	LastName  string               `json:"last_name" binding:"required"`
	Role      identity.AccountRole `json:"role"`
	CompanyID uuid.UUID            `json:"company_id" binding:"required"`
	Phone     string               `json:"phone"`
}

// CreateUser registers a user with a unique email
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, identity.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(input.Email, string(hash), input.FirstName, input.LastName, input.Role, input.CompanyID)
	if err != nil {
		return nil, err
	}
	user.Phone = input.Phone

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", user.CompanyID.String()))
	return toUserDTO(user), nil
}

// UpdateUserInput carries profile changes. Nil fields are left unchanged.
type UpdateUserInput struct {
	FirstName    *string               `json:"first_name"`
	LastName     *string               `json:"last_name"`
	Phone        *string               `json:"phone"`
	Role         *identity.AccountRole `json:"role"`
	DepartmentID *uuid.UUID            `json:"department_id"`
	IsActive     *bool                 `json:"is_active"`
}

// UpdateUser applies profile and status changes
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil || input.LastName != nil || input.Phone != nil {
		first, last, phone := user.FirstName, user.LastName, user.Phone
		if input.FirstName != nil {
			first = *input.FirstName
		}
		if input.LastName != nil {
			last = *input.LastName
		}
		if input.Phone != nil {
			phone = *input.Phone
		}
		if err := user.UpdateProfile(first, last, phone); err != nil {
			return nil, err
		}
	}
	if input.Role != nil {
		if err := user.ChangeAccountRole(*input.Role); err != nil {
			return nil, err
		}
	}
	if input.DepartmentID != nil {
		user.AssignDepartment(*input.DepartmentID)
	}
	if input.IsActive != nil {
		if *input.IsActive {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// GetUser returns a single user
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// ListUsers returns a page of the company's users
func (s *UserService) ListUsers(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (shared.Paginated[*UserDTO], error) {
	page, err := s.userRepo.FindByCompany(ctx, companyID, filter)
	if err != nil {
		return shared.Paginated[*UserDTO]{}, err
	}
	dtos := make([]*UserDTO, 0, len(page.Items))
	for _, user := range page.Items {
		dtos = append(dtos, toUserDTO(user))
	}
	return shared.NewPaginated(dtos, page.Total, page.Page, page.PageSize), nil
}

// DeactivateUser disables an account without deleting its history
func (s *UserService) DeactivateUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Deactivate()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("user deactivated", zap.String("user_id", userID.String()))
	return nil
}
