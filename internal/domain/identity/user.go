package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paydesk/backend/internal/domain/shared"
)

// AccountRole is the coarse-grained role kept on the user record.
// It predates explicit role assignments and still acts as the
// permission fallback for users without assigned roles.
type AccountRole string

const (
	AccountRoleAdmin      AccountRole = "admin"
	AccountRoleManager    AccountRole = "manager"
	AccountRoleAccountant AccountRole = "accountant"
	AccountRoleUser       AccountRole = "user"
)

// IsValid reports whether the account role is known
func (r AccountRole) IsValid() bool {
	switch r {
	case AccountRoleAdmin, AccountRoleManager, AccountRoleAccountant, AccountRoleUser:
		return true
	}
	return false
}

// User is an account that can sign in and act within a company
type User struct {
	shared.BaseAggregateRoot
	Email        string      `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string      `gorm:"not null;size:255"`
	FirstName    string      `gorm:"not null;size:100"`
	LastName     string      `gorm:"not null;size:100"`
	Role         AccountRole `gorm:"not null;default:'user';size:20"`
	RoleIDs      []uuid.UUID `gorm:"serializer:json;type:text"`
	CompanyID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid;index"`
	Phone        string      `gorm:"size:30"`
	IsActive     bool        `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// User domain errors
var (
	ErrEmailRequired      = shared.NewDomainError("VALIDATION_ERROR", "Email is required")
	ErrNameRequired       = shared.NewDomainError("VALIDATION_ERROR", "First and last name are required")
	ErrInvalidAccountRole = shared.NewDomainError("VALIDATION_ERROR", "Unknown account role")
	ErrUserInactive       = shared.NewDomainError("UNAUTHORIZED", "User account is inactive")
	ErrDuplicateEmail     = shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
)

// UserCreatedEvent is published when a user account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string      `json:"email"`
	Role  AccountRole `json:"role"`
}

// NewUser creates a user account. The password must already be hashed.
func NewUser(email, passwordHash, firstName, lastName string, role AccountRole, companyID uuid.UUID) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrEmailRequired
	}
	if firstName == "" || lastName == "" {
		return nil, ErrNameRequired
	}
	if role == "" {
		role = AccountRoleUser
	}
	if !role.IsValid() {
		return nil, ErrInvalidAccountRole
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		FirstName:         firstName,
		LastName:          lastName,
		Role:              role,
		CompanyID:         companyID,
		IsActive:          true,
	}

	user.AddDomainEvent(&UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("user.created", "User", user.ID, companyID),
		Email:           email,
		Role:            role,
	})

	return user, nil
}

// FullName returns the display name of the user
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// AssignRoles replaces the user's explicit role assignments
func (u *User) AssignRoles(roleIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(roleIDs))
	out := make([]uuid.UUID, 0, len(roleIDs))
	for _, id := range roleIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	u.RoleIDs = out
	u.touch()
}

// ChangeAccountRole updates the legacy account role
func (u *User) ChangeAccountRole(role AccountRole) error {
	if !role.IsValid() {
		return ErrInvalidAccountRole
	}
	u.Role = role
	u.touch()
	return nil
}

// UpdateProfile updates the user's display fields
func (u *User) UpdateProfile(firstName, lastName, phone string) error {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return ErrNameRequired
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Phone = strings.TrimSpace(phone)
	u.touch()
	return nil
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(passwordHash string) {
	u.PasswordHash = passwordHash
	u.touch()
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.IsActive = false
	u.touch()
}

// Activate re-enables the account
func (u *User) Activate() {
	u.IsActive = true
	u.touch()
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// AssignDepartment places the user in a department
func (u *User) AssignDepartment(departmentID uuid.UUID) {
	u.DepartmentID = &departmentID
	u.touch()
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
