package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the access level of a user.
type Role string

const (
	// RoleUser is a standard user who may only see and change their own tasks.
	RoleUser Role = "user"
	// RoleAdmin may see and change every task.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name" validate:"required,max=100"`
	Email          string    `json:"email" validate:"required,email,max=255"`
	Role           Role      `json:"role" validate:"oneof=user admin"`
	Password       string    `json:"-" validate:"omitempty,min=6,max=72"` // Plaintext, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a new User with a fresh ID and timestamps.
// An empty role defaults to RoleUser. Email is normalized to lower case.
//
// The caller is responsible for hashing the password before the user is stored.
func NewUser(name, email, password string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      role,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if err := validateStruct(u); err != nil {
		return err
	}
	if u.Password == "" && u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrValidation)
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Caller returns the identity used for authorization decisions.
func (u *User) Caller() Caller {
	return Caller{ID: u.ID, Role: u.Role}
}

// Caller is the authenticated principal issuing an operation.
type Caller struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
