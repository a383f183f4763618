// Package authz decides whether a caller may act on a task.
//
// It is the single place where ownership-or-admin access is decided. The
// functions are pure: no I/O, no state. The task service and the live task
// feed both consult it; nothing else implements its own check.
package authz

import (
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/novatasks-api/internal/domain"
)

// ErrNotAuthorized is returned when the gate denies an action.
var ErrNotAuthorized = errors.New("not authorized")

// Action is an operation on a single task.
type Action string

const (
	ActionRead   Action = "read"
	ActionModify Action = "modify"
	ActionDelete Action = "delete"
)

// Decision is the outcome of a permit check.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// Permit allows an action iff the caller is an admin or owns the task.
// The same rule applies to every action.
func Permit(caller domain.Caller, task *domain.Task, action Action) Decision {
	if task == nil {
		return Deny
	}
	if caller.IsAdmin() {
		return Allow
	}
	if caller.ID != uuid.Nil && caller.ID == task.OwnerID {
		return Allow
	}
	return Deny
}

// Authorize is Permit expressed as an error.
func Authorize(caller domain.Caller, task *domain.Task, action Action) error {
	if Permit(caller, task, action) == Deny {
		return ErrNotAuthorized
	}
	return nil
}

// PermitUser allows changes to a user account by the account holder or an admin.
func PermitUser(caller domain.Caller, userID uuid.UUID) Decision {
	if caller.IsAdmin() {
		return Allow
	}
	return Decision(caller.ID != uuid.Nil && caller.ID == userID)
}

// Scope narrows a task listing.
type Scope struct {
	all     bool
	ownerID uuid.UUID
}

// ScopeAll matches every task.
func ScopeAll() Scope {
	return Scope{all: true}
}

// ScopeOwned matches the tasks owned by ownerID.
func ScopeOwned(ownerID uuid.UUID) Scope {
	return Scope{ownerID: ownerID}
}

// All reports whether the scope covers every task.
func (s Scope) All() bool {
	return s.all
}

// OwnerID returns the owner a non-all scope is restricted to.
func (s Scope) OwnerID() (uuid.UUID, bool) {
	if s.all {
		return uuid.Nil, false
	}
	return s.ownerID, true
}

// ScopeFor returns the listing scope for caller: everything for admins,
// otherwise only the caller's own tasks.
func ScopeFor(caller domain.Caller) Scope {
	if caller.IsAdmin() {
		return ScopeAll()
	}
	return ScopeOwned(caller.ID)
}
