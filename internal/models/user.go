// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	// RoleAdmin may manage every recipe, category, and user.
	RoleAdmin Role = "admin"
	// RoleSubAdmin is a restricted administrator scoped by an explicit
	// permission list (see User.Permissions).
	RoleSubAdmin Role = "sub_admin"
	// RoleWorker may create recipes and edit or delete their own.
	RoleWorker Role = "worker"
	// RoleGuest has read-only access; guests cannot author comments.
	RoleGuest Role = "guest"
)

// UserStatus marks whether an account may sign in.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Sub-admin permission names. Stored in User.Permissions.
const (
	PermApproveRecipes = "approve_recipes"
	PermManageUsers    = "manage_users"
	PermManageFolders  = "manage_folders"
)

// User represents an account with authentication and 2FA fields.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never serialize the hash
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	Permissions  []string   `json:"permissions,omitempty"` // Sub-admin scope; empty otherwise
	TOTPSecret   *string    `json:"-"`                     // Nullable; set during 2FA setup
	TOTPEnabled  bool       `json:"totp_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAdmin returns true if the user has the full admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if the account may sign in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Can reports whether the user holds the given permission. Admins hold
// every permission; sub-admins only what their list grants.
func (u *User) Can(perm string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	if u.Role != RoleSubAdmin {
		return false
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Needs2FASetup returns true if an admin has not completed 2FA enrollment.
// Admin and sub-admin accounts must set up 2FA on their first login.
func (u *User) Needs2FASetup() bool {
	return (u.Role == RoleAdmin || u.Role == RoleSubAdmin) && !u.TOTPEnabled
}
