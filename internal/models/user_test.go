package models

import "testing"

// TestUserCan verifies permission checks across roles.
func TestUserCan(t *testing.T) {
	tests := []struct {
		name string
		user User
		perm string
		want bool
	}{
		{name: "admin holds everything", user: User{Role: RoleAdmin}, perm: PermManageUsers, want: true},
		{name: "worker holds nothing", user: User{Role: RoleWorker}, perm: PermManageUsers, want: false},
		{name: "guest holds nothing", user: User{Role: RoleGuest}, perm: PermApproveRecipes, want: false},
		{
			name: "sub-admin with granted permission",
			user: User{Role: RoleSubAdmin, Permissions: []string{PermApproveRecipes, PermManageFolders}},
			perm: PermManageFolders,
			want: true,
		},
		{
			name: "sub-admin without granted permission",
			user: User{Role: RoleSubAdmin, Permissions: []string{PermApproveRecipes}},
			perm: PermManageUsers,
			want: false,
		},
		{name: "sub-admin with empty list", user: User{Role: RoleSubAdmin}, perm: PermApproveRecipes, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Can(tt.perm); got != tt.want {
				t.Errorf("Can(%q) = %v, want %v", tt.perm, got, tt.want)
			}
		})
	}
}

// TestUserNeeds2FASetup verifies that only admin-level accounts are forced
// through 2FA enrollment.
func TestUserNeeds2FASetup(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		enabled bool
		want    bool
	}{
		{name: "admin without totp", role: RoleAdmin, enabled: false, want: true},
		{name: "admin with totp", role: RoleAdmin, enabled: true, want: false},
		{name: "sub-admin without totp", role: RoleSubAdmin, enabled: false, want: true},
		{name: "worker without totp", role: RoleWorker, enabled: false, want: false},
		{name: "guest without totp", role: RoleGuest, enabled: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role, TOTPEnabled: tt.enabled}
			if got := u.Needs2FASetup(); got != tt.want {
				t.Errorf("Needs2FASetup() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestUserIsActive verifies the account status gate.
func TestUserIsActive(t *testing.T) {
	tests := []struct {
		name   string
		status UserStatus
		want   bool
	}{
		{name: "active", status: UserStatusActive, want: true},
		{name: "inactive", status: UserStatusInactive, want: false},
		{name: "empty", status: UserStatus(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Status: tt.status}
			if got := u.IsActive(); got != tt.want {
				t.Errorf("User{Status: %q}.IsActive() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
