package store

import (
	"context"
	"testing"

	"rezepta/internal/models"
)

func TestUserCreateAndFind(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserStore(db)

	u := newTestUser(t, db, models.RoleWorker)

	byEmail, err := users.FindByEmail(ctx, u.Email)
	if err != nil || byEmail == nil {
		t.Fatalf("find user by email: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Error("expected same user by email")
	}

	missing, err := users.FindByEmail(ctx, "nobody@rezepta.test")
	if err != nil {
		t.Fatalf("find missing user: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown email")
	}
}

func TestUserCheckPassword(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	u := newTestUser(t, db, models.RoleWorker)

	if !users.CheckPassword(u, "test-password") {
		t.Error("expected correct password to verify")
	}
	if users.CheckPassword(u, "wrong-password") {
		t.Error("expected wrong password to fail")
	}
}

func TestUserUpdateAccess(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserStore(db)

	u := newTestUser(t, db, models.RoleWorker)

	perms := []string{models.PermApproveRecipes, models.PermManageFolders}
	err := users.UpdateAccess(ctx, u.ID, models.RoleSubAdmin, models.UserStatusActive, perms)
	if err != nil {
		t.Fatalf("update access: %v", err)
	}

	found, err := users.FindByID(ctx, u.ID)
	if err != nil || found == nil {
		t.Fatalf("find user: %v", err)
	}
	if found.Role != models.RoleSubAdmin {
		t.Errorf("expected role sub_admin, got %q", found.Role)
	}
	if !found.Can(models.PermApproveRecipes) {
		t.Error("expected sub-admin to hold granted permission")
	}
	if found.Can(models.PermManageUsers) {
		t.Error("expected ungranted permission to be denied")
	}

	// Deactivation.
	err = users.UpdateAccess(ctx, u.ID, models.RoleSubAdmin, models.UserStatusInactive, perms)
	if err != nil {
		t.Fatalf("deactivate user: %v", err)
	}
	found, err = users.FindByID(ctx, u.ID)
	if err != nil || found == nil {
		t.Fatalf("find user: %v", err)
	}
	if found.IsActive() {
		t.Error("expected user to be inactive")
	}
}

func TestUserTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	users := NewUserStore(db)

	u := newTestUser(t, db, models.RoleAdmin)
	if !u.Needs2FASetup() {
		t.Fatal("expected fresh admin to need 2FA setup")
	}

	if err := users.SetTOTPSecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("set totp secret: %v", err)
	}
	if err := users.EnableTOTP(ctx, u.ID); err != nil {
		t.Fatalf("enable totp: %v", err)
	}

	found, err := users.FindByID(ctx, u.ID)
	if err != nil || found == nil {
		t.Fatalf("find user: %v", err)
	}
	if !found.TOTPEnabled {
		t.Error("expected totp to be enabled")
	}
	if found.Needs2FASetup() {
		t.Error("expected enrolled admin to not need setup")
	}

	if err := users.ResetTOTP(ctx, u.ID); err != nil {
		t.Fatalf("reset totp: %v", err)
	}
	found, err = users.FindByID(ctx, u.ID)
	if err != nil || found == nil {
		t.Fatalf("find user: %v", err)
	}
	if found.TOTPEnabled || found.TOTPSecret != nil {
		t.Error("expected totp to be cleared after reset")
	}
}
