// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"mizan/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := "test-create@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create(ctx, email, "testpass123", "Test User", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Email != email {
		t.Errorf("email: got %q, want %q", user.Email, email)
	}
	if user.DisplayName != "Test User" {
		t.Errorf("display name: got %q, want %q", user.DisplayName, "Test User")
	}
	if user.Role != models.RoleEditor {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleEditor)
	}
	if user.TOTPEnabled {
		t.Error("expected totp_enabled=false for new user")
	}
	if user.PasswordHash == "" {
		t.Error("expected non-empty password hash")
	}
	if user.PasswordHash == "testpass123" {
		t.Error("password hash must not be plaintext")
	}
}

func TestUserStoreFindByEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := "test-findbyemail@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	// Not found case.
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for non-existent user")
	}

	created, err := s.Create(ctx, email, "pass", "Find Me", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err = s.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", user.ID, created.ID)
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := "test-checkpass@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, _ := s.Create(ctx, email, "correct-password", "PW Check", models.RoleEditor)

	if !s.CheckPassword(user, "correct-password") {
		t.Error("expected CheckPassword to return true for correct password")
	}
	if s.CheckPassword(user, "wrong-password") {
		t.Error("expected CheckPassword to return false for wrong password")
	}
	if s.CheckPassword(user, "") {
		t.Error("expected CheckPassword to return false for empty password")
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := "test-totp@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, _ := s.Create(ctx, email, "pass", "TOTP User", models.RoleEditor)

	if user.TOTPSecret != nil {
		t.Error("expected nil TOTP secret initially")
	}
	if user.TOTPEnabled {
		t.Error("expected TOTP disabled initially")
	}

	if err := s.SetTOTPSecret(ctx, user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}

	user, _ = s.FindByID(ctx, user.ID)
	if user.TOTPSecret == nil || *user.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("expected TOTP secret set, got %v", user.TOTPSecret)
	}
	if user.TOTPEnabled {
		t.Error("TOTP should not be enabled yet (just set secret)")
	}

	if err := s.EnableTOTP(ctx, user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	user, _ = s.FindByID(ctx, user.ID)
	if !user.TOTPEnabled {
		t.Error("expected TOTP enabled after EnableTOTP")
	}

	if err := s.ResetTOTP(ctx, user.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}

	user, _ = s.FindByID(ctx, user.ID)
	if user.TOTPSecret != nil {
		t.Error("expected nil TOTP secret after reset")
	}
	if user.TOTPEnabled {
		t.Error("expected TOTP disabled after reset")
	}
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	email := "test-dupe@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	_, err := s.Create(ctx, email, "pass", "First", models.RoleEditor)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err = s.Create(ctx, email, "pass", "Second", models.RoleEditor)
	if err == nil {
		t.Error("expected error for duplicate email, got nil")
	}
}
