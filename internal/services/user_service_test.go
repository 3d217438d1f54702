package services

import (
	"context"
	"testing"

	"riskhub/internal/models"
	"riskhub/internal/pagination"
	"riskhub/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("first_user_becomes_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewUserService(db)

		first, err := service.CreateUser(ctx, "Ada", "ada@example.com", "password123")
		testutil.AssertNoError(t, err)
		if first.Role != models.RoleAdmin {
			t.Errorf("expected first user to be admin, got %s", first.Role)
		}

		second, err := service.CreateUser(ctx, "Grace", "grace@example.com", "password123")
		testutil.AssertNoError(t, err)
		if second.Role != models.RoleTeamMember {
			t.Errorf("expected later users to be team members, got %s", second.Role)
		}
	})

	t.Run("email_is_normalized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewUserService(db)

		user, err := service.CreateUser(ctx, "Ada", "Ada@Example.COM", "password123")
		testutil.AssertNoError(t, err)
		if user.Email != "ada@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewUserService(db)

		_, err := service.CreateUser(ctx, "Ada", "ada@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = service.CreateUser(ctx, "Imposter", "ADA@example.com", "otherpassword")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewUserService(db)

		_, err := service.CreateUser(ctx, "Nobody", "", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = service.CreateUser(ctx, "Nobody", "nobody@example.com", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		service := NewUserService(db)

		user, err := service.CreateUser(ctx, "Ada", "ada@example.com", "password123")
		testutil.AssertNoError(t, err)
		if user.Password == "password123" {
			t.Error("password stored in plaintext")
		}
		if !service.VerifyPassword(user, "password123") {
			t.Error("expected stored hash to verify against the original password")
		}
		if service.VerifyPassword(user, "wrong") {
			t.Error("expected wrong password to fail verification")
		}
	})
}

func TestAttemptLogin(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewUserService(db)

	created, err := service.CreateUser(ctx, "Ada", "ada@example.com", "password123")
	testutil.AssertNoError(t, err)

	t.Run("success_records_login_time", func(t *testing.T) {
		user, err := service.AttemptLogin(ctx, "ada@example.com", "password123")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %s, got %s", created.ID, user.ID)
		}
		if user.LastLoginAt == nil {
			t.Error("expected last login time to be recorded")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := service.AttemptLogin(ctx, "ada@example.com", "nope")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := service.AttemptLogin(ctx, "ghost@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestRefreshTokenHash(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("round_trip", func(t *testing.T) {
		testutil.AssertNoError(t, service.StoreRefreshTokenHash(ctx, user.ID, "abc123"))

		hash, err := service.GetRefreshTokenHash(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if hash != "abc123" {
			t.Errorf("expected stored hash, got %q", hash)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		err := service.StoreRefreshTokenHash(ctx, "00000000-0000-7000-8000-000000000000", "abc123")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("promotes_to_risk_manager", func(t *testing.T) {
		updated, err := service.UpdateUserRole(ctx, user.ID, models.RoleRiskManager)
		testutil.AssertNoError(t, err)
		if updated.Role != models.RoleRiskManager {
			t.Errorf("expected role risk_manager, got %s", updated.Role)
		}

		var stored models.User
		testutil.AssertNoError(t, db.First(&stored, "id = ?", user.ID).Error)
		if stored.Role != models.RoleRiskManager {
			t.Errorf("expected stored role risk_manager, got %s", stored.Role)
		}
	})

	t.Run("unknown_role", func(t *testing.T) {
		_, err := service.UpdateUserRole(ctx, user.ID, models.Role("superuser"))
		testutil.AssertAppError(t, err, "INVALID_ROLE")
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := service.UpdateUserRole(ctx, "00000000-0000-7000-8000-000000000000", models.RoleViewer)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewUserService(db)

	testutil.CreateTestUserWithRole(t, db, models.RoleAdmin)
	testutil.CreateTestUser(t, db)
	testutil.CreateTestUser(t, db)

	result, err := service.ListUsers(ctx, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 3 {
		t.Errorf("expected 3 users, got %d", result.TotalItems)
	}
}
