package services

import (
	"testing"

	"bizledger/internal/models"
	"bizledger/internal/pagination"
	"bizledger/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alice", "alice@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected a user ID")
		}
		if user.Role != models.RoleTeam {
			t.Errorf("expected default team role, got %s", user.Role)
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
		if user.PasswordHash == "password123" {
			t.Error("password must be hashed")
		}
	})

	t.Run("admin_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Root", "root@example.com", "password123", models.RoleAdmin)
		testutil.AssertNoError(t, err)
		if user.Role != models.RoleAdmin {
			t.Errorf("expected admin, got %s", user.Role)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "dup@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("", "DUP@example.com", "password456", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("invalid_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "", "password123", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("", "short@example.com", "short", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateUser("", "role@example.com", "password123", "owner")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("", "Alice@EXAMPLE.COM", "password123", "")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})
}

func TestAttemptLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db)

	t.Run("valid", func(t *testing.T) {
		got, err := svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, got.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.AttemptLogin(user.Email, "wrong-password")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := svc.AttemptLogin("nobody@example.com", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("inactive", func(t *testing.T) {
		admin := Actor{UserID: testutil.CreateTestAdmin(t, db).ID, Role: models.RoleAdmin}
		_, err := svc.SetUserActive(admin, user.ID, false)
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin(user.Email, testutil.TestPassword)
		testutil.AssertAppError(t, err, "USER_INACTIVE")

		_, err = svc.GetUserByEmail(user.Email)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestSetUserActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	admin := testutil.CreateTestAdmin(t, db)
	member := testutil.CreateTestUser(t, db)
	adminActor := Actor{UserID: admin.ID, Role: models.RoleAdmin}

	t.Run("team_member_forbidden", func(t *testing.T) {
		_, err := svc.SetUserActive(Actor{UserID: member.ID, Role: models.RoleTeam}, admin.ID, false)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})

	t.Run("cannot_deactivate_self", func(t *testing.T) {
		_, err := svc.SetUserActive(adminActor, admin.ID, false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("reactivate", func(t *testing.T) {
		_, err := svc.SetUserActive(adminActor, member.ID, false)
		testutil.AssertNoError(t, err)
		user, err := svc.SetUserActive(adminActor, member.ID, true)
		testutil.AssertNoError(t, err)
		if !user.IsActive {
			t.Error("expected active user")
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := svc.SetUserActive(adminActor, "00000000-0000-0000-0000-000000000000", true)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	testutil.CreateTestUser(t, db)
	testutil.CreateTestAdmin(t, db)

	page, err := svc.ListUsers(pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 2 || len(page.Data) != 2 {
		t.Errorf("expected 2 users, got %d", page.TotalItems)
	}
}
