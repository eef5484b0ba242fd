package seed

import (
	"testing"

	"bizledger/internal/models"
	"bizledger/internal/testutil"
)

const fixtureYAML = `
admin:
  name: Finance Admin
  email: Admin@Example.com
  password: password123
users:
  - name: Priya
    email: priya@example.com
    password: password123
companies:
  - name: Acme Pvt Ltd
    description: Holding entity
  - name: Globex Services
categories:
  - name: Rent
  - name: Consulting
clients:
  - name: Initech
    email: ap@initech.test
bank_accounts:
  - name: HDFC Current
    initial_balance: "250000.50"
  - name: Petty Cash
`

func TestParse(t *testing.T) {
	t.Run("valid fixture", func(t *testing.T) {
		f, err := Parse([]byte(fixtureYAML))
		testutil.AssertNoError(t, err)
		if len(f.Companies) != 2 || len(f.BankAccounts) != 2 {
			t.Errorf("unexpected fixture %+v", f)
		}
		if f.BankAccounts[0].InitialBalance != "250000.50" {
			t.Errorf("unexpected balance %q", f.BankAccounts[0].InitialBalance)
		}
	})

	tests := []struct {
		name string
		yaml string
	}{
		{"missing admin", "companies:\n  - name: Acme\n"},
		{"unknown key", "admin:\n  email: a@b.c\n  password: password123\nwidgets: []\n"},
		{"bad role", "admin:\n  email: a@b.c\n  password: password123\nusers:\n  - email: x@b.c\n    password: password123\n    role: owner\n"},
		{"bad balance", "admin:\n  email: a@b.c\n  password: password123\nbank_accounts:\n  - name: X\n    initial_balance: \"1.005\"\n"},
		{"unnamed account", "admin:\n  email: a@b.c\n  password: password123\nbank_accounts:\n  - initial_balance: \"10\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestApply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	f, err := Parse([]byte(fixtureYAML))
	testutil.AssertNoError(t, err)

	t.Run("first run creates everything", func(t *testing.T) {
		res, err := Apply(db, f)
		testutil.AssertNoError(t, err)
		// 2 users + 2 companies + 2 categories + 1 client + 2 accounts
		if res.Created != 9 || res.Skipped != 0 {
			t.Errorf("expected 9 created / 0 skipped, got %+v", res)
		}

		var admin models.User
		if err := db.Where("email = ?", "admin@example.com").First(&admin).Error; err != nil {
			t.Fatalf("admin not created: %v", err)
		}
		if admin.Role != models.RoleAdmin {
			t.Errorf("expected admin role, got %q", admin.Role)
		}

		var priya models.User
		db.Where("email = ?", "priya@example.com").First(&priya)
		if priya.Role != models.RoleTeam {
			t.Errorf("expected default team role, got %q", priya.Role)
		}

		var acct models.BankAccount
		if err := db.Where("account_name = ?", "HDFC Current").First(&acct).Error; err != nil {
			t.Fatalf("bank account not created: %v", err)
		}
		testutil.AssertDecimal(t, "current balance", acct.CurrentBalance, "250000.50")
		if acct.CreatedBy != admin.ID {
			t.Errorf("expected account created by admin %s, got %s", admin.ID, acct.CreatedBy)
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		res, err := Apply(db, f)
		testutil.AssertNoError(t, err)
		if res.Created != 0 || res.Skipped != 9 {
			t.Errorf("expected 0 created / 9 skipped, got %+v", res)
		}

		var companies int64
		db.Model(&models.Company{}).Count(&companies)
		if companies != 2 {
			t.Errorf("expected 2 companies, got %d", companies)
		}
	})
}
