// Package seed loads reference data from a YAML fixture into the ledger.
// Applying the same fixture twice leaves the database unchanged.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"bizledger/internal/logger"
	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/services"
)

// UserFixture is a login to create.
type UserFixture struct {
	Name     string      `yaml:"name"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     models.Role `yaml:"role"`
}

// NamedFixture is a company or category.
type NamedFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ClientFixture is a client record.
type ClientFixture struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	CompanyName string `yaml:"company_name"`
	Notes       string `yaml:"notes"`
}

// BankAccountFixture is a bank account with its opening balance.
type BankAccountFixture struct {
	Name           string `yaml:"name"`
	InitialBalance string `yaml:"initial_balance"`
}

// Fixture is the whole seed file.
type Fixture struct {
	Admin        UserFixture          `yaml:"admin"`
	Users        []UserFixture        `yaml:"users"`
	Companies    []NamedFixture       `yaml:"companies"`
	Categories   []NamedFixture       `yaml:"categories"`
	Clients      []ClientFixture      `yaml:"clients"`
	BankAccounts []BankAccountFixture `yaml:"bank_accounts"`
}

// Result counts the rows created and skipped by Apply.
type Result struct {
	Created int
	Skipped int
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a fixture. Unknown keys are rejected so typos
// do not silently drop data.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	if f.Admin.Email == "" || f.Admin.Password == "" {
		return errors.New("admin.email and admin.password are required")
	}
	for i, u := range f.Users {
		if u.Email == "" || u.Password == "" {
			return fmt.Errorf("users[%d]: email and password are required", i)
		}
		if u.Role != "" && !u.Role.Valid() {
			return fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
	}
	for i, a := range f.BankAccounts {
		if a.Name == "" {
			return fmt.Errorf("bank_accounts[%d]: name is required", i)
		}
		if a.InitialBalance != "" {
			if _, err := money.ParseAmount(a.InitialBalance, money.AmountPlaces); err != nil {
				return fmt.Errorf("bank_accounts[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// Apply inserts every fixture row that does not exist yet, matching users by
// email and everything else by name. Soft-deleted rows count as existing, so a
// re-seed never resurrects deleted data. It runs in one database transaction.
func Apply(db *gorm.DB, f *Fixture) (*Result, error) {
	res := &Result{}
	err := db.Transaction(func(tx *gorm.DB) error {
		admin, err := ensureUser(tx, f.Admin, models.RoleAdmin, res)
		if err != nil {
			return err
		}
		for _, u := range f.Users {
			if _, err := ensureUser(tx, u, u.Role, res); err != nil {
				return err
			}
		}

		companies := services.NewCompanyService(tx)
		for _, c := range f.Companies {
			if err := ensure[models.Company](tx, c.Name, res, func() error {
				_, err := companies.CreateCompany(c.Name, c.Description)
				return err
			}); err != nil {
				return err
			}
		}

		categories := services.NewCategoryService(tx)
		for _, c := range f.Categories {
			if err := ensure[models.Category](tx, c.Name, res, func() error {
				_, err := categories.CreateCategory(c.Name, c.Description)
				return err
			}); err != nil {
				return err
			}
		}

		clients := services.NewClientService(tx)
		for _, c := range f.Clients {
			if err := ensure[models.Client](tx, c.Name, res, func() error {
				_, err := clients.CreateClient(services.ClientFields{
					Name:        &c.Name,
					Email:       &c.Email,
					Phone:       &c.Phone,
					CompanyName: &c.CompanyName,
					Notes:       &c.Notes,
				})
				return err
			}); err != nil {
				return err
			}
		}

		accounts := services.NewBankAccountService(tx)
		actor := services.Actor{UserID: admin.ID, Role: admin.Role}
		for _, a := range f.BankAccounts {
			balance := decimal.Zero
			if a.InitialBalance != "" {
				balance, _ = money.ParseAmount(a.InitialBalance, money.AmountPlaces)
			}
			if err := ensureBy[models.BankAccount](tx, "account_name", a.Name, res, func() error {
				_, err := accounts.CreateBankAccount(actor, a.Name, balance)
				return err
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("Seed applied", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func ensureUser(tx *gorm.DB, u UserFixture, role models.Role, res *Result) (*models.User, error) {
	var existing models.User
	err := tx.Where("email = ?", strings.ToLower(strings.TrimSpace(u.Email))).First(&existing).Error
	if err == nil {
		res.Skipped++
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name := u.Name
	if name == "" {
		name = u.Email
	}
	user, err := services.NewUserService(tx).CreateUser(name, u.Email, u.Password, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
	}
	res.Created++
	return user, nil
}

func ensure[T any](tx *gorm.DB, name string, res *Result, create func() error) error {
	return ensureBy[T](tx, "name", name, res, create)
}

func ensureBy[T any](tx *gorm.DB, column, value string, res *Result, create func() error) error {
	var count int64
	if err := tx.Unscoped().Model(new(T)).Where(column+" = ?", value).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		res.Skipped++
		return nil
	}
	if err := create(); err != nil {
		return fmt.Errorf("failed to create %q: %w", value, err)
	}
	res.Created++
	return nil
}
