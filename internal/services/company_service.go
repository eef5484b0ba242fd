package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

// companyService handles company reference data.
type companyService struct {
	db *gorm.DB
}

// NewCompanyService creates a new CompanyServicer.
func NewCompanyService(db *gorm.DB) CompanyServicer {
	return &companyService{db: db}
}

func (s *companyService) CreateCompany(name, description string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "name", "company name is required")
	}

	company := &models.Company{Name: name, Description: description}
	if err := s.db.Create(company).Error; err != nil {
		return nil, apperrors.Storage(err)
	}
	return company, nil
}

func (s *companyService) ListCompanies(page pagination.PageRequest) (*pagination.PageResponse[models.Company], error) {
	return listPage[models.Company](s.db, page, "name ASC")
}

func (s *companyService) GetCompanyByID(id string) (*models.Company, error) {
	return findByID[models.Company](s.db, id, apperrors.ErrCompanyNotFound)
}

func (s *companyService) UpdateCompany(id string, name, description *string) (*models.Company, error) {
	company, err := s.GetCompanyByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.WithField(apperrors.ErrInvalidInput, "name", "company name cannot be empty")
		}
		updates["name"] = trimmed
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) > 0 {
		if err := s.db.Model(company).Updates(updates).Error; err != nil {
			return nil, apperrors.Storage(err)
		}
	}
	return s.GetCompanyByID(id)
}

// DeleteCompany removes a company no transaction points at.
func (s *companyService) DeleteCompany(id string) error {
	company, err := s.GetCompanyByID(id)
	if err != nil {
		return err
	}
	if err := ensureUnreferenced(s.db, apperrors.ErrCompanyInUse, "company_id = ?", id); err != nil {
		return err
	}
	return apperrors.Storage(s.db.Delete(company).Error)
}
