package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

func (s *clientService) CreateClient(fields ClientFields) (*models.Client, error) {
	if fields.Name == nil || strings.TrimSpace(*fields.Name) == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "name", "client name is required")
	}

	client := &models.Client{}
	applyClientFields(client, fields)
	if err := s.db.Create(client).Error; err != nil {
		return nil, apperrors.Storage(err)
	}
	return client, nil
}

// ListClients returns clients ordered by name, optionally narrowed by a
// case-insensitive search on name, email or company name.
func (s *clientService) ListClients(page pagination.PageRequest, search string) (*pagination.PageResponse[models.Client], error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return listPage[models.Client](s.db, page, "name ASC")
	}
	like := "%" + strings.ToLower(search) + "%"
	return listPage[models.Client](s.db, page, "name ASC", func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(company_name) LIKE ?", like, like, like)
	})
}

func (s *clientService) GetClientByID(id string) (*models.Client, error) {
	return findByID[models.Client](s.db, id, apperrors.ErrClientNotFound)
}

func (s *clientService) UpdateClient(id string, fields ClientFields) (*models.Client, error) {
	client, err := s.GetClientByID(id)
	if err != nil {
		return nil, err
	}
	if fields.Name != nil && strings.TrimSpace(*fields.Name) == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "name", "client name cannot be empty")
	}

	applyClientFields(client, fields)
	if err := s.db.Save(client).Error; err != nil {
		return nil, apperrors.Storage(err)
	}
	return client, nil
}

// DeleteClient deletes a client no transaction references.
func (s *clientService) DeleteClient(id string) error {
	client, err := s.GetClientByID(id)
	if err != nil {
		return err
	}
	if err := ensureUnreferenced(s.db, apperrors.ErrClientInUse, "client_id = ?", id); err != nil {
		return err
	}
	return apperrors.Storage(s.db.Delete(client).Error)
}

func applyClientFields(c *models.Client, f ClientFields) {
	if f.Name != nil {
		c.Name = strings.TrimSpace(*f.Name)
	}
	if f.Email != nil {
		c.Email = strings.TrimSpace(*f.Email)
	}
	if f.Phone != nil {
		c.Phone = *f.Phone
	}
	if f.CompanyName != nil {
		c.CompanyName = *f.CompanyName
	}
	if f.Notes != nil {
		c.Notes = *f.Notes
	}
}
