package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new category. Names are unique across the ledger.
func (s *categoryService) CreateCategory(name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, "name", "category name is required")
	}
	if err := s.checkNameFree(name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, Description: description}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Storage(err)
	}
	return category, nil
}

func (s *categoryService) checkNameFree(name, exceptID string) error {
	q := s.db.Unscoped().Model(&models.Category{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperrors.Storage(err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// ListCategories returns a page of categories ordered by name.
func (s *categoryService) ListCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	return listPage[models.Category](s.db, page, "name ASC")
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(id string) (*models.Category, error) {
	return findByID[models.Category](s.db, id, apperrors.ErrCategoryNotFound)
}

// UpdateCategory updates a category's name and description.
func (s *categoryService) UpdateCategory(id string, name, description *string) (*models.Category, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.WithField(apperrors.ErrInvalidInput, "name", "category name cannot be empty")
		}
		if trimmed != category.Name {
			if err := s.checkNameFree(trimmed, id); err != nil {
				return nil, err
			}
		}
		updates["name"] = trimmed
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Storage(err)
		}
	}
	return s.GetCategoryByID(id)
}

// DeleteCategory deletes a category no transaction uses.
func (s *categoryService) DeleteCategory(id string) error {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return err
	}
	if err := ensureUnreferenced(s.db, apperrors.ErrCategoryInUse, "category_id = ?", id); err != nil {
		return err
	}
	return apperrors.Storage(s.db.Delete(category).Error)
}
