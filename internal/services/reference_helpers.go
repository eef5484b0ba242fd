package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/models"
	"bizledger/internal/pagination"
)

// listPage runs a paginated query over a whole table.
func listPage[T any](db *gorm.DB, page pagination.PageRequest, order string, scopes ...func(*gorm.DB) *gorm.DB) (*pagination.PageResponse[T], error) {
	page.Defaults()

	base := db.Model(new(T)).Scopes(scopes...)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Storage(err)
	}

	var items []T
	if err := base.Scopes(pagination.Paginate(page)).Order(order).Find(&items).Error; err != nil {
		return nil, apperrors.Storage(err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// findByID loads a row or returns notFound.
func findByID[T any](db *gorm.DB, id string, notFound *apperrors.AppError) (*T, error) {
	var row T
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, apperrors.Storage(err)
	}
	return &row, nil
}

// ensureUnreferenced fails with inUse when any live transaction matches the
// condition.
func ensureUnreferenced(db *gorm.DB, inUse *apperrors.AppError, query string, args ...interface{}) error {
	var count int64
	if err := db.Model(&models.Transaction{}).Where(query, args...).Count(&count).Error; err != nil {
		return apperrors.Storage(err)
	}
	if count > 0 {
		return inUse
	}
	return nil
}
