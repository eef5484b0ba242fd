package services

import (
	"encoding/json"

	"bizledger/internal/logger"
	"bizledger/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit actions recorded by the handlers.
const (
	AuditCreateTransaction  = "CREATE_TRANSACTION"
	AuditUpdateTransaction  = "UPDATE_TRANSACTION"
	AuditApproveTransaction = "APPROVE_TRANSACTION"
	AuditRejectTransaction  = "REJECT_TRANSACTION"
	AuditDeleteTransaction  = "DELETE_TRANSACTION"
	AuditCreateUser         = "CREATE_USER"
	AuditSetUserStatus      = "SET_USER_STATUS"
	AuditLogin              = "LOGIN"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	var changesJSON datatypes.JSON
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			data = []byte("{}")
		}
		changesJSON = datatypes.JSON(data)
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
