package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/logger"
	"bizledger/internal/middleware"
	"bizledger/internal/models"
	"bizledger/internal/money"
	"bizledger/internal/services"
	"bizledger/internal/uuid"
)

// getActor extracts the authenticated user and role from the Gin context.
// Returns ErrUnauthorized if not present.
func getActor(c *gin.Context) (services.Actor, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return services.Actor{}, apperrors.ErrUnauthorized
	}
	role, _ := c.Get(middleware.RoleKey)
	r, _ := role.(models.Role)
	return services.Actor{UserID: userID, Role: r}, nil
}

// parsePathID reads a UUID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithField(apperrors.ErrInvalidInput, param, "Invalid "+param)
	}
	return id, nil
}

// parseFlexibleTime accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("invalid date format, expected YYYY-MM-DD or RFC 3339")
}

// parseDateRange reads the start_date and end_date query parameters. A plain
// end date covers that whole day.
func parseDateRange(c *gin.Context) (from, to *time.Time, err error) {
	if v := c.Query("start_date"); v != "" {
		t, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			return nil, nil, apperrors.WithField(apperrors.ErrInvalidInput, "start_date", parseErr.Error())
		}
		from = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			return nil, nil, apperrors.WithField(apperrors.ErrInvalidInput, "end_date", parseErr.Error())
		}
		if len(v) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, apperrors.WithField(apperrors.ErrInvalidInput, "end_date", "end_date must not be before start_date")
	}
	return from, to, nil
}

// parseDecimal parses a money or rate string from a request body.
func parseDecimal(s string, places int32, field string) (decimal.Decimal, error) {
	d, err := money.ParseAmount(s, places)
	if err != nil {
		return decimal.Zero, apperrors.WithField(apperrors.ErrInvalidInput, field, err.Error())
	}
	return d, nil
}

// optionalIDQuery returns a pointer to a UUID query value, or nil when absent.
func optionalIDQuery(c *gin.Context, key string) (*string, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, apperrors.WithField(apperrors.ErrInvalidInput, key, "Invalid "+key)
	}
	return &id, nil
}

// bindError turns a binding failure into an INVALID_INPUT response error,
// naming the first failing field when the validator reports one.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.WithField(apperrors.ErrInvalidInput, fe.Field(),
			fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, message and field. Otherwise
// it logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		body := gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		c.JSON(appErr.StatusCode, gin.H{"error": body})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
