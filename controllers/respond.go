// Package controllers holds the response helpers shared by the handler
// packages beneath it.
package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Black25dvp/silverlux/models"
)

// UserIDKey is the gin context key the auth middleware stores the caller under.
const UserIDKey = "user_id"

// RoleKey holds the caller's role.
const RoleKey = "role"

// Status maps an error from the taxonomy in models to an HTTP status.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrRemote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Fail aborts the request with {"error": ...}. Remote and unclassified
// failures get a generic message; the cause is attached to the context for
// the request logger.
func Fail(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	switch status {
	case http.StatusBadGateway:
		msg = models.ErrRemote.Error()
	case http.StatusInternalServerError:
		msg = "internal error"
	case http.StatusNotFound:
		msg = models.ErrNotFound.Error()
	case http.StatusUnauthorized:
		msg = models.ErrNotAuthenticated.Error()
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// BindError turns a gin binding failure into a validation error with a
// readable message.
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.Invalid("malformed request body")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return models.Invalid(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// CurrentUser returns the authenticated caller, or "" when anonymous.
func CurrentUser(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
