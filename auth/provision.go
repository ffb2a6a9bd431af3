package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/models"
)

const (
	StatusCreated = "created"
	StatusExists  = "exists"
)

// ErrNotConfigured is returned when no identity provider is wired in.
var ErrNotConfigured = errors.New("server not configured")

// ProvisionAdmin creates the account with the provider (an existing account
// is fine) and records email as an admin. It reports StatusCreated or
// StatusExists.
func ProvisionAdmin(ctx context.Context, db *gorm.DB, provider Provider, email, password string) (string, error) {
	if provider == nil {
		return "", ErrNotConfigured
	}
	email = strings.ToLower(strings.TrimSpace(email))

	status := StatusCreated
	if _, err := provider.CreateUser(ctx, email, password); err != nil {
		if !errors.Is(err, ErrUserExists) {
			return "", err
		}
		status = StatusExists
	}

	admin := models.Admin{Email: email}
	if err := db.WithContext(ctx).Where(models.Admin{Email: email}).FirstOrCreate(&admin).Error; err != nil {
		return "", models.Remote("record admin", err)
	}
	return status, nil
}

// RoleFor reports the role a signed-in email is entitled to.
func RoleFor(ctx context.Context, db *gorm.DB, superAdminEmail, email string) (models.Role, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if superAdminEmail != "" && strings.EqualFold(email, superAdminEmail) {
		return models.RoleAdmin, nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return "", errors.Wrap(err, "look up admin")
	}
	if count > 0 {
		return models.RoleAdmin, nil
	}
	return models.RoleUser, nil
}
