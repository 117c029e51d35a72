package db

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/user/portfolio-api/auth"
	"github.com/user/portfolio-api/config"
	"github.com/user/portfolio-api/models"
)

// SeedAdmin creates the bootstrap administrator account when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured and no identity with that email exists yet.
// Re-running against a seeded database is a no-op.
func SeedAdmin(gdb *gorm.DB, adminCfg *config.AdminConfig, authCfg *config.AuthConfig) error {
	if adminCfg.Email == "" {
		return nil
	}

	var existing models.User
	err := gdb.Where("email = ?", adminCfg.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	digest, err := auth.HashPassword(adminCfg.Password, authCfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    adminCfg.Email,
		Password: digest,
		Role:     models.RoleAdmin,
		Provider: models.ProviderCredential,
	}
	if err := gdb.Create(&admin).Error; err != nil {
		return err
	}

	logrus.WithField("email", adminCfg.Email).Info("seeded administrator account")
	return nil
}
