package db

import (
	"errors"
	"fmt"

	"github.com/ikkim/shopadmin-backend/config"
	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/ikkim/shopadmin-backend/pkg/util"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Customer{},
		&model.ProductType{},
		&model.Product{},
		&model.DeliveryOption{},
		&model.Order{},
		&model.OrderItem{},
		&model.Bundle{},
		&model.BundleProduct{},
		&model.Collection{},
		&model.CollectionProduct{},
		&model.PricingConfig{},
		&model.MailingListEntry{},
		&model.HomepageSetting{},
	}
}

// Migrate creates or updates the schema, including the partial unique indexes declared on the models.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// EnsureSuperAdmin creates the bootstrap super admin when no active super admin exists.
// It returns false when nothing was created.
func EnsureSuperAdmin(db *gorm.DB, cfg config.AdminConfig) (bool, error) {
	if cfg.Password == "" {
		logger.Warn("ADMIN_PASSWORD not set, skipping super admin bootstrap")
		return false, nil
	}

	var existing model.User
	err := db.Where("role = ? AND is_deleted = ?", model.RoleSuperAdmin, false).First(&existing).Error
	if err == nil {
		logger.Debug("Super admin already present, skipping bootstrap", map[string]interface{}{
			"user_id": existing.ID,
		})
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up super admin: %w", err)
	}

	hash, err := util.HashPassword(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := model.User{
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: hash,
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to create super admin: %w", err)
	}

	logger.Info("Super admin created", map[string]interface{}{
		"user_id":  admin.ID,
		"username": admin.Username,
	})
	return true, nil
}
