package database

import (
	"errors"
	"fmt"

	"github.com/yukikurage/sales-crm-api/internal/authz"
	"github.com/yukikurage/sales-crm-api/internal/models"
	"gorm.io/gorm"
)

// SeedRoles installs the system role and permission reference data. The
// catalog in the authz package is the single source of truth; seeding is
// idempotent so it can run on every startup. Runtime code never mutates
// these rows.
func SeedRoles(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		permIDs := make(map[authz.PermissionKey]uint64, len(authz.AllPermissionKeys))
		for _, key := range authz.AllPermissionKeys {
			var perm models.Permission
			err := tx.Where("permissions.key = ?", string(key)).First(&perm).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				perm = models.Permission{Key: string(key)}
				if err := tx.Create(&perm).Error; err != nil {
					return fmt.Errorf("failed to create permission %q: %w", key, err)
				}
			} else if err != nil {
				return err
			}
			permIDs[key] = perm.ID
		}

		for _, name := range authz.SystemRoleNames {
			var role models.Role
			err := tx.Where("name = ? AND organization_id IS NULL", string(name)).First(&role).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				role = models.Role{Name: string(name), IsSystemRole: true}
				if err := tx.Create(&role).Error; err != nil {
					return fmt.Errorf("failed to create role %q: %w", name, err)
				}
			} else if err != nil {
				return err
			}

			for _, key := range authz.SystemRoleGrants(name) {
				link := models.RolePermission{RoleID: role.ID, PermissionID: permIDs[key]}
				err := tx.Where(&link).First(&models.RolePermission{}).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					if err := tx.Create(&link).Error; err != nil {
						return fmt.Errorf("failed to link role %q to %q: %w", name, key, err)
					}
				} else if err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// SystemRoleID returns the ID of a seeded system role.
func SystemRoleID(db *gorm.DB, name authz.RoleName) (uint64, error) {
	var role models.Role
	if err := db.Where("name = ? AND organization_id IS NULL", string(name)).First(&role).Error; err != nil {
		return 0, fmt.Errorf("system role %q not seeded: %w", name, err)
	}
	return role.ID, nil
}
