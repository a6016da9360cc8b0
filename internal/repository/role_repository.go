package repository

import (
	"errors"

	"github.com/yukikurage/sales-crm-api/internal/models"
	"gorm.io/gorm"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// Create creates an organization-scoped custom role and links its permissions
func (r *GormRoleRepository) Create(role *models.Role, permissionKeys []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}

		for _, key := range permissionKeys {
			var perm models.Permission
			if err := tx.Where("permissions.key = ?", key).First(&perm).Error; err != nil {
				return err
			}
			link := models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByNameAndOrg resolves a role name for an organization. The org-scoped
// custom role wins; the system role (null organization_id) is the fallback.
// Looking up by bare name alone would let one organization's custom role
// definition leak into another's resolution.
func (r *GormRoleRepository) FindByNameAndOrg(name string, organizationID uint64) (*models.Role, error) {
	var role models.Role
	err := r.db.
		Where("name = ? AND organization_id = ?", name, organizationID).
		First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.
		Where("name = ? AND organization_id IS NULL", name).
		First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListForOrganization lists system roles plus the organization's custom roles
func (r *GormRoleRepository) ListForOrganization(organizationID uint64) ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.
		Where("organization_id IS NULL OR organization_id = ?", organizationID).
		Order("created_at, id").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// PermissionKeys returns the permission keys granted to a role
func (r *GormRoleRepository) PermissionKeys(roleID uint64) ([]string, error) {
	var keys []string
	err := r.db.Model(&models.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Pluck("permissions.key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}
