package models

import "time"

// Role is a named trust level. System roles have a null OrganizationID and
// are shared across tenants; organization-scoped custom roles shadow a
// system role of the same name for that organization only.
type Role struct {
	ID             uint64  `gorm:"primarykey" json:"id"`
	Name           string  `gorm:"type:varchar(50);not null;index:idx_roles_org_name" json:"name"`
	OrganizationID *uint64 `gorm:"index:idx_roles_org_name" json:"organization_id"`
	IsSystemRole   bool    `gorm:"not null;default:false" json:"is_system_role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

// Permission identifies one allowed action on one resource type. Keys are
// opaque namespaced strings compared by equality only, e.g. "leads.write".
type Permission struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

type RolePermission struct {
	RoleID       uint64 `gorm:"primarykey" json:"role_id"`
	PermissionID uint64 `gorm:"primarykey" json:"permission_id"`
}
