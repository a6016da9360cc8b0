package models

import "time"

type TeamMember struct {
	TeamID   uint64 `gorm:"primarykey" json:"team_id"`
	UserID   uint64 `gorm:"primarykey" json:"user_id"`
	RoleID   *uint64 `gorm:"index" json:"role_id"`
	// LegacyRole carries the bare role string from before roles were
	// normalized into the roles table. Only read when RoleID is null.
	LegacyRole string    `gorm:"column:role;type:varchar(50)" json:"-"`
	JoinedAt   time.Time `json:"joined_at"`

	// Relations
	Team Team  `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// RoleName returns the member's role name, preferring the normalized
// role row over the legacy string column.
func (m *TeamMember) RoleName() string {
	if m.Role != nil && m.Role.Name != "" {
		return m.Role.Name
	}
	return m.LegacyRole
}
