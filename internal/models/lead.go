package models

import (
	"time"

	"gorm.io/gorm"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusLost      LeadStatus = "LOST"
)

type Lead struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Company        string         `gorm:"type:varchar(255)" json:"company"`
	Email          string         `gorm:"type:varchar(255)" json:"email"`
	Phone          string         `gorm:"type:varchar(50)" json:"phone"`
	Status         LeadStatus     `gorm:"type:varchar(20);not null;default:'NEW'" json:"status"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	UserID         uint64         `gorm:"not null;index" json:"user_id"`
	AssignedTo     *uint64        `gorm:"index" json:"assigned_to"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Creator      User         `gorm:"foreignKey:UserID" json:"creator,omitempty"`
	Assignee     *User        `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

// GetOrganizationID implements authz.Resource.
func (l Lead) GetOrganizationID() uint64 { return l.OrganizationID }

// GetCreatorID implements authz.Resource.
func (l Lead) GetCreatorID() uint64 { return l.UserID }

// GetAssigneeID implements authz.Resource.
func (l Lead) GetAssigneeID() (uint64, bool) {
	if l.AssignedTo == nil {
		return 0, false
	}
	return *l.AssignedTo, true
}
