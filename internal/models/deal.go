package models

import (
	"time"

	"gorm.io/gorm"
)

type DealStage string

const (
	DealStageProspect    DealStage = "PROSPECT"
	DealStageProposal    DealStage = "PROPOSAL"
	DealStageNegotiation DealStage = "NEGOTIATION"
	DealStageWon         DealStage = "WON"
	DealStageLost        DealStage = "LOST"
)

type Deal struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Value          int64          `gorm:"not null;default:0" json:"value"`
	Stage          DealStage      `gorm:"type:varchar(20);not null;default:'PROSPECT'" json:"stage"`
	LeadID         *uint64        `gorm:"index" json:"lead_id"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	UserID         uint64         `gorm:"not null;index" json:"user_id"`
	AssignedTo     *uint64        `gorm:"index" json:"assigned_to"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Lead         *Lead        `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	Creator      User         `gorm:"foreignKey:UserID" json:"creator,omitempty"`
	Assignee     *User        `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

// GetOrganizationID implements authz.Resource.
func (d Deal) GetOrganizationID() uint64 { return d.OrganizationID }

// GetCreatorID implements authz.Resource.
func (d Deal) GetCreatorID() uint64 { return d.UserID }

// GetAssigneeID implements authz.Resource.
func (d Deal) GetAssigneeID() (uint64, bool) {
	if d.AssignedTo == nil {
		return 0, false
	}
	return *d.AssignedTo, true
}
