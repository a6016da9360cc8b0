package dto

import (
	"time"

	"github.com/yukikurage/sales-crm-api/internal/models"
)

// OrganizationDTO represents an organization in API responses. The invite
// code is only included for callers allowed to invite.
type OrganizationDTO struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	OwnerID    uint64    `json:"owner_id"`
	InviteCode string    `json:"invite_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToOrganizationDTO converts an organization model to DTO
func ToOrganizationDTO(org models.Organization, includeInviteCode bool) OrganizationDTO {
	dto := OrganizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		OwnerID:   org.OwnerID,
		CreatedAt: org.CreatedAt,
	}
	if includeInviteCode {
		dto.InviteCode = org.InviteCode
	}
	return dto
}

// OrganizationDetailDTO represents detailed organization information
type OrganizationDetailDTO struct {
	OrganizationDTO
	Teams    []TeamDTO `json:"teams"`
	YourRole string    `json:"your_role"`
}

// ToOrganizationDetailDTO converts an organization with teams to a detailed DTO
func ToOrganizationDetailDTO(org models.Organization, teams []models.Team, yourRole string, includeInviteCode bool) OrganizationDetailDTO {
	teamDTOs := make([]TeamDTO, len(teams))
	for i, team := range teams {
		teamDTOs[i] = ToTeamDTO(team)
	}

	return OrganizationDetailDTO{
		OrganizationDTO: ToOrganizationDTO(org, includeInviteCode),
		Teams:           teamDTOs,
		YourRole:        yourRole,
	}
}
