package dto

import (
	"time"

	"github.com/yukikurage/sales-crm-api/internal/models"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	OrganizationID uint64    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToTeamDTO converts a team model to DTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:             team.ID,
		Name:           team.Name,
		OrganizationID: team.OrganizationID,
		CreatedAt:      team.CreatedAt,
	}
}

// TeamMemberDTO represents a team member in API responses
type TeamMemberDTO struct {
	User     UserDTO   `json:"user"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ToTeamMemberDTO converts a team member to DTO
func ToTeamMemberDTO(member models.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.RoleName(),
		JoinedAt: member.JoinedAt,
	}
}

// ToTeamMemberDTOs converts a slice of team members to DTOs
func ToTeamMemberDTOs(members []models.TeamMember) []TeamMemberDTO {
	dtos := make([]TeamMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToTeamMemberDTO(member)
	}
	return dtos
}
