package repository

import (
	"github.com/yukikurage/sales-crm-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListByOrganization lists teams in an organization, earliest created first
func (r *GormTeamRepository) ListByOrganization(organizationID uint64) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.
		Where("organization_id = ?", organizationID).
		Order("created_at, id").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// DefaultTeam returns the earliest created team of an organization
func (r *GormTeamRepository) DefaultTeam(organizationID uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.
		Where("organization_id = ?", organizationID).
		Order("created_at, id").
		First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// AddMember adds a member to a team
func (r *GormTeamRepository) AddMember(member *models.TeamMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a team
func (r *GormTeamRepository) RemoveMember(teamID, userID uint64) error {
	return r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error
}

// FindMember finds a specific team member with its role preloaded
func (r *GormTeamRepository) FindMember(teamID, userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Preload("Role").
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a team with users and roles preloaded
func (r *GormTeamRepository) ListMembers(teamID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := r.db.Preload("User").Preload("Role").
		Where("team_id = ?", teamID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveUserFromOrganization removes every membership the user holds across
// the organization's teams
func (r *GormTeamRepository) RemoveUserFromOrganization(organizationID, userID uint64) error {
	var teamIDs []uint64
	if err := r.db.Model(&models.Team{}).
		Where("organization_id = ?", organizationID).
		Pluck("id", &teamIDs).Error; err != nil {
		return err
	}
	if len(teamIDs) == 0 {
		return nil
	}
	return r.db.Where("team_id IN ? AND user_id = ?", teamIDs, userID).
		Delete(&models.TeamMember{}).Error
}
