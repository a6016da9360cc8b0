package repository

import (
	"errors"

	"github.com/yukikurage/sales-crm-api/internal/authz"
	"github.com/yukikurage/sales-crm-api/internal/models"
	"gorm.io/gorm"
)

// AuthzStore is the GORM implementation of authz.Store. It translates
// gorm.ErrRecordNotFound into authz.ErrNotFound so the engine can tell
// missing data apart from infrastructure failure, and orders every list by
// (created_at, id) so "first" picks are deterministic.
type AuthzStore struct {
	db *gorm.DB
}

// NewAuthzStore creates a new AuthzStore
func NewAuthzStore(db *gorm.DB) *AuthzStore {
	return &AuthzStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return authz.ErrNotFound
	}
	return err
}

func (s *AuthzStore) GetOrganization(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, id).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

func (s *AuthzStore) GetTeamsInOrganization(organizationID uint64) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.
		Where("organization_id = ?", organizationID).
		Order("created_at, id").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *AuthzStore) GetTeamsForUser(userID uint64) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.created_at, teams.id").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *AuthzStore) GetTeamMember(teamID, userID uint64) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := s.db.Preload("Role").
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

func (s *AuthzStore) GetTeamMembers(teamID uint64) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := s.db.
		Where("team_id = ?", teamID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (s *AuthzStore) GetRoleByNameAndOrg(name string, organizationID uint64) (*models.Role, error) {
	var role models.Role
	err := s.db.
		Where("name = ? AND organization_id = ?", name, organizationID).
		First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.db.
		Where("name = ? AND organization_id IS NULL", name).
		First(&role).Error; err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (s *AuthzStore) GetRolePermissionKeys(roleID uint64) ([]string, error) {
	var keys []string
	err := s.db.Model(&models.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Pluck("permissions.key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *AuthzStore) FirstOwnedOrganizationID(userID uint64) (uint64, error) {
	var org models.Organization
	if err := s.db.
		Where("owner_id = ?", userID).
		Order("created_at, id").
		First(&org).Error; err != nil {
		return 0, translate(err)
	}
	return org.ID, nil
}

func (s *AuthzStore) FirstMemberOrganizationID(userID uint64) (uint64, error) {
	var org models.Organization
	err := s.db.
		Joins("JOIN teams ON teams.organization_id = organizations.id").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("organizations.created_at, organizations.id").
		First(&org).Error
	if err != nil {
		return 0, translate(err)
	}
	return org.ID, nil
}

var _ authz.Store = (*AuthzStore)(nil)
