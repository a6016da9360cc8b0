package repository

import (
	"github.com/yukikurage/sales-crm-api/internal/database"
	"github.com/yukikurage/sales-crm-api/internal/models"
	"github.com/yukikurage/sales-crm-api/internal/utils"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// CreateWithDefaultTeam creates an organization, its default team, and the
// creator's owner membership atomically
func (r *GormOrganizationRepository) CreateWithDefaultTeam(org *models.Organization, team *models.Team, member *models.TeamMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}

		team.OrganizationID = org.ID
		team.OwnerID = org.OwnerID
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		member.TeamID = team.ID
		member.UserID = org.OwnerID
		return tx.Create(member).Error
	})
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByInviteCode finds an organization by invite code
func (r *GormOrganizationRepository) FindByInviteCode(code string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("invite_code = ?", code).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// Delete deletes an organization and all related data in a transaction
func (r *GormOrganizationRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Delete all leads and deals in the organization
		if err := tx.Where("organization_id = ?", id).Delete(&models.Deal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.Lead{}).Error; err != nil {
			return err
		}

		// Delete team memberships, then the teams themselves
		var teamIDs []uint64
		if err := tx.Model(&models.Team{}).Where("organization_id = ?", id).Pluck("id", &teamIDs).Error; err != nil {
			return err
		}
		if len(teamIDs) > 0 {
			if err := tx.Where("team_id IN ?", teamIDs).Delete(&models.TeamMember{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.Team{}).Error; err != nil {
			return err
		}

		// Delete org-scoped custom roles
		if err := tx.Where("organization_id = ?", id).Delete(&models.Role{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Organization{}, id).Error
	})
}

// ListForUser lists organizations the user owns or holds a team membership
// in, earliest created first
func (r *GormOrganizationRepository) ListForUser(userID uint64, params utils.PaginationParams) ([]models.Organization, error) {
	query := r.db.
		Distinct("organizations.*").
		Joins("LEFT JOIN teams ON teams.organization_id = organizations.id").
		Joins("LEFT JOIN team_members ON team_members.team_id = teams.id").
		Where("organizations.owner_id = ? OR team_members.user_id = ?", userID, userID).
		Order("organizations.created_at, organizations.id")

	if params.Limit > 0 {
		query = query.Scopes(database.Paginate(params))
	}

	var orgs []models.Organization
	if err := query.Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}
