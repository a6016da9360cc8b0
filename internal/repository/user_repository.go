package repository

import (
	"github.com/yukikurage/sales-crm-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountInOrganization counts how many of the given user IDs own the
// organization or hold a membership in one of its teams
func (r *GormUserRepository) CountInOrganization(userIDs []uint64, organizationID uint64) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.Model(&models.User{}).
		Distinct("users.id").
		Joins("LEFT JOIN team_members ON team_members.user_id = users.id").
		Joins("LEFT JOIN teams ON teams.id = team_members.team_id AND teams.organization_id = ?", organizationID).
		Joins("LEFT JOIN organizations ON organizations.id = ? AND organizations.owner_id = users.id", organizationID).
		Where("users.id IN ?", userIDs).
		Where("teams.id IS NOT NULL OR organizations.id IS NOT NULL").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
