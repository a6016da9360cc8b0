package repository

import (
	"github.com/yukikurage/sales-crm-api/internal/models"
	"gorm.io/gorm"
)

// GormDealRepository is a GORM implementation of DealRepository
type GormDealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a new DealRepository
func NewDealRepository(db *gorm.DB) DealRepository {
	return &GormDealRepository{db: db}
}

// Create creates a new deal
func (r *GormDealRepository) Create(deal *models.Deal) error {
	return r.db.Create(deal).Error
}

// FindByID finds a deal by ID with optional preloading
func (r *GormDealRepository) FindByID(id uint64, preload ...string) (*models.Deal, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var deal models.Deal
	if err := query.First(&deal, id).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}

// List retrieves every matching deal in the organization. Pagination is
// applied above the repository, after the visibility policy has filtered
// the rows.
func (r *GormDealRepository) List(filter DealFilter) ([]models.Deal, error) {
	query := r.db.Where("organization_id = ?", filter.OrganizationID)

	if filter.Stage != nil {
		query = query.Where("stage = ?", *filter.Stage)
	}

	var deals []models.Deal
	if err := query.Order("created_at, id").Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// Update updates a deal
func (r *GormDealRepository) Update(deal *models.Deal) error {
	return r.db.Save(deal).Error
}

// Delete soft deletes a deal
func (r *GormDealRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Deal{}, id).Error
}
