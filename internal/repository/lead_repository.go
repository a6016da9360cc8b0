package repository

import (
	"github.com/yukikurage/sales-crm-api/internal/models"
	"gorm.io/gorm"
)

// GormLeadRepository is a GORM implementation of LeadRepository
type GormLeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &GormLeadRepository{db: db}
}

// Create creates a new lead
func (r *GormLeadRepository) Create(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

// FindByID finds a lead by ID with optional preloading
func (r *GormLeadRepository) FindByID(id uint64, preload ...string) (*models.Lead, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var lead models.Lead
	if err := query.First(&lead, id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List retrieves every matching lead in the organization. Visibility
// filtering and pagination happen above the repository: the page window
// has to be cut from the policy-filtered set, so paginating here in SQL
// would drop rows the caller is entitled to see.
func (r *GormLeadRepository) List(filter LeadFilter) ([]models.Lead, error) {
	query := r.db.Where("organization_id = ?", filter.OrganizationID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}

	var leads []models.Lead
	if err := query.Order("created_at, id").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// Update updates a lead
func (r *GormLeadRepository) Update(lead *models.Lead) error {
	return r.db.Save(lead).Error
}

// Delete soft deletes a lead
func (r *GormLeadRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Lead{}, id).Error
}
