package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/sales-crm-api/internal/authz"
	"github.com/yukikurage/sales-crm-api/internal/models"
	"github.com/yukikurage/sales-crm-api/internal/repository"
	"github.com/yukikurage/sales-crm-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrDealNotFound         = errors.New("deal not found")
	ErrDealTitleRequired    = errors.New("deal title is required")
	ErrDealPermissionDenied = errors.New("user does not have permission to perform this action on the deal")
)

// DealService handles deal business logic, gated through the same policy
// predicates as leads.
type DealService struct {
	dealRepo repository.DealRepository
	leadRepo repository.LeadRepository
}

// NewDealService creates a new DealService.
func NewDealService(dealRepo repository.DealRepository, leadRepo repository.LeadRepository) *DealService {
	return &DealService{
		dealRepo: dealRepo,
		leadRepo: leadRepo,
	}
}

// ListDealsInput represents filters for listing deals.
type ListDealsInput struct {
	Stage      *models.DealStage
	Pagination utils.PaginationParams
}

// ListDeals returns the deals visible to the caller, paginated after the
// visibility policy has run.
func (s *DealService) ListDeals(ctx *authz.OrganizationContext, input ListDealsInput) ([]models.Deal, error) {
	filter := repository.DealFilter{
		OrganizationID: ctx.OrganizationID(),
		Stage:          input.Stage,
	}

	deals, err := s.dealRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	visible := authz.VisibleResources(ctx, deals)
	return utils.PageSlice(visible, input.Pagination), nil
}

// GetDeal returns a single deal if the caller may see it.
func (s *DealService) GetDeal(ctx *authz.OrganizationContext, dealID uint64) (*models.Deal, error) {
	deal, err := s.findDeal(dealID)
	if err != nil {
		return nil, err
	}

	if !authz.CanReadResource(ctx, *deal) {
		return nil, ErrDealNotFound
	}

	return deal, nil
}

// CreateDealInput represents input for creating a deal.
type CreateDealInput struct {
	Title  string
	Value  int64
	Stage  models.DealStage
	LeadID *uint64
}

// CreateDeal creates a deal owned by the caller, optionally linked to a
// lead the caller can see.
func (s *DealService) CreateDeal(ctx *authz.OrganizationContext, input CreateDealInput) (*models.Deal, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrDealTitleRequired
	}
	if !ctx.HasPermission(authz.PermDealsWrite) {
		return nil, ErrDealPermissionDenied
	}

	if input.LeadID != nil {
		lead, err := s.leadRepo.FindByID(*input.LeadID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLeadNotFound
			}
			return nil, fmt.Errorf("failed to find lead: %w", err)
		}
		if !authz.CanReadResource(ctx, *lead) {
			return nil, ErrLeadNotFound
		}
	}

	if input.Stage == "" {
		input.Stage = models.DealStageProspect
	}

	deal := &models.Deal{
		Title:          input.Title,
		Value:          input.Value,
		Stage:          input.Stage,
		LeadID:         input.LeadID,
		OrganizationID: ctx.OrganizationID(),
		UserID:         ctx.UserID(),
	}

	if err := s.dealRepo.Create(deal); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	return deal, nil
}

// UpdateDealInput represents input for updating a deal.
type UpdateDealInput struct {
	Title *string
	Value *int64
	Stage *models.DealStage
}

// UpdateDeal updates a deal the caller may modify.
func (s *DealService) UpdateDeal(ctx *authz.OrganizationContext, dealID uint64, input UpdateDealInput) (*models.Deal, error) {
	deal, err := s.findDeal(dealID)
	if err != nil {
		return nil, err
	}

	if !authz.CanReadResource(ctx, *deal) {
		return nil, ErrDealNotFound
	}
	if !authz.CanModifyResource(ctx, *deal) {
		return nil, ErrDealPermissionDenied
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrDealTitleRequired
		}
		deal.Title = *input.Title
	}
	if input.Value != nil {
		deal.Value = *input.Value
	}
	if input.Stage != nil {
		deal.Stage = *input.Stage
	}

	if err := s.dealRepo.Update(deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	return deal, nil
}

// DeleteDeal deletes a deal under the stricter delete policy.
func (s *DealService) DeleteDeal(ctx *authz.OrganizationContext, dealID uint64) error {
	deal, err := s.findDeal(dealID)
	if err != nil {
		return err
	}

	if !authz.CanReadResource(ctx, *deal) {
		return ErrDealNotFound
	}
	if !authz.CanDeleteResource(ctx, *deal) {
		return ErrDealPermissionDenied
	}

	if err := s.dealRepo.Delete(dealID); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	return nil
}

func (s *DealService) findDeal(dealID uint64) (*models.Deal, error) {
	deal, err := s.dealRepo.FindByID(dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to find deal: %w", err)
	}
	return deal, nil
}
