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
	ErrLeadNotFound         = errors.New("lead not found")
	ErrLeadNameRequired     = errors.New("lead name is required")
	ErrLeadPermissionDenied = errors.New("user does not have permission to perform this action on the lead")
)

// LeadService handles lead business logic. Every operation is gated
// through the authorization context: reads through the scope policy,
// writes and deletes through the mutation policy, route-level actions
// through permission keys.
type LeadService struct {
	leadRepo repository.LeadRepository
	userRepo repository.UserRepository
}

// NewLeadService creates a new LeadService.
func NewLeadService(leadRepo repository.LeadRepository, userRepo repository.UserRepository) *LeadService {
	return &LeadService{
		leadRepo: leadRepo,
		userRepo: userRepo,
	}
}

// ListLeadsInput represents filters for listing leads.
type ListLeadsInput struct {
	Status     *models.LeadStatus
	Pagination utils.PaginationParams
}

// ListLeads returns the leads visible to the caller. The repository
// returns the organization's leads, the scope policy filters them, and
// only then is the page window cut. Paginating before the policy would
// push visible rows off the page.
func (s *LeadService) ListLeads(ctx *authz.OrganizationContext, input ListLeadsInput) ([]models.Lead, error) {
	filter := repository.LeadFilter{
		OrganizationID: ctx.OrganizationID(),
		Status:         input.Status,
	}

	leads, err := s.leadRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	visible := authz.VisibleResources(ctx, leads)
	return utils.PageSlice(visible, input.Pagination), nil
}

// GetLead returns a single lead if the caller may see it. Invisible leads
// read as not found so their existence does not leak.
func (s *LeadService) GetLead(ctx *authz.OrganizationContext, leadID uint64) (*models.Lead, error) {
	lead, err := s.findLead(leadID)
	if err != nil {
		return nil, err
	}

	if !authz.CanReadResource(ctx, *lead) {
		return nil, ErrLeadNotFound
	}

	return lead, nil
}

// CreateLeadInput represents input for creating a lead.
type CreateLeadInput struct {
	Name    string
	Company string
	Email   string
	Phone   string
	Status  models.LeadStatus
}

// CreateLead creates a lead owned by the caller.
func (s *LeadService) CreateLead(ctx *authz.OrganizationContext, input CreateLeadInput) (*models.Lead, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrLeadNameRequired
	}
	if !ctx.HasPermission(authz.PermLeadsWrite) {
		return nil, ErrLeadPermissionDenied
	}

	if input.Status == "" {
		input.Status = models.LeadStatusNew
	}

	lead := &models.Lead{
		Name:           input.Name,
		Company:        input.Company,
		Email:          input.Email,
		Phone:          input.Phone,
		Status:         input.Status,
		OrganizationID: ctx.OrganizationID(),
		UserID:         ctx.UserID(),
	}

	if err := s.leadRepo.Create(lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return lead, nil
}

// UpdateLeadInput represents input for updating a lead.
type UpdateLeadInput struct {
	Name    *string
	Company *string
	Email   *string
	Phone   *string
	Status  *models.LeadStatus
}

// UpdateLead updates a lead the caller may modify.
func (s *LeadService) UpdateLead(ctx *authz.OrganizationContext, leadID uint64, input UpdateLeadInput) (*models.Lead, error) {
	lead, err := s.findLead(leadID)
	if err != nil {
		return nil, err
	}

	if !authz.CanReadResource(ctx, *lead) {
		return nil, ErrLeadNotFound
	}
	if !authz.CanModifyResource(ctx, *lead) {
		return nil, ErrLeadPermissionDenied
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrLeadNameRequired
		}
		lead.Name = *input.Name
	}
	if input.Company != nil {
		lead.Company = *input.Company
	}
	if input.Email != nil {
		lead.Email = *input.Email
	}
	if input.Phone != nil {
		lead.Phone = *input.Phone
	}
	if input.Status != nil {
		lead.Status = *input.Status
	}

	if err := s.leadRepo.Update(lead); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	return lead, nil
}

// DeleteLead deletes a lead. The delete policy is stricter than modify:
// reps never delete, and managers need the creator in scope.
func (s *LeadService) DeleteLead(ctx *authz.OrganizationContext, leadID uint64) error {
	lead, err := s.findLead(leadID)
	if err != nil {
		return err
	}

	if !authz.CanReadResource(ctx, *lead) {
		return ErrLeadNotFound
	}
	if !authz.CanDeleteResource(ctx, *lead) {
		return ErrLeadPermissionDenied
	}

	if err := s.leadRepo.Delete(leadID); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	return nil
}

// AssignLead sets the lead's owner of record. Requires the leads.assign
// permission, modify rights on the lead, and an assignee inside the
// organization.
func (s *LeadService) AssignLead(ctx *authz.OrganizationContext, leadID, assigneeID uint64) (*models.Lead, error) {
	if !ctx.HasPermission(authz.PermLeadsAssign) {
		return nil, ErrLeadPermissionDenied
	}

	lead, err := s.findLead(leadID)
	if err != nil {
		return nil, err
	}

	if !authz.CanReadResource(ctx, *lead) {
		return nil, ErrLeadNotFound
	}
	if !authz.CanModifyResource(ctx, *lead) {
		return nil, ErrLeadPermissionDenied
	}

	count, err := s.userRepo.CountInOrganization([]uint64{assigneeID}, ctx.OrganizationID())
	if err != nil {
		return nil, fmt.Errorf("failed to verify assignee: %w", err)
	}
	if count != 1 {
		return nil, ErrAssigneeNotInOrg
	}

	lead.AssignedTo = &assigneeID
	if err := s.leadRepo.Update(lead); err != nil {
		return nil, fmt.Errorf("failed to assign lead: %w", err)
	}

	return lead, nil
}

func (s *LeadService) findLead(leadID uint64) (*models.Lead, error) {
	lead, err := s.leadRepo.FindByID(leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	return lead, nil
}
