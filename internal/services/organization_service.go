package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/sales-crm-api/internal/authz"
	"github.com/yukikurage/sales-crm-api/internal/constants"
	"github.com/yukikurage/sales-crm-api/internal/models"
	"github.com/yukikurage/sales-crm-api/internal/repository"
	"github.com/yukikurage/sales-crm-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound       = errors.New("organization not found")
	ErrInvalidOrganizationName    = errors.New("organization name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyMember              = errors.New("user is already a member of this organization")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the organization")
	ErrCannotRemoveOwner          = errors.New("the organization owner cannot be removed")
	ErrMemberNotFound             = errors.New("organization member not found")
	ErrInvalidRoleName            = errors.New("role name cannot be empty")
	ErrRoleNameReserved           = errors.New("role name conflicts with a system role")
	ErrUnknownPermissionKey       = errors.New("unknown permission key")
)

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	orgRepo  repository.OrganizationRepository
	teamRepo repository.TeamRepository
	roleRepo repository.RoleRepository
	engine   *authz.Engine
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	teamRepo repository.TeamRepository,
	roleRepo repository.RoleRepository,
	engine *authz.Engine,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:  orgRepo,
		teamRepo: teamRepo,
		roleRepo: roleRepo,
		engine:   engine,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name    string
	OwnerID uint64
}

// CreateOrganization creates an organization together with its default team
// and the creator's owner membership. Ownership is already derivable from
// the organization row; the membership row exists so the owner shows up in
// team listings like everyone else.
func (s *OrganizationService) CreateOrganization(input CreateOrganizationInput) (*models.Organization, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	ownerRole, err := s.roleRepo.FindByNameAndOrg(string(authz.RoleOwner), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner role: %w", err)
	}

	org := &models.Organization{
		Name:       input.Name,
		OwnerID:    input.OwnerID,
		InviteCode: inviteCode,
	}
	team := &models.Team{
		Name: constants.DefaultTeamName,
	}
	member := &models.TeamMember{
		RoleID:   &ownerRole.ID,
		JoinedAt: time.Now(),
	}

	if err := s.orgRepo.CreateWithDefaultTeam(org, team, member); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return org, nil
}

// ListOrganizationsForUser returns organizations the user owns or belongs
// to, earliest created first.
func (s *OrganizationService) ListOrganizationsForUser(userID uint64, params utils.PaginationParams) ([]models.Organization, error) {
	orgs, err := s.orgRepo.ListForUser(userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// GetOrganizationWithTeams returns an organization and its teams.
func (s *OrganizationService) GetOrganizationWithTeams(orgID uint64) (*models.Organization, []models.Team, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrganizationNotFound
		}
		return nil, nil, fmt.Errorf("failed to find organization: %w", err)
	}

	teams, err := s.teamRepo.ListByOrganization(orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list teams: %w", err)
	}

	return org, teams, nil
}

// UpdateOrganizationName updates an organization's name.
func (s *OrganizationService) UpdateOrganizationName(orgID uint64, name string) (*models.Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	org.Name = name
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// DeleteOrganization removes an organization and everything in it.
func (s *OrganizationService) DeleteOrganization(orgID uint64) error {
	if _, err := s.orgRepo.FindByID(orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to find organization: %w", err)
	}

	if err := s.orgRepo.Delete(orgID); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	return nil
}

// JoinOrganizationByInvite adds a user to the organization's default team
// as a SALES_REP via invite code.
func (s *OrganizationService) JoinOrganizationByInvite(userID uint64, inviteCode string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find organization by invite code: %w", err)
	}

	if _, err := s.engine.GetUserRole(userID, org.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, authz.ErrContextUnavailable) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	team, err := s.teamRepo.DefaultTeam(org.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find default team: %w", err)
	}

	repRole, err := s.roleRepo.FindByNameAndOrg(string(authz.RoleSalesRep), org.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve rep role: %w", err)
	}

	member := &models.TeamMember{
		TeamID:   team.ID,
		UserID:   userID,
		RoleID:   &repRole.ID,
		JoinedAt: time.Now(),
	}

	if err := s.teamRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return org, nil
}

// RegenerateInviteCode generates a new invite code for the organization.
func (s *OrganizationService) RegenerateInviteCode(orgID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	org.InviteCode = code
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return org, nil
}

// RemoveMember revokes every team membership the target holds in the
// organization.
func (s *OrganizationService) RemoveMember(orgID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to find organization: %w", err)
	}
	if org.OwnerID == targetID {
		return ErrCannotRemoveOwner
	}

	if _, err := s.engine.GetUserRole(targetID, orgID); err != nil {
		if errors.Is(err, authz.ErrContextUnavailable) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	if err := s.teamRepo.RemoveUserFromOrganization(orgID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// RoleWithPermissions pairs a role with its granted permission keys.
type RoleWithPermissions struct {
	Role           models.Role `json:"role"`
	PermissionKeys []string    `json:"permission_keys"`
}

// ListRoles returns the roles assignable within the organization: the
// shared system roles plus the organization's own custom roles.
func (s *OrganizationService) ListRoles(orgID uint64) ([]RoleWithPermissions, error) {
	roles, err := s.roleRepo.ListForOrganization(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	out := make([]RoleWithPermissions, len(roles))
	for i, role := range roles {
		keys, err := s.roleRepo.PermissionKeys(role.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load role permissions: %w", err)
		}
		out[i] = RoleWithPermissions{Role: role, PermissionKeys: keys}
	}
	return out, nil
}

// CreateCustomRoleInput represents parameters for an org-scoped custom role.
type CreateCustomRoleInput struct {
	OrganizationID uint64
	Name           string
	PermissionKeys []string
}

// CreateCustomRole creates an organization-scoped role. The role is only
// ever resolved for its own organization, so it can safely reuse a system
// role's permission keys without leaking into other tenants.
func (s *OrganizationService) CreateCustomRole(input CreateCustomRoleInput) (*models.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidRoleName
	}
	for _, sys := range authz.SystemRoleNames {
		if name == string(sys) {
			return nil, ErrRoleNameReserved
		}
	}

	known := make(map[string]struct{}, len(authz.AllPermissionKeys))
	for _, key := range authz.AllPermissionKeys {
		known[string(key)] = struct{}{}
	}
	for _, key := range input.PermissionKeys {
		if _, ok := known[key]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPermissionKey, key)
		}
	}

	role := &models.Role{
		Name:           name,
		OrganizationID: &input.OrganizationID,
		IsSystemRole:   false,
	}

	if err := s.roleRepo.Create(role, input.PermissionKeys); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	return role, nil
}
