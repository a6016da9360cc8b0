package repository

import (
	"github.com/yukikurage/sales-crm-api/internal/models"
	"github.com/yukikurage/sales-crm-api/internal/utils"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// CreateWithDefaultTeam creates an organization, its default team, and
	// the creator's owner membership within a single transaction.
	CreateWithDefaultTeam(org *models.Organization, team *models.Team, member *models.TeamMember) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code
	FindByInviteCode(code string) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete deletes an organization and all related data
	Delete(id uint64) error

	// ListForUser lists organizations the user owns or belongs to,
	// earliest created first. The membership filter lives in SQL, so the
	// page window is applied in SQL too.
	ListForUser(userID uint64, params utils.PaginationParams) ([]models.Organization, error)
}

// TeamRepository defines the interface for team and membership data access
type TeamRepository interface {
	// Create creates a new team
	Create(team *models.Team) error

	// FindByID finds a team by ID
	FindByID(id uint64) (*models.Team, error)

	// ListByOrganization lists teams in an organization, earliest created first
	ListByOrganization(organizationID uint64) ([]models.Team, error)

	// DefaultTeam returns the earliest created team of an organization
	DefaultTeam(organizationID uint64) (*models.Team, error)

	// AddMember adds a member to a team
	AddMember(member *models.TeamMember) error

	// RemoveMember removes a member from a team
	RemoveMember(teamID, userID uint64) error

	// FindMember finds a specific team member with its role preloaded
	FindMember(teamID, userID uint64) (*models.TeamMember, error)

	// ListMembers lists all members of a team with users and roles preloaded
	ListMembers(teamID uint64) ([]models.TeamMember, error)

	// RemoveUserFromOrganization removes every membership the user holds
	// across the organization's teams
	RemoveUserFromOrganization(organizationID, userID uint64) error
}

// RoleRepository defines the interface for role reference data access
type RoleRepository interface {
	// Create creates an organization-scoped custom role with permissions
	Create(role *models.Role, permissionKeys []string) error

	// FindByNameAndOrg resolves a role name for an organization, preferring
	// the org-scoped row over the system row
	FindByNameAndOrg(name string, organizationID uint64) (*models.Role, error)

	// ListForOrganization lists system roles plus the organization's custom roles
	ListForOrganization(organizationID uint64) ([]models.Role, error)

	// PermissionKeys returns the permission keys granted to a role
	PermissionKeys(roleID uint64) ([]string, error)
}

// LeadFilter holds filtering options for listing leads
type LeadFilter struct {
	OrganizationID uint64
	Status         *models.LeadStatus
	AssignedTo     *uint64
}

// LeadRepository defines the interface for lead data access
type LeadRepository interface {
	Create(lead *models.Lead) error
	FindByID(id uint64, preload ...string) (*models.Lead, error)
	List(filter LeadFilter) ([]models.Lead, error)
	Update(lead *models.Lead) error
	Delete(id uint64) error
}

// DealFilter holds filtering options for listing deals
type DealFilter struct {
	OrganizationID uint64
	Stage          *models.DealStage
}

// DealRepository defines the interface for deal data access
type DealRepository interface {
	Create(deal *models.Deal) error
	FindByID(id uint64, preload ...string) (*models.Deal, error)
	List(filter DealFilter) ([]models.Deal, error)
	Update(deal *models.Deal) error
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// CountInOrganization counts how many of the given user IDs hold a
	// membership in (or own) the organization
	CountInOrganization(userIDs []uint64, organizationID uint64) (int64, error)
}
