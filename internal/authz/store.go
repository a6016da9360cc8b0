package authz

import (
	"errors"

	"github.com/yukikurage/sales-crm-api/internal/models"
)

var (
	// ErrNotFound is returned by Store implementations when a looked-up
	// record does not exist. Anything else a Store returns is treated as
	// an infrastructure failure and propagated, never as a deny.
	ErrNotFound = errors.New("record not found")

	// ErrContextUnavailable means the user has no owning relationship and
	// no team membership in the organization.
	ErrContextUnavailable = errors.New("user has no relationship to the organization")
)

// Store is the read-only storage collaborator the engine composes its
// decisions from. Implementations must return results in a deterministic
// order (earliest created first) wherever the engine picks "the first"
// record.
type Store interface {
	GetOrganization(id uint64) (*models.Organization, error)
	GetTeamsInOrganization(organizationID uint64) ([]models.Team, error)
	GetTeamsForUser(userID uint64) ([]models.Team, error)
	GetTeamMember(teamID, userID uint64) (*models.TeamMember, error)
	GetTeamMembers(teamID uint64) ([]models.TeamMember, error)

	// GetRoleByNameAndOrg resolves a role name for an organization: an
	// organization-scoped custom role wins over the system role of the
	// same name, and the system role is the fallback.
	GetRoleByNameAndOrg(name string, organizationID uint64) (*models.Role, error)
	GetRolePermissionKeys(roleID uint64) ([]string, error)

	// FirstOwnedOrganizationID returns the earliest-created organization
	// the user owns, FirstMemberOrganizationID the earliest-created
	// organization the user holds any team membership in.
	FirstOwnedOrganizationID(userID uint64) (uint64, error)
	FirstMemberOrganizationID(userID uint64) (uint64, error)
}
