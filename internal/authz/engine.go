package authz

import (
	"errors"
	"fmt"
)

// Engine resolves roles, permissions, and team scope for users. It holds no
// mutable state: every method is a short sequence of reads against the
// Store followed by pure computation, so concurrent use needs no locking.
type Engine struct {
	store Store
}

// NewEngine creates a new Engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// GetUserRole determines the user's effective role in the organization.
// Ownership of the organization is authoritative and wins over any stored
// membership; otherwise the role of the user's first team membership in the
// organization is used. Returns ErrContextUnavailable when the user has no
// relationship to the organization.
func (e *Engine) GetUserRole(userID, organizationID uint64) (RoleName, error) {
	org, err := e.store.GetOrganization(organizationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("organization %d: %w", organizationID, ErrNotFound)
		}
		return "", fmt.Errorf("failed to load organization: %w", err)
	}

	if org.OwnerID == userID {
		return RoleOwner, nil
	}

	teams, err := e.store.GetTeamsForUser(userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user teams: %w", err)
	}

	for _, team := range teams {
		if team.OrganizationID != organizationID {
			continue
		}
		member, err := e.store.GetTeamMember(team.ID, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return "", fmt.Errorf("failed to load team member: %w", err)
		}
		return RoleName(member.RoleName()), nil
	}

	return "", ErrContextUnavailable
}

// GetUserPermissions resolves the user's permission key set in the
// organization. A user without a role, or with a role that has no stored
// definition, gets the empty set rather than an error.
func (e *Engine) GetUserPermissions(userID, organizationID uint64) (map[PermissionKey]struct{}, error) {
	role, err := e.GetUserRole(userID, organizationID)
	if err != nil {
		if errors.Is(err, ErrContextUnavailable) {
			return map[PermissionKey]struct{}{}, nil
		}
		return nil, err
	}
	return e.permissionsForRole(role, organizationID)
}

// HasPermission reports whether the user holds the permission key in the
// organization.
func (e *Engine) HasPermission(userID, organizationID uint64, key PermissionKey) (bool, error) {
	perms, err := e.GetUserPermissions(userID, organizationID)
	if err != nil {
		return false, err
	}
	_, ok := perms[key]
	return ok, nil
}

// GetTeamMemberIDs computes the set of user IDs the caller is deputized
// over: the union of the member IDs of every team in the organization on
// which the caller holds SALES_MANAGER specifically. Membership on a team
// under any other role contributes nothing.
func (e *Engine) GetTeamMemberIDs(userID, organizationID uint64) (map[uint64]struct{}, error) {
	teams, err := e.store.GetTeamsInOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization teams: %w", err)
	}

	ids := make(map[uint64]struct{})
	for _, team := range teams {
		member, err := e.store.GetTeamMember(team.ID, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load team member: %w", err)
		}
		if RoleName(member.RoleName()) != RoleSalesManager {
			continue
		}

		members, err := e.store.GetTeamMembers(team.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team members: %w", err)
		}
		for _, m := range members {
			ids[m.UserID] = struct{}{}
		}
	}

	return ids, nil
}

// GetContext assembles the full authorization context for the user. A zero
// organizationID selects the user's primary organization: the earliest
// created one they own, else the earliest created one they belong to.
// Returns ErrContextUnavailable when role resolution finds no relationship.
func (e *Engine) GetContext(userID, organizationID uint64) (*OrganizationContext, error) {
	if organizationID == 0 {
		primary, err := e.primaryOrganizationID(userID)
		if err != nil {
			return nil, err
		}
		organizationID = primary
	}

	role, err := e.GetUserRole(userID, organizationID)
	if err != nil {
		return nil, err
	}

	permissions, err := e.permissionsForRole(role, organizationID)
	if err != nil {
		return nil, err
	}

	ctx := &OrganizationContext{
		organizationID: organizationID,
		userID:         userID,
		role:           role,
		permissions:    permissions,
	}

	if role == RoleSalesManager {
		scope, err := e.GetTeamMemberIDs(userID, organizationID)
		if err != nil {
			return nil, err
		}
		ctx.teamMemberIDs = scope
	}

	return ctx, nil
}

func (e *Engine) primaryOrganizationID(userID uint64) (uint64, error) {
	orgID, err := e.store.FirstOwnedOrganizationID(userID)
	if err == nil {
		return orgID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, fmt.Errorf("failed to find owned organization: %w", err)
	}

	orgID, err = e.store.FirstMemberOrganizationID(userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrContextUnavailable
		}
		return 0, fmt.Errorf("failed to find member organization: %w", err)
	}
	return orgID, nil
}

func (e *Engine) permissionsForRole(role RoleName, organizationID uint64) (map[PermissionKey]struct{}, error) {
	roleRow, err := e.store.GetRoleByNameAndOrg(string(role), organizationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Unknown or corrupted role names fail closed.
			return map[PermissionKey]struct{}{}, nil
		}
		return nil, fmt.Errorf("failed to load role %q: %w", role, err)
	}

	keys, err := e.store.GetRolePermissionKeys(roleRow.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role permissions: %w", err)
	}

	set := make(map[PermissionKey]struct{}, len(keys))
	for _, key := range keys {
		set[PermissionKey(key)] = struct{}{}
	}
	return set, nil
}
