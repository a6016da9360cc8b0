package authz

import "sort"

// OrganizationContext is the resolved authorization state for one
// (user, organization) pair. It is computed fresh per request by
// Engine.GetContext, is immutable afterwards, and is never persisted or
// shared across requests.
type OrganizationContext struct {
	organizationID uint64
	userID         uint64
	role           RoleName
	permissions    map[PermissionKey]struct{}
	teamMemberIDs  map[uint64]struct{}
}

func (c *OrganizationContext) OrganizationID() uint64 { return c.organizationID }
func (c *OrganizationContext) UserID() uint64         { return c.userID }
func (c *OrganizationContext) Role() RoleName         { return c.role }

// HasPermission reports whether the permission key is in the resolved set.
// Pure set membership, no I/O.
func (c *OrganizationContext) HasPermission(key PermissionKey) bool {
	_, ok := c.permissions[key]
	return ok
}

// HasAnyPermission reports whether at least one of the keys is granted.
func (c *OrganizationContext) HasAnyPermission(keys ...PermissionKey) bool {
	for _, key := range keys {
		if c.HasPermission(key) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every key is granted.
func (c *OrganizationContext) HasAllPermissions(keys ...PermissionKey) bool {
	for _, key := range keys {
		if !c.HasPermission(key) {
			return false
		}
	}
	return true
}

// Permissions returns the resolved permission keys, sorted. The slice is a
// copy.
func (c *OrganizationContext) Permissions() []PermissionKey {
	keys := make([]PermissionKey, 0, len(c.permissions))
	for key := range c.permissions {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// InTeamScope reports whether the user ID is inside the caller's deputized
// team scope. Always false for roles other than SALES_MANAGER.
func (c *OrganizationContext) InTeamScope(userID uint64) bool {
	_, ok := c.teamMemberIDs[userID]
	return ok
}

// TeamMemberIDs returns the deputized user IDs, sorted. The slice is a
// copy; nil for roles without a team scope.
func (c *OrganizationContext) TeamMemberIDs() []uint64 {
	if c.teamMemberIDs == nil {
		return nil
	}
	ids := make([]uint64, 0, len(c.teamMemberIDs))
	for id := range c.teamMemberIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
