package authz

// The role/permission catalog is fixed reference data: it is built once at
// package init, seeded into the database by the migration step, and never
// mutated at runtime. Runtime role customization goes through the roles
// table, not through this table.

// AllPermissionKeys lists every seeded permission key.
var AllPermissionKeys = []PermissionKey{
	PermLeadsRead,
	PermLeadsWrite,
	PermLeadsAssign,
	PermLeadsDelete,
	PermDealsRead,
	PermDealsWrite,
	PermDealsDelete,
	PermMembersInvite,
	PermTeamsManage,
	PermOrganizationManage,
	PermOrganizationDelete,
}

// systemRoleGrants maps each system role to its permission keys.
var systemRoleGrants = map[RoleName][]PermissionKey{
	RoleOwner: AllPermissionKeys,
	RoleAdmin: {
		PermLeadsRead, PermLeadsWrite, PermLeadsAssign, PermLeadsDelete,
		PermDealsRead, PermDealsWrite, PermDealsDelete,
		PermMembersInvite, PermTeamsManage, PermOrganizationManage,
	},
	RoleSalesManager: {
		PermLeadsRead, PermLeadsWrite, PermLeadsAssign, PermLeadsDelete,
		PermDealsRead, PermDealsWrite, PermDealsDelete,
		PermMembersInvite,
	},
	RoleSalesRep: {
		PermLeadsRead, PermLeadsWrite,
		PermDealsRead, PermDealsWrite,
	},
	RoleViewer: {
		PermLeadsRead,
		PermDealsRead,
	},
}

// SystemRoleGrants returns the seeded permission keys for a system role.
// The returned slice is a copy.
func SystemRoleGrants(role RoleName) []PermissionKey {
	grants, ok := systemRoleGrants[role]
	if !ok {
		return nil
	}
	out := make([]PermissionKey, len(grants))
	copy(out, grants)
	return out
}
