package authz

// RoleName is a canonical, case-sensitive role identifier. The set of
// system roles is closed; organization-scoped custom roles may reuse these
// names but never introduce new semantics in the policy predicates — any
// name outside this set is treated as unknown and denied everything.
type RoleName string

const (
	RoleOwner        RoleName = "OWNER"
	RoleAdmin        RoleName = "ADMIN"
	RoleSalesManager RoleName = "SALES_MANAGER"
	RoleSalesRep     RoleName = "SALES_REP"
	RoleViewer       RoleName = "VIEWER"
)

// SystemRoleNames lists every seeded system role.
var SystemRoleNames = []RoleName{
	RoleOwner,
	RoleAdmin,
	RoleSalesManager,
	RoleSalesRep,
	RoleViewer,
}

// PermissionKey is an opaque namespaced action identifier, compared by
// equality only. Convention: "<resource-plural>.<action>".
type PermissionKey string

const (
	PermLeadsRead          PermissionKey = "leads.read"
	PermLeadsWrite         PermissionKey = "leads.write"
	PermLeadsAssign        PermissionKey = "leads.assign"
	PermLeadsDelete        PermissionKey = "leads.delete"
	PermDealsRead          PermissionKey = "deals.read"
	PermDealsWrite         PermissionKey = "deals.write"
	PermDealsDelete        PermissionKey = "deals.delete"
	PermMembersInvite      PermissionKey = "members.invite"
	PermTeamsManage        PermissionKey = "teams.manage"
	PermOrganizationManage PermissionKey = "organization.manage"
	PermOrganizationDelete PermissionKey = "organization.delete"
)
