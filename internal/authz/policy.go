package authz

// Resource is any domain entity the read/mutation policies govern. A
// resource has a creating user (owner of record) and optionally a current
// assignee.
type Resource interface {
	GetOrganizationID() uint64
	GetCreatorID() uint64
	GetAssigneeID() (uint64, bool)
}

// CanReadResource reports whether the context may see the resource.
// OWNER, ADMIN, and VIEWER see everything in their organization (VIEWER's
// read access is full even though it can mutate nothing); SALES_MANAGER
// sees resources created by or assigned to someone in its team scope;
// SALES_REP sees only its own. Unknown roles see nothing.
func CanReadResource(c *OrganizationContext, r Resource) bool {
	if c == nil || r.GetOrganizationID() != c.organizationID {
		return false
	}

	switch c.role {
	case RoleOwner, RoleAdmin, RoleViewer:
		return true
	case RoleSalesManager:
		return ownedInScope(c, r) || assignedInScope(c, r)
	case RoleSalesRep:
		return ownedBySelf(c, r) || assignedToSelf(c, r)
	default:
		return false
	}
}

// VisibleResources filters resources down to those CanReadResource accepts.
// The two always agree: this is the same predicate applied per element.
func VisibleResources[R Resource](c *OrganizationContext, resources []R) []R {
	visible := make([]R, 0, len(resources))
	for _, r := range resources {
		if CanReadResource(c, r) {
			visible = append(visible, r)
		}
	}
	return visible
}

// CanModifyResource reports whether the context may update the resource.
func CanModifyResource(c *OrganizationContext, r Resource) bool {
	if c == nil || r.GetOrganizationID() != c.organizationID {
		return false
	}

	switch c.role {
	case RoleOwner, RoleAdmin:
		return true
	case RoleViewer:
		return false
	case RoleSalesManager:
		return ownedInScope(c, r) || assignedInScope(c, r)
	case RoleSalesRep:
		return ownedBySelf(c, r) || assignedToSelf(c, r)
	default:
		return false
	}
}

// CanDeleteResource reports whether the context may delete the resource.
// Deliberately stricter than CanModifyResource: reps never delete, and a
// manager needs the resource's creator in scope — an in-scope assignee
// alone is not enough.
func CanDeleteResource(c *OrganizationContext, r Resource) bool {
	if c == nil || r.GetOrganizationID() != c.organizationID {
		return false
	}

	switch c.role {
	case RoleOwner, RoleAdmin:
		return true
	case RoleViewer, RoleSalesRep:
		return false
	case RoleSalesManager:
		return ownedInScope(c, r)
	default:
		return false
	}
}

func ownedBySelf(c *OrganizationContext, r Resource) bool {
	return r.GetCreatorID() == c.userID
}

func assignedToSelf(c *OrganizationContext, r Resource) bool {
	assignee, ok := r.GetAssigneeID()
	return ok && assignee == c.userID
}

func ownedInScope(c *OrganizationContext, r Resource) bool {
	return c.InTeamScope(r.GetCreatorID())
}

func assignedInScope(c *OrganizationContext, r Resource) bool {
	assignee, ok := r.GetAssigneeID()
	return ok && c.InTeamScope(assignee)
}
