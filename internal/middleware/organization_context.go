package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-crm-api/internal/authz"
	"github.com/yukikurage/sales-crm-api/internal/constants"
	apierrors "github.com/yukikurage/sales-crm-api/internal/errors"
)

// RequireOrganizationContext resolves the caller's authorization context
// for the organization in the :id route parameter (or the organization_id
// query parameter; absent both, the user's primary organization) and stores
// it in the gin context. The context is resolved once per request and
// treated as immutable afterwards.
//
// A user with no relationship to the organization gets 404 rather than 403
// so organization existence does not leak. Storage failures are 500s —
// they are infrastructure problems, not authorization decisions.
func RequireOrganizationContext(engine *authz.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var orgID uint64
		if raw := c.Param("id"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				apierrors.BadRequest(c, "Invalid organization ID")
				c.Abort()
				return
			}
			orgID = parsed
		} else if raw := c.Query("organization_id"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				apierrors.BadRequest(c, "Invalid organization ID")
				c.Abort()
				return
			}
			orgID = parsed
		}

		orgCtx, err := engine.GetContext(userID, orgID)
		if err != nil {
			switch {
			case errors.Is(err, authz.ErrContextUnavailable), errors.Is(err, authz.ErrNotFound):
				apierrors.NotFound(c, "Organization not found")
			default:
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOrgContext, orgCtx)
		c.Next()
	}
}

// GetOrgContext retrieves the resolved authorization context from the gin
// context.
func GetOrgContext(c *gin.Context) (*authz.OrganizationContext, bool) {
	value, exists := c.Get(constants.ContextKeyOrgContext)
	if !exists {
		return nil, false
	}
	orgCtx, ok := value.(*authz.OrganizationContext)
	return orgCtx, ok
}

// RequirePermission rejects the request with 403 unless the resolved
// context holds the permission key. Must run after
// RequireOrganizationContext.
func RequirePermission(key authz.PermissionKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgCtx, ok := GetOrgContext(c)
		if !ok {
			apierrors.Forbidden(c, "Organization access required")
			c.Abort()
			return
		}

		if !orgCtx.HasPermission(key) {
			apierrors.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole rejects the request with 403 unless the resolved context
// holds one of the given roles. Must run after RequireOrganizationContext.
func RequireRole(roles ...authz.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgCtx, ok := GetOrgContext(c)
		if !ok {
			apierrors.Forbidden(c, "Organization access required")
			c.Abort()
			return
		}

		for _, role := range roles {
			if orgCtx.Role() == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "Insufficient role")
		c.Abort()
	}
}
