package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-crm-api/internal/authz"
	"github.com/yukikurage/sales-crm-api/internal/dto"
	apierrors "github.com/yukikurage/sales-crm-api/internal/errors"
	"github.com/yukikurage/sales-crm-api/internal/middleware"
	"github.com/yukikurage/sales-crm-api/internal/services"
	"github.com/yukikurage/sales-crm-api/internal/utils"
)

// OrganizationHandler handles organization endpoints
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// CreateOrganization creates a new organization owned by the caller
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	org, err := h.orgService.CreateOrganization(services.CreateOrganizationInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrganizationName) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org, true))
}

// ListOrganizations returns the organizations the caller owns or belongs to
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgs, err := h.orgService.ListOrganizationsForUser(userID, utils.GetPaginationParams(c))
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	dtos := make([]dto.OrganizationDTO, len(orgs))
	for i, org := range orgs {
		dtos[i] = dto.ToOrganizationDTO(org, false)
	}

	c.JSON(http.StatusOK, gin.H{"organizations": dtos})
}

// GetOrganization returns organization details with teams
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	org, teams, err := h.orgService.GetOrganizationWithTeams(orgCtx.OrganizationID())
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	// Anyone who can invite members or manage the organization needs the
	// invite code; nobody else sees it.
	includeInvite := orgCtx.HasAnyPermission(authz.PermMembersInvite, authz.PermOrganizationManage)
	c.JSON(http.StatusOK, dto.ToOrganizationDetailDTO(*org, teams, string(orgCtx.Role()), includeInvite))
}

// UpdateOrganization updates the organization name
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	type UpdateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	org, err := h.orgService.UpdateOrganizationName(orgCtx.OrganizationID(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrganizationNotFound):
			apierrors.NotFound(c, "Organization not found")
		case errors.Is(err, services.ErrInvalidOrganizationName):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org, false))
}

// DeleteOrganization deletes an organization
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	if err := h.orgService.DeleteOrganization(orgCtx.OrganizationID()); err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Organization deleted successfully"})
}

// JoinOrganization adds the caller to an organization via invite code
func (h *OrganizationHandler) JoinOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	org, err := h.orgService.JoinOrganizationByInvite(userID, req.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInviteCode):
			apierrors.NotFound(c, "Invalid invite code")
		case errors.Is(err, services.ErrAlreadyMember):
			apierrors.Conflict(c, "Already a member of this organization")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Successfully joined organization",
		"organization": dto.ToOrganizationDTO(*org, false),
	})
}

// RegenerateInviteCode generates a new invite code for the organization
func (h *OrganizationHandler) RegenerateInviteCode(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	org, err := h.orgService.RegenerateInviteCode(orgCtx.OrganizationID())
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org, true))
}

// RemoveMember revokes a user's memberships across the organization
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.orgService.RemoveMember(orgCtx.OrganizationID(), orgCtx.UserID(), targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrCannotRemoveYourself), errors.Is(err, services.ErrCannotRemoveOwner):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrMemberNotFound), errors.Is(err, services.ErrOrganizationNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// ListRoles returns the roles assignable within the organization
func (h *OrganizationHandler) ListRoles(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	roles, err := h.orgService.ListRoles(orgCtx.OrganizationID())
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// CreateCustomRole creates an organization-scoped custom role
func (h *OrganizationHandler) CreateCustomRole(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	type CreateRoleRequest struct {
		Name           string   `json:"name" binding:"required"`
		PermissionKeys []string `json:"permission_keys" binding:"required"`
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	role, err := h.orgService.CreateCustomRole(services.CreateCustomRoleInput{
		OrganizationID: orgCtx.OrganizationID(),
		Name:           req.Name,
		PermissionKeys: req.PermissionKeys,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRoleName), errors.Is(err, services.ErrUnknownPermissionKey):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrRoleNameReserved):
			apierrors.Conflict(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, role)
}
