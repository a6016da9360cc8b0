package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/sales-crm-api/internal/errors"
	"github.com/yukikurage/sales-crm-api/internal/middleware"
	"github.com/yukikurage/sales-crm-api/internal/models"
	"github.com/yukikurage/sales-crm-api/internal/services"
	"github.com/yukikurage/sales-crm-api/internal/utils"
)

// LeadHandler handles lead endpoints
type LeadHandler struct {
	leadService *services.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *services.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// ListLeads returns the leads visible to the caller
func (h *LeadHandler) ListLeads(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	input := services.ListLeadsInput{
		Pagination: utils.GetPaginationParams(c),
	}

	if raw := c.Query("status"); raw != "" {
		status := models.LeadStatus(raw)
		input.Status = &status
	}

	leads, err := h.leadService.ListLeads(orgCtx, input)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

// GetLead returns a single lead
func (h *LeadHandler) GetLead(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	leadID, err := strconv.ParseUint(c.Param("lead_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid lead ID")
		return
	}

	lead, err := h.leadService.GetLead(orgCtx, leadID)
	if err != nil {
		h.respondLeadError(c, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

// CreateLead creates a new lead owned by the caller
func (h *LeadHandler) CreateLead(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	type CreateLeadRequest struct {
		Name    string            `json:"name" binding:"required"`
		Company string            `json:"company"`
		Email   string            `json:"email"`
		Phone   string            `json:"phone"`
		Status  models.LeadStatus `json:"status"`
	}

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	lead, err := h.leadService.CreateLead(orgCtx, services.CreateLeadInput{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Status:  req.Status,
	})
	if err != nil {
		h.respondLeadError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lead)
}

// UpdateLead updates a lead
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	leadID, err := strconv.ParseUint(c.Param("lead_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid lead ID")
		return
	}

	type UpdateLeadRequest struct {
		Name    *string            `json:"name"`
		Company *string            `json:"company"`
		Email   *string            `json:"email"`
		Phone   *string            `json:"phone"`
		Status  *models.LeadStatus `json:"status"`
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	lead, err := h.leadService.UpdateLead(orgCtx, leadID, services.UpdateLeadInput{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Status:  req.Status,
	})
	if err != nil {
		h.respondLeadError(c, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

// DeleteLead deletes a lead
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	leadID, err := strconv.ParseUint(c.Param("lead_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid lead ID")
		return
	}

	if err := h.leadService.DeleteLead(orgCtx, leadID); err != nil {
		h.respondLeadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted successfully"})
}

// AssignLead sets the lead's owner of record
func (h *LeadHandler) AssignLead(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	leadID, err := strconv.ParseUint(c.Param("lead_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid lead ID")
		return
	}

	type AssignRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	lead, err := h.leadService.AssignLead(orgCtx, leadID, req.UserID)
	if err != nil {
		if errors.Is(err, services.ErrAssigneeNotInOrg) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		h.respondLeadError(c, err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) respondLeadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLeadNotFound):
		apierrors.NotFound(c, "Lead not found")
	case errors.Is(err, services.ErrLeadPermissionDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrLeadNameRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
