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

// DealHandler handles deal endpoints
type DealHandler struct {
	dealService *services.DealService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService *services.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// ListDeals returns the deals visible to the caller
func (h *DealHandler) ListDeals(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	input := services.ListDealsInput{
		Pagination: utils.GetPaginationParams(c),
	}

	if raw := c.Query("stage"); raw != "" {
		stage := models.DealStage(raw)
		input.Stage = &stage
	}

	deals, err := h.dealService.ListDeals(orgCtx, input)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deals": deals})
}

// GetDeal returns a single deal
func (h *DealHandler) GetDeal(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	dealID, err := strconv.ParseUint(c.Param("deal_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid deal ID")
		return
	}

	deal, err := h.dealService.GetDeal(orgCtx, dealID)
	if err != nil {
		h.respondDealError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

// CreateDeal creates a new deal owned by the caller
func (h *DealHandler) CreateDeal(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	type CreateDealRequest struct {
		Title  string           `json:"title" binding:"required"`
		Value  int64            `json:"value"`
		Stage  models.DealStage `json:"stage"`
		LeadID *uint64          `json:"lead_id"`
	}

	var req CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	deal, err := h.dealService.CreateDeal(orgCtx, services.CreateDealInput{
		Title:  req.Title,
		Value:  req.Value,
		Stage:  req.Stage,
		LeadID: req.LeadID,
	})
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			apierrors.BadRequest(c, "Linked lead not found")
			return
		}
		h.respondDealError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deal)
}

// UpdateDeal updates a deal
func (h *DealHandler) UpdateDeal(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	dealID, err := strconv.ParseUint(c.Param("deal_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid deal ID")
		return
	}

	type UpdateDealRequest struct {
		Title *string           `json:"title"`
		Value *int64            `json:"value"`
		Stage *models.DealStage `json:"stage"`
	}

	var req UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	deal, err := h.dealService.UpdateDeal(orgCtx, dealID, services.UpdateDealInput{
		Title: req.Title,
		Value: req.Value,
		Stage: req.Stage,
	})
	if err != nil {
		h.respondDealError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

// DeleteDeal deletes a deal
func (h *DealHandler) DeleteDeal(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	dealID, err := strconv.ParseUint(c.Param("deal_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid deal ID")
		return
	}

	if err := h.dealService.DeleteDeal(orgCtx, dealID); err != nil {
		h.respondDealError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deal deleted successfully"})
}

func (h *DealHandler) respondDealError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDealNotFound):
		apierrors.NotFound(c, "Deal not found")
	case errors.Is(err, services.ErrDealPermissionDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrDealTitleRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
