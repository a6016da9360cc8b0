package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-crm-api/internal/dto"
	apierrors "github.com/yukikurage/sales-crm-api/internal/errors"
	"github.com/yukikurage/sales-crm-api/internal/middleware"
	"github.com/yukikurage/sales-crm-api/internal/services"
)

// TeamHandler handles team endpoints
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeam creates a team in the organization
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	type CreateTeamRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	team, err := h.teamService.CreateTeam(services.CreateTeamInput{
		OrganizationID: orgCtx.OrganizationID(),
		OwnerID:        orgCtx.UserID(),
		Name:           req.Name,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidTeamName) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListTeams lists the organization's teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	teams, err := h.teamService.ListTeams(orgCtx.OrganizationID())
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	dtos := make([]dto.TeamDTO, len(teams))
	for i, team := range teams {
		dtos[i] = dto.ToTeamDTO(team)
	}

	c.JSON(http.StatusOK, gin.H{"teams": dtos})
}

// ListTeamMembers lists a team's members
func (h *TeamHandler) ListTeamMembers(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	members, err := h.teamService.ListMembers(orgCtx.OrganizationID(), teamID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound), errors.Is(err, services.ErrTeamOutsideOrg):
			apierrors.NotFound(c, "Team not found")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToTeamMemberDTOs(members)})
}

// AddTeamMember adds a user to a team under a role
func (h *TeamHandler) AddTeamMember(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "")
		return
	}

	member, err := h.teamService.AddMember(services.AddMemberInput{
		OrganizationID: orgCtx.OrganizationID(),
		TeamID:         teamID,
		UserID:         req.UserID,
		RoleName:       req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound), errors.Is(err, services.ErrTeamOutsideOrg):
			apierrors.NotFound(c, "Team not found")
		case errors.Is(err, services.ErrTeamMemberNotFound):
			apierrors.BadRequest(c, "User does not exist")
		case errors.Is(err, services.ErrRoleNotFound):
			apierrors.BadRequest(c, "Unknown role")
		case errors.Is(err, services.ErrAlreadyTeamMember):
			apierrors.Conflict(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveTeamMember removes a user from a team
func (h *TeamHandler) RemoveTeamMember(c *gin.Context) {
	orgCtx, ok := middleware.GetOrgContext(c)
	if !ok {
		apierrors.InternalError(c, "Organization context missing")
		return
	}

	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.teamService.RemoveMember(orgCtx.OrganizationID(), teamID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound), errors.Is(err, services.ErrTeamOutsideOrg):
			apierrors.NotFound(c, "Team not found")
		case errors.Is(err, services.ErrTeamMemberNotFound):
			apierrors.NotFound(c, "Team member not found")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
