package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/sales-crm-api/internal/models"
	"github.com/yukikurage/sales-crm-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrInvalidTeamName     = errors.New("team name cannot be empty")
	ErrTeamMemberNotFound  = errors.New("team member not found")
	ErrAlreadyTeamMember   = errors.New("user is already a member of this team")
	ErrRoleNotFound        = errors.New("role not found")
	ErrTeamOutsideOrg      = errors.New("team does not belong to this organization")
	ErrAssigneeNotInOrg    = errors.New("user is not a member of the organization")
)

// TeamService handles team and membership business logic.
type TeamService struct {
	teamRepo repository.TeamRepository
	roleRepo repository.RoleRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(
	teamRepo repository.TeamRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		roleRepo: roleRepo,
		userRepo: userRepo,
	}
}

// CreateTeamInput represents parameters to create a team.
type CreateTeamInput struct {
	OrganizationID uint64
	OwnerID        uint64
	Name           string
}

// CreateTeam creates a new team in the organization.
func (s *TeamService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidTeamName
	}

	team := &models.Team{
		Name:           input.Name,
		OrganizationID: input.OrganizationID,
		OwnerID:        input.OwnerID,
	}

	if err := s.teamRepo.Create(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// ListTeams returns the organization's teams, earliest created first.
func (s *TeamService) ListTeams(organizationID uint64) ([]models.Team, error) {
	teams, err := s.teamRepo.ListByOrganization(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// ListMembers returns a team's members, verifying the team belongs to the
// organization first.
func (s *TeamService) ListMembers(organizationID, teamID uint64) ([]models.TeamMember, error) {
	if _, err := s.teamInOrganization(organizationID, teamID); err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

// AddMemberInput represents parameters to add a user to a team.
type AddMemberInput struct {
	OrganizationID uint64
	TeamID         uint64
	UserID         uint64
	RoleName       string
}

// AddMember adds a user to a team under the named role. The role is
// resolved per organization, so an org-scoped custom role shadows the
// system role of the same name.
func (s *TeamService) AddMember(input AddMemberInput) (*models.TeamMember, error) {
	if _, err := s.teamInOrganization(input.OrganizationID, input.TeamID); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	role, err := s.roleRepo.FindByNameAndOrg(input.RoleName, input.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}

	if _, err := s.teamRepo.FindMember(input.TeamID, input.UserID); err == nil {
		return nil, ErrAlreadyTeamMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.TeamMember{
		TeamID:   input.TeamID,
		UserID:   input.UserID,
		RoleID:   &role.ID,
		JoinedAt: time.Now(),
	}

	if err := s.teamRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}

	return member, nil
}

// RemoveMember removes a user from a team.
func (s *TeamService) RemoveMember(organizationID, teamID, userID uint64) error {
	if _, err := s.teamInOrganization(organizationID, teamID); err != nil {
		return err
	}

	if _, err := s.teamRepo.FindMember(teamID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamMemberNotFound
		}
		return fmt.Errorf("failed to find team member: %w", err)
	}

	if err := s.teamRepo.RemoveMember(teamID, userID); err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}

	return nil
}

func (s *TeamService) teamInOrganization(organizationID, teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	if team.OrganizationID != organizationID {
		return nil, ErrTeamOutsideOrg
	}
	return team, nil
}
