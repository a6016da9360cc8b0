package authz

import (
	"sort"

	"github.com/yukikurage/sales-crm-api/internal/models"
)

type memberKey struct {
	teamID uint64
	userID uint64
}

// fakeStore is an in-memory Store for engine tests. Slices keep insertion
// order, which stands in for creation order.
type fakeStore struct {
	orgs      []models.Organization
	teams     []models.Team
	members   map[memberKey]models.TeamMember
	roles     []models.Role
	rolePerms map[uint64][]string

	// failWith, when set, makes every lookup fail. Used to verify that
	// infrastructure failures propagate instead of turning into denials.
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		members:   make(map[memberKey]models.TeamMember),
		rolePerms: make(map[uint64][]string),
	}
}

func (s *fakeStore) addOrg(id, ownerID uint64) {
	s.orgs = append(s.orgs, models.Organization{ID: id, OwnerID: ownerID})
}

func (s *fakeStore) addTeam(id, orgID uint64) {
	s.teams = append(s.teams, models.Team{ID: id, OrganizationID: orgID})
}

func (s *fakeStore) addMember(teamID, userID uint64, role RoleName) {
	roleID := s.roleID(string(role))
	member := models.TeamMember{TeamID: teamID, UserID: userID}
	if roleID != 0 {
		member.RoleID = &roleID
		member.Role = &models.Role{ID: roleID, Name: string(role)}
	} else {
		member.LegacyRole = string(role)
	}
	s.members[memberKey{teamID, userID}] = member
}

func (s *fakeStore) addRole(id uint64, name string, orgID *uint64, keys ...PermissionKey) {
	s.roles = append(s.roles, models.Role{ID: id, Name: name, OrganizationID: orgID, IsSystemRole: orgID == nil})
	perms := make([]string, len(keys))
	for i, key := range keys {
		perms[i] = string(key)
	}
	s.rolePerms[id] = perms
}

// seedSystemRoles installs the catalog roles with IDs 1..5.
func (s *fakeStore) seedSystemRoles() {
	for i, name := range SystemRoleNames {
		s.addRole(uint64(i+1), string(name), nil, SystemRoleGrants(name)...)
	}
}

func (s *fakeStore) roleID(name string) uint64 {
	for _, r := range s.roles {
		if r.Name == name && r.OrganizationID == nil {
			return r.ID
		}
	}
	return 0
}

func (s *fakeStore) GetOrganization(id uint64) (*models.Organization, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	for i := range s.orgs {
		if s.orgs[i].ID == id {
			org := s.orgs[i]
			return &org, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) GetTeamsInOrganization(orgID uint64) ([]models.Team, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var teams []models.Team
	for _, t := range s.teams {
		if t.OrganizationID == orgID {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (s *fakeStore) GetTeamsForUser(userID uint64) ([]models.Team, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var teams []models.Team
	for _, t := range s.teams {
		if _, ok := s.members[memberKey{t.ID, userID}]; ok {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (s *fakeStore) GetTeamMember(teamID, userID uint64) (*models.TeamMember, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	if m, ok := s.members[memberKey{teamID, userID}]; ok {
		return &m, nil
	}
	return nil, ErrNotFound
}

func (s *fakeStore) GetTeamMembers(teamID uint64) ([]models.TeamMember, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var members []models.TeamMember
	for key, m := range s.members {
		if key.teamID == teamID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })
	return members, nil
}

func (s *fakeStore) GetRoleByNameAndOrg(name string, orgID uint64) (*models.Role, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	for i := range s.roles {
		r := s.roles[i]
		if r.Name == name && r.OrganizationID != nil && *r.OrganizationID == orgID {
			return &r, nil
		}
	}
	for i := range s.roles {
		r := s.roles[i]
		if r.Name == name && r.OrganizationID == nil {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) GetRolePermissionKeys(roleID uint64) ([]string, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.rolePerms[roleID], nil
}

func (s *fakeStore) FirstOwnedOrganizationID(userID uint64) (uint64, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	for _, org := range s.orgs {
		if org.OwnerID == userID {
			return org.ID, nil
		}
	}
	return 0, ErrNotFound
}

func (s *fakeStore) FirstMemberOrganizationID(userID uint64) (uint64, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	for _, org := range s.orgs {
		teams, _ := s.GetTeamsInOrganization(org.ID)
		for _, t := range teams {
			if _, ok := s.members[memberKey{t.ID, userID}]; ok {
				return org.ID, nil
			}
		}
	}
	return 0, ErrNotFound
}
