package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

const (
	userA uint64 = 1 // organization owner
	userB uint64 = 2 // SALES_MANAGER on team 1
	userC uint64 = 3 // SALES_REP on team 1
	userD uint64 = 4 // SALES_REP on team 2
	userE uint64 = 5 // no relationship at all

	orgID   uint64 = 10
	teamOne uint64 = 100
	teamTwo uint64 = 200
)

// EngineTestSuite covers role resolution, permission resolution, team scope
// and context assembly against an in-memory store.
type EngineTestSuite struct {
	suite.Suite
	store  *fakeStore
	engine *Engine
}

// SetupTest builds the reference scenario: organization owned by A with
// team 1 = {A:OWNER, B:SALES_MANAGER, C:SALES_REP} and team 2 = {D:SALES_REP}.
func (suite *EngineTestSuite) SetupTest() {
	suite.store = newFakeStore()
	suite.store.seedSystemRoles()
	suite.store.addOrg(orgID, userA)
	suite.store.addTeam(teamOne, orgID)
	suite.store.addTeam(teamTwo, orgID)
	suite.store.addMember(teamOne, userA, RoleOwner)
	suite.store.addMember(teamOne, userB, RoleSalesManager)
	suite.store.addMember(teamOne, userC, RoleSalesRep)
	suite.store.addMember(teamTwo, userD, RoleSalesRep)
	suite.engine = NewEngine(suite.store)
}

func (suite *EngineTestSuite) TestGetUserRole_OwnerShortCircuit() {
	role, err := suite.engine.GetUserRole(userA, orgID)
	suite.NoError(err)
	suite.Equal(RoleOwner, role)
}

// The owner resolves to OWNER even when a membership row carries a lesser
// role.
func (suite *EngineTestSuite) TestGetUserRole_OwnershipBeatsMembership() {
	suite.store.addMember(teamTwo, userA, RoleViewer)

	role, err := suite.engine.GetUserRole(userA, orgID)
	suite.NoError(err)
	suite.Equal(RoleOwner, role)
}

func (suite *EngineTestSuite) TestGetUserRole_FromTeamMembership() {
	role, err := suite.engine.GetUserRole(userB, orgID)
	suite.NoError(err)
	suite.Equal(RoleSalesManager, role)

	role, err = suite.engine.GetUserRole(userC, orgID)
	suite.NoError(err)
	suite.Equal(RoleSalesRep, role)
}

func (suite *EngineTestSuite) TestGetUserRole_NoRelationship() {
	_, err := suite.engine.GetUserRole(userE, orgID)
	suite.ErrorIs(err, ErrContextUnavailable)
}

func (suite *EngineTestSuite) TestGetUserRole_OrganizationMissing() {
	_, err := suite.engine.GetUserRole(userA, 9999)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *EngineTestSuite) TestGetUserRole_IgnoresOtherOrganizations() {
	suite.store.addOrg(20, userE)
	suite.store.addTeam(300, 20)
	suite.store.addMember(300, userC, RoleAdmin)

	// C's ADMIN membership in org 20 must not leak into org 10.
	role, err := suite.engine.GetUserRole(userC, orgID)
	suite.NoError(err)
	suite.Equal(RoleSalesRep, role)
}

func (suite *EngineTestSuite) TestGetUserPermissions_ManagerSet() {
	perms, err := suite.engine.GetUserPermissions(userB, orgID)
	suite.NoError(err)
	suite.Contains(perms, PermLeadsAssign)
	suite.Contains(perms, PermMembersInvite)
	suite.NotContains(perms, PermOrganizationManage)
}

func (suite *EngineTestSuite) TestGetUserPermissions_NoRelationshipIsEmpty() {
	perms, err := suite.engine.GetUserPermissions(userE, orgID)
	suite.NoError(err)
	suite.Empty(perms)
}

func (suite *EngineTestSuite) TestGetUserPermissions_UnknownRoleIsEmpty() {
	member := suite.store.members[memberKey{teamOne, userC}]
	member.RoleID = nil
	member.Role = nil
	member.LegacyRole = "SUPERVISOR" // corrupted value, not a seeded role
	suite.store.members[memberKey{teamOne, userC}] = member

	perms, err := suite.engine.GetUserPermissions(userC, orgID)
	suite.NoError(err)
	suite.Empty(perms)
}

// An org-scoped custom role shadows the system role of the same name for
// its own organization only.
func (suite *EngineTestSuite) TestGetUserPermissions_CustomRoleScopedToOrg() {
	otherOrg := uint64(20)
	suite.store.addOrg(otherOrg, userE)
	suite.store.addTeam(300, otherOrg)
	suite.store.addMember(300, userD, RoleViewer)

	// Custom VIEWER in org 20 also grants leads.write.
	suite.store.addRole(50, string(RoleViewer), &otherOrg, PermLeadsRead, PermDealsRead, PermLeadsWrite)

	perms, err := suite.engine.GetUserPermissions(userD, otherOrg)
	suite.NoError(err)
	suite.Contains(perms, PermLeadsWrite)

	// A VIEWER in org 10 still resolves the system role.
	suite.store.addMember(teamTwo, userE, RoleViewer)
	perms, err = suite.engine.GetUserPermissions(userE, orgID)
	suite.NoError(err)
	suite.NotContains(perms, PermLeadsWrite)
}

func (suite *EngineTestSuite) TestHasPermission() {
	ok, err := suite.engine.HasPermission(userC, orgID, PermLeadsWrite)
	suite.NoError(err)
	suite.True(ok)

	ok, err = suite.engine.HasPermission(userC, orgID, PermLeadsDelete)
	suite.NoError(err)
	suite.False(ok)
}

// The set predicates answer from the resolved permission set without
// touching storage. A rep holds leads.read and leads.write but neither
// leads.delete nor members.invite.
func (suite *EngineTestSuite) TestHasAnyAndAllPermissions() {
	ctx, err := suite.engine.GetContext(userC, orgID)
	suite.Require().NoError(err)

	tests := []struct {
		name string
		keys []PermissionKey
		any  bool
		all  bool
	}{
		{"all granted", []PermissionKey{PermLeadsRead, PermLeadsWrite}, true, true},
		{"partially granted", []PermissionKey{PermLeadsWrite, PermLeadsDelete}, true, false},
		{"none granted", []PermissionKey{PermLeadsDelete, PermMembersInvite}, false, false},
		{"single granted", []PermissionKey{PermDealsRead}, true, true},
		{"no keys", nil, false, true},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.Equal(tt.any, ctx.HasAnyPermission(tt.keys...))
			suite.Equal(tt.all, ctx.HasAllPermissions(tt.keys...))
		})
	}
}

func (suite *EngineTestSuite) TestGetTeamMemberIDs_ManagerScope() {
	scope, err := suite.engine.GetTeamMemberIDs(userB, orgID)
	suite.NoError(err)
	suite.Equal(map[uint64]struct{}{userA: {}, userB: {}, userC: {}}, scope)
	suite.NotContains(scope, userD)
}

// Holding SALES_REP on a second team must not pull that team's members into
// the manager's scope.
func (suite *EngineTestSuite) TestGetTeamMemberIDs_RepMembershipExcluded() {
	suite.store.addMember(teamTwo, userB, RoleSalesRep)

	scope, err := suite.engine.GetTeamMemberIDs(userB, orgID)
	suite.NoError(err)
	suite.NotContains(scope, userD)
	suite.Contains(scope, userC)
}

func (suite *EngineTestSuite) TestGetTeamMemberIDs_Idempotent() {
	first, err := suite.engine.GetTeamMemberIDs(userB, orgID)
	suite.NoError(err)
	second, err := suite.engine.GetTeamMemberIDs(userB, orgID)
	suite.NoError(err)
	suite.Equal(first, second)
}

func (suite *EngineTestSuite) TestGetTeamMemberIDs_NonManagerIsEmpty() {
	scope, err := suite.engine.GetTeamMemberIDs(userC, orgID)
	suite.NoError(err)
	suite.Empty(scope)
}

func (suite *EngineTestSuite) TestGetContext_Explicit() {
	ctx, err := suite.engine.GetContext(userB, orgID)
	suite.NoError(err)
	suite.Equal(orgID, ctx.OrganizationID())
	suite.Equal(userB, ctx.UserID())
	suite.Equal(RoleSalesManager, ctx.Role())
	suite.True(ctx.HasPermission(PermLeadsAssign))
	suite.Equal([]uint64{userA, userB, userC}, ctx.TeamMemberIDs())
}

func (suite *EngineTestSuite) TestGetContext_ScopeOnlyForManagers() {
	ctx, err := suite.engine.GetContext(userC, orgID)
	suite.NoError(err)
	suite.Nil(ctx.TeamMemberIDs())
	suite.False(ctx.InTeamScope(userC))
}

func (suite *EngineTestSuite) TestGetContext_PrimaryPrefersOwnedOrganization() {
	// A owns org 10 and is also a member of org 20; owned wins.
	suite.store.addOrg(20, userE)
	suite.store.addTeam(300, 20)
	suite.store.addMember(300, userA, RoleAdmin)

	ctx, err := suite.engine.GetContext(userA, 0)
	suite.NoError(err)
	suite.Equal(orgID, ctx.OrganizationID())
	suite.Equal(RoleOwner, ctx.Role())
}

func (suite *EngineTestSuite) TestGetContext_PrimaryFallsBackToMembership() {
	ctx, err := suite.engine.GetContext(userC, 0)
	suite.NoError(err)
	suite.Equal(orgID, ctx.OrganizationID())
	suite.Equal(RoleSalesRep, ctx.Role())
}

func (suite *EngineTestSuite) TestGetContext_PrimaryDeterministic() {
	suite.store.addOrg(20, userE)
	suite.store.addTeam(300, 20)
	suite.store.addMember(300, userC, RoleAdmin)

	// C belongs to orgs 10 and 20; the earliest created (10) is always
	// picked, on every call.
	for i := 0; i < 5; i++ {
		ctx, err := suite.engine.GetContext(userC, 0)
		suite.NoError(err)
		suite.Equal(orgID, ctx.OrganizationID())
	}
}

func (suite *EngineTestSuite) TestGetContext_NoRelationship() {
	_, err := suite.engine.GetContext(userE, orgID)
	suite.ErrorIs(err, ErrContextUnavailable)

	_, err = suite.engine.GetContext(userE, 0)
	suite.ErrorIs(err, ErrContextUnavailable)
}

// Infrastructure failures must propagate as errors, never collapse into a
// denial or an empty context.
func (suite *EngineTestSuite) TestStorageFailurePropagates() {
	boom := errors.New("connection reset")
	suite.store.failWith = boom

	_, err := suite.engine.GetContext(userB, orgID)
	suite.ErrorIs(err, boom)
	suite.NotErrorIs(err, ErrContextUnavailable)

	_, err = suite.engine.GetUserPermissions(userB, orgID)
	suite.ErrorIs(err, boom)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
