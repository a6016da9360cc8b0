package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/sales-crm-api/internal/authz"
	"github.com/yukikurage/sales-crm-api/internal/constants"
	"github.com/yukikurage/sales-crm-api/internal/database"
	"github.com/yukikurage/sales-crm-api/internal/models"
	"github.com/yukikurage/sales-crm-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OrganizationContextTestSuite exercises the context-resolving middleware
// against a real engine over SQLite
type OrganizationContextTestSuite struct {
	suite.Suite
	db     *gorm.DB
	engine *authz.Engine

	owner *models.User
	rep   *models.User
	org   *models.Organization
}

func (suite *OrganizationContextTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Team{},
		&models.TeamMember{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
	)
	suite.Require().NoError(err)
	suite.Require().NoError(database.SeedRoles(suite.db))

	suite.engine = authz.NewEngine(repository.NewAuthzStore(suite.db))

	suite.owner = &models.User{Email: "owner@example.com", PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(suite.owner).Error)
	suite.rep = &models.User{Email: "rep@example.com", PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(suite.rep).Error)

	suite.org = &models.Organization{Name: "Acme", OwnerID: suite.owner.ID, InviteCode: "CODE"}
	suite.Require().NoError(suite.db.Create(suite.org).Error)

	team := &models.Team{Name: "General", OrganizationID: suite.org.ID, OwnerID: suite.owner.ID}
	suite.Require().NoError(suite.db.Create(team).Error)

	repRoleID, err := database.SystemRoleID(suite.db, authz.RoleSalesRep)
	suite.Require().NoError(err)
	member := &models.TeamMember{TeamID: team.ID, UserID: suite.rep.ID, RoleID: &repRoleID}
	suite.Require().NoError(suite.db.Create(member).Error)

	gin.SetMode(gin.TestMode)
}

func (suite *OrganizationContextTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// newRouter wires a probe endpoint behind the middleware chain, with the
// session lookup replaced by a fixed user
func (suite *OrganizationContextTestSuite) newRouter(userID uint64, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(constants.ContextKeyUserID, userID)
		}
		c.Next()
	})

	handlers := append([]gin.HandlerFunc{RequireOrganizationContext(suite.engine)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		orgCtx, ok := GetOrgContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"organization_id": orgCtx.OrganizationID(),
			"role":            string(orgCtx.Role()),
		})
	})

	r.GET("/orgs/:id/probe", handlers...)
	r.GET("/probe", handlers...)
	return r
}

func (suite *OrganizationContextTestSuite) TestResolvesContextFromPathParam() {
	r := suite.newRouter(suite.rep.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/1/probe", nil))

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "SALES_REP")
}

func (suite *OrganizationContextTestSuite) TestFallsBackToPrimaryOrganization() {
	r := suite.newRouter(suite.owner.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "OWNER")
}

func (suite *OrganizationContextTestSuite) TestNoRelationshipReadsAsNotFound() {
	stranger := &models.User{Email: "stranger@example.com", PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(stranger).Error)

	r := suite.newRouter(stranger.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/1/probe", nil))

	// 404, not 403: membership must not leak organization existence
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *OrganizationContextTestSuite) TestMissingOrganizationReadsAsNotFound() {
	r := suite.newRouter(suite.owner.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/9999/probe", nil))

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *OrganizationContextTestSuite) TestUnauthenticatedRejected() {
	r := suite.newRouter(0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/1/probe", nil))

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *OrganizationContextTestSuite) TestInvalidOrganizationID() {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, suite.owner.ID)
		c.Next()
	})
	r.GET("/orgs/:id/probe", RequireOrganizationContext(suite.engine), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/abc/probe", nil))

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *OrganizationContextTestSuite) TestRequirePermissionDeniesRep() {
	r := suite.newRouter(suite.rep.ID, RequirePermission(authz.PermTeamsManage))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/1/probe", nil))

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *OrganizationContextTestSuite) TestRequirePermissionAllowsOwner() {
	r := suite.newRouter(suite.owner.ID, RequirePermission(authz.PermTeamsManage))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/1/probe", nil))

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *OrganizationContextTestSuite) TestRequireRole() {
	r := suite.newRouter(suite.rep.ID, RequireRole(authz.RoleOwner, authz.RoleAdmin))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/1/probe", nil))

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestRequireRoleWithPermission exercises the chain guarding organization
// deletion: the role gate runs before the permission gate, so only the
// owner gets through even when both middlewares are stacked
func (suite *OrganizationContextTestSuite) TestRequireRoleWithPermission() {
	chain := []gin.HandlerFunc{
		RequireRole(authz.RoleOwner),
		RequirePermission(authz.PermOrganizationDelete),
	}

	r := suite.newRouter(suite.owner.ID, chain...)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/1/probe", nil))
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	r = suite.newRouter(suite.rep.ID, chain...)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orgs/1/probe", nil))
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func TestOrganizationContextTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationContextTestSuite))
}
