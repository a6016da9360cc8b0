package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-crm-api/internal/authz"
	"github.com/yukikurage/sales-crm-api/internal/config"
	"github.com/yukikurage/sales-crm-api/internal/database"
	"github.com/yukikurage/sales-crm-api/internal/handlers"
	"github.com/yukikurage/sales-crm-api/internal/middleware"
	"github.com/yukikurage/sales-crm-api/internal/repository"
	"github.com/yukikurage/sales-crm-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations and seed the permission catalog
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("crm_session", store))

	// Initialize repositories
	db := database.GetDB()
	orgRepo := repository.NewOrganizationRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	dealRepo := repository.NewDealRepository(db)

	// Initialize the authorization engine
	engine := authz.NewEngine(repository.NewAuthzStore(db))

	// Initialize services
	orgService := services.NewOrganizationService(orgRepo, teamRepo, roleRepo, engine)
	teamService := services.NewTeamService(teamRepo, roleRepo, userRepo)
	authService := services.NewAuthService(userRepo, orgService)
	leadService := services.NewLeadService(leadRepo, userRepo)
	dealService := services.NewDealService(dealRepo, leadRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	teamHandler := handlers.NewTeamHandler(teamService)
	leadHandler := handlers.NewLeadHandler(leadService)
	dealHandler := handlers.NewDealHandler(dealService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Sales CRM API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.POST("/join", orgHandler.JoinOrganization)

			// Routes scoped to a single organization resolve the caller's
			// authorization context up front.
			scoped := orgs.Group("/:id")
			scoped.Use(middleware.RequireOrganizationContext(engine))
			{
				scoped.GET("", orgHandler.GetOrganization)
				scoped.PUT("", middleware.RequirePermission(authz.PermOrganizationManage), orgHandler.UpdateOrganization)
				// Deleting an organization is reserved for its owner even if a
				// custom role were granted the permission key.
				scoped.DELETE("", middleware.RequireRole(authz.RoleOwner), middleware.RequirePermission(authz.PermOrganizationDelete), orgHandler.DeleteOrganization)
				scoped.POST("/regenerate-code", middleware.RequirePermission(authz.PermMembersInvite), orgHandler.RegenerateInviteCode)
				scoped.DELETE("/members/:user_id", middleware.RequirePermission(authz.PermOrganizationManage), orgHandler.RemoveMember)
				scoped.GET("/roles", orgHandler.ListRoles)
				scoped.POST("/roles", middleware.RequirePermission(authz.PermOrganizationManage), orgHandler.CreateCustomRole)

				teams := scoped.Group("/teams")
				{
					teams.GET("", teamHandler.ListTeams)
					teams.POST("", middleware.RequirePermission(authz.PermTeamsManage), teamHandler.CreateTeam)
					teams.GET("/:team_id/members", teamHandler.ListTeamMembers)
					teams.POST("/:team_id/members", middleware.RequirePermission(authz.PermTeamsManage), teamHandler.AddTeamMember)
					teams.DELETE("/:team_id/members/:user_id", middleware.RequirePermission(authz.PermTeamsManage), teamHandler.RemoveTeamMember)
				}
			}
		}

		// Lead routes (protected). The organization comes from the
		// organization_id query parameter, falling back to the caller's
		// primary organization.
		leads := api.Group("/leads")
		leads.Use(middleware.RequireAuth(), middleware.RequireOrganizationContext(engine))
		{
			leads.GET("", leadHandler.ListLeads)
			leads.POST("", leadHandler.CreateLead)
			leads.GET("/:lead_id", leadHandler.GetLead)
			leads.PATCH("/:lead_id", leadHandler.UpdateLead)
			leads.DELETE("/:lead_id", leadHandler.DeleteLead)
			leads.POST("/:lead_id/assign", leadHandler.AssignLead)
		}

		// Deal routes (protected)
		deals := api.Group("/deals")
		deals.Use(middleware.RequireAuth(), middleware.RequireOrganizationContext(engine))
		{
			deals.GET("", dealHandler.ListDeals)
			deals.POST("", dealHandler.CreateDeal)
			deals.GET("/:deal_id", dealHandler.GetDeal)
			deals.PATCH("/:deal_id", dealHandler.UpdateDeal)
			deals.DELETE("/:deal_id", dealHandler.DeleteDeal)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
