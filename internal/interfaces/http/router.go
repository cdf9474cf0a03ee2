package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tailorcv/tailorcv/internal/application/analytics"
	"github.com/tailorcv/tailorcv/internal/application/assistant"
	appentitlement "github.com/tailorcv/tailorcv/internal/application/entitlement"
	planapp "github.com/tailorcv/tailorcv/internal/application/plan"
	userapp "github.com/tailorcv/tailorcv/internal/application/user"
	"github.com/tailorcv/tailorcv/internal/domain/entitlement"
	"github.com/tailorcv/tailorcv/internal/domain/shared/events"
	"github.com/tailorcv/tailorcv/internal/infrastructure/auth"
	"github.com/tailorcv/tailorcv/internal/infrastructure/config"
	"github.com/tailorcv/tailorcv/internal/infrastructure/gemini"
	"github.com/tailorcv/tailorcv/internal/infrastructure/repository"
	"github.com/tailorcv/tailorcv/internal/interfaces/http/handlers"
	"github.com/tailorcv/tailorcv/internal/interfaces/http/middleware"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	"github.com/tailorcv/tailorcv/internal/shared/services/markdown"
)

// Router wires repositories, services, and handlers onto a gin engine.
type Router struct {
	engine         *gin.Engine
	userService    *userapp.Service
	authHandler    *handlers.AuthHandler
	entHandler     *handlers.EntitlementHandler
	assistHandler  *handlers.AssistantHandler
	planHandler    *handlers.PlanHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter builds the full dependency graph from the database handle and
// configuration. bus may be nil when no event listeners are registered.
func NewRouter(cfg *config.Config, db *gorm.DB, catalog *entitlement.Catalog, bus events.EventPublisher, log logger.Interface) *Router {
	// Repositories
	userRepo := repository.NewUserRepository(db, log)
	planRepo := repository.NewPlanRepository(db, log)
	usageRepo := repository.NewUsageRepository(db, log)
	chatRepo := repository.NewChatRepository(db, log)
	analyticsRepo := repository.NewAnalyticsRepository(db, log)

	// Infrastructure services
	jwtService := auth.NewJWTService(
		cfg.Auth.JWT.Secret,
		cfg.Auth.JWT.AccessExpMinutes,
		cfg.Auth.JWT.RefreshExpDays,
	)
	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	geminiClient := gemini.NewClient(&cfg.Gemini, log)

	// Application services
	entitlementService := appentitlement.NewService(catalog, planRepo, usageRepo, log)
	assistantService := assistant.NewService(entitlementService, geminiClient, chatRepo, markdown.NewService(), log)
	planService := planapp.NewService(planRepo, log)
	analyticsService := analytics.NewService(analyticsRepo, log)
	userService := userapp.NewService(userRepo, planRepo, hasher, jwtService, bus, log)

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	return &Router{
		engine:         engine,
		userService:    userService,
		authHandler:    handlers.NewAuthHandler(userService, log),
		entHandler:     handlers.NewEntitlementHandler(entitlementService, log),
		assistHandler:  handlers.NewAssistantHandler(assistantService, log),
		planHandler:    handlers.NewPlanHandler(planService, log),
		adminHandler:   handlers.NewAdminHandler(analyticsService, userService, log),
		authMiddleware: middleware.NewAuthMiddleware(jwtService, userRepo, log),
	}
}

// UserService exposes the user application service for background jobs
// that share the router's dependency graph.
func (r *Router) UserService() *userapp.Service {
	return r.userService
}

// Engine returns the configured gin engine with all routes registered.
func (r *Router) Engine() *gin.Engine {
	r.registerRoutes()
	return r.engine
}

func (r *Router) registerRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.engine.Group("/api/v1")

	// Public
	v1.POST("/auth/register", r.authHandler.Register)
	v1.POST("/auth/login", r.authHandler.Login)
	v1.GET("/plans", r.planHandler.ListActive)

	// Authenticated
	me := v1.Group("/me", r.authMiddleware.RequireAuth())
	{
		me.GET("", r.authHandler.Me)
		me.PUT("", r.authHandler.UpdateProfile)
		me.PUT("/password", r.authHandler.ChangePassword)
		me.GET("/plan", r.entHandler.CurrentPlan)
		me.GET("/entitlements", r.entHandler.Capabilities)
		me.GET("/usage", r.entHandler.Usage)
		me.GET("/dashboard", r.entHandler.Dashboard)
	}

	assistantGroup := v1.Group("/assistant", r.authMiddleware.RequireAuth())
	{
		assistantGroup.POST("/chat", r.assistHandler.Chat)
		assistantGroup.POST("/job-analysis", r.assistHandler.AnalyzeJob)
		assistantGroup.POST("/cover-letter", r.assistHandler.DraftCoverLetter)
	}

	// Admin
	admin := v1.Group("/admin", r.authMiddleware.RequireAuth(), r.authMiddleware.RequireAdmin())
	{
		admin.GET("/analytics/report", r.adminHandler.AnalyticsReport)

		admin.POST("/plans", r.planHandler.Create)
		admin.GET("/plans", r.planHandler.List)
		admin.GET("/plans/:id", r.planHandler.Get)
		admin.PUT("/plans/:id", r.planHandler.Update)
		admin.POST("/plans/:id/activate", r.planHandler.Activate)
		admin.POST("/plans/:id/deactivate", r.planHandler.Deactivate)

		admin.GET("/users", r.adminHandler.ListUsers)
		admin.POST("/users/:id/subscription", r.adminHandler.AssignSubscription)
		admin.DELETE("/users/:id/subscription", r.adminHandler.CancelSubscription)
		admin.POST("/subscriptions/sweep", r.adminHandler.SweepExpired)
	}
}
