package main

import (
	"net/http"

	"collab-platform/internal/audit"
	"collab-platform/internal/config"
	"collab-platform/internal/dashboard"
	"collab-platform/internal/project"
	"collab-platform/internal/rbac"
	"collab-platform/internal/session"
	"collab-platform/internal/token"

	"github.com/gin-gonic/gin"
)

type registerDeps struct {
	cfg      config.Config
	sessions *session.Service
	cookies  session.CookieWriter
	codec    *token.Codec
	projects project.Store
	audit    *audit.Service
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, deps registerDeps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessionHandlers := session.Handlers{Service: deps.sessions, Cookies: deps.cookies}
	dashboardSvc := dashboard.NewService(deps.projects)

	// Page routes (non-API). The gatekeeper only rotates cookies; each
	// page owns its own auth gate, so nothing here ever 401s.
	pages := r.Group("/")
	pages.Use(session.Gatekeeper(deps.sessions, deps.cookies))
	{
		pages.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"app": "collab-platform"})
		})
	}

	v1 := r.Group("/v1")

	// Session protocol (public; login/register gated by app token).
	auth := v1.Group("/auth")
	{
		auth.GET("/bootstrap", sessionHandlers.Bootstrap)
		auth.POST("/login", sessionHandlers.Login)
		auth.POST("/register", sessionHandlers.Register)
		auth.GET("/check", sessionHandlers.CheckAuth)
		auth.GET("/logout", sessionHandlers.Logout)
	}

	// Protected API (auth cookie, or refresh cookie via silent rotation).
	protected := v1.Group("")
	protected.Use(session.RequireAuth(deps.sessions, deps.cookies))
	{
		projectHandlers := project.Handlers{Store: deps.projects}
		protected.GET("/projects", projectHandlers.List)
		protected.POST("/projects", projectHandlers.Create)
		protected.GET("/projects/:project_id", projectHandlers.Get)

		protected.GET("/dashboard/summary", dashboard.Handlers{Service: dashboardSvc}.Summary)

		admin := protected.Group("/admin")
		admin.Use(rbac.RequireAnyRole(rbac.RoleAdmin))
		{
			admin.GET("/audit/events", audit.Handlers{Service: deps.audit}.ListEvents)
		}
	}

	// Service-to-service routes; bearer internal token with origin match.
	internal := v1.Group("/internal")
	internal.Use(session.RequireInternal(deps.codec, deps.cfg.Tokens.InternalOrigin))
	{
		internal.GET("/dashboard/summary", dashboard.Handlers{Service: dashboardSvc}.Summary)
	}
}
