package router

import (
	"github.com/awslabs/lisa-admin/internal/handlers"
	"github.com/awslabs/lisa-admin/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every handler the router wires up
type Handlers struct {
	Health      *handlers.HealthHandler
	Config      *handlers.ConfigHandler
	Models      *handlers.ModelHandler
	RagRepos    *handlers.RagRepositoryHandler
	Connections *handlers.McpConnectionHandler
	Hosted      *handlers.HostedMcpServerHandler
	Assistants  *handlers.AssistantStackHandler
	Banner      *handlers.BannerHandler
	Preferences *handlers.UserPreferencesHandler
}

// Setup configures and returns the application router. Admin routes sit
// behind the admin-group gate; the rest only need a valid bearer token.
func Setup(h Handlers, auth *middleware.AuthConfig) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	// Health check stays unauthenticated for load balancer probes
	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")

	if auth.Authority != "" {
		v1.Use(middleware.AuthenticationWithAuthority(auth))
	} else {
		v1.Use(middleware.Authentication())
	}

	admin := v1.Group("")
	admin.Use(middleware.AdminOnly(auth.AdminGroup))

	// Deployment configuration validation
	admin.POST("/config/validate", h.Config.Validate)

	// Model library
	v1.GET("/models", h.Models.List)
	v1.GET("/models/:id", h.Models.Get)
	admin.POST("/models", h.Models.Create)
	admin.PUT("/models/:id", h.Models.Update)
	admin.POST("/models/:id/start", h.Models.Start)
	admin.POST("/models/:id/stop", h.Models.Stop)
	admin.DELETE("/models/:id", h.Models.Delete)

	// RAG repositories
	v1.GET("/repositories", h.RagRepos.List)
	v1.GET("/repositories/:id", h.RagRepos.Get)
	admin.POST("/repositories", h.RagRepos.Create)
	admin.DELETE("/repositories/:id", h.RagRepos.Delete)

	// External MCP connections
	connections := v1.Group("/mcp/connections")
	{
		connections.POST("", h.Connections.Create)
		connections.GET("", h.Connections.List)
		connections.GET("/:id", h.Connections.Get)
		connections.PUT("/:id", h.Connections.Update)
		connections.DELETE("/:id", h.Connections.Delete)
	}

	// Hosted MCP servers
	hosted := v1.Group("/mcp/servers")
	{
		hosted.POST("", h.Hosted.Create)
		hosted.GET("", h.Hosted.List)
		hosted.GET("/:id", h.Hosted.Get)
		hosted.DELETE("/:id", h.Hosted.Delete)
	}

	// Assistant stacks
	v1.GET("/assistants", h.Assistants.List)
	v1.GET("/assistants/:id", h.Assistants.Get)
	admin.POST("/assistants", h.Assistants.Create)
	admin.PUT("/assistants/:id", h.Assistants.Update)
	admin.DELETE("/assistants/:id", h.Assistants.Delete)

	// System banner
	v1.GET("/banner", h.Banner.Get)
	admin.PUT("/banner", h.Banner.Put)
	admin.DELETE("/banner", h.Banner.Delete)

	// User preferences
	v1.GET("/preferences", h.Preferences.Get)
	v1.PUT("/preferences", h.Preferences.Put)

	return router
}
