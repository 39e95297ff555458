package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rdfstore/internal/interfaces/http/middleware"
	"rdfstore/internal/shared/logger"
	"rdfstore/internal/shared/utils"
)

// Router owns the gin engine and route registration.
type Router struct {
	engine    *gin.Engine
	container *Container
	logger    logger.Interface
}

func NewRouter(container *Container, log logger.Interface) *Router {
	registerValidators()

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))

	return &Router{
		engine:    engine,
		container: container,
		logger:    log,
	}
}

// SetupRoutes registers every route. All provisioning endpoints require an
// admin token; only the health probe is open.
func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")
	api.Use(r.container.AuthMiddleware.RequireAdmin())
	{
		allocations := api.Group("/allocations")
		{
			allocations.POST("", r.container.AllocationHandler.Provision)
			allocations.GET("", r.container.AllocationHandler.List)
			allocations.POST("/:id/members", r.container.AllocationHandler.AddMember)
			allocations.DELETE("/:id/members/:username", r.container.AllocationHandler.RemoveMember)
		}

		groups := api.Group("/groups")
		{
			groups.POST("", r.container.GroupHandler.Create)
		}

		jobs := api.Group("/jobs")
		{
			jobs.POST("/quota-sync", r.container.JobHandler.TriggerQuotaSync)
			jobs.POST("/membership-audit", r.container.JobHandler.TriggerAudit)
		}
	}
}

// GetEngine returns the underlying gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
