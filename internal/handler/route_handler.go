package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stepfree-maps/service-routing/internal/application"
	"github.com/stepfree-maps/service-routing/internal/platform/response"
)

// RouteHandler handles HTTP requests for route planning.
type RouteHandler struct {
	service *application.PlannerService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *application.PlannerService) *RouteHandler {
	return &RouteHandler{service: service}
}

// RegisterRoutes registers the route-planning endpoints on the group.
func (h *RouteHandler) RegisterRoutes(r *gin.RouterGroup) {
	routes := r.Group("/api/v1/routes")
	{
		routes.POST("/scenic", h.PlanScenic)
		routes.POST("/accessible", h.PlanAccessible)
	}
}

// PlanScenic handles POST /api/v1/routes/scenic.
func (h *RouteHandler) PlanScenic(c *gin.Context) {
	var req application.ScenicRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PlanScenic(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// PlanAccessible handles POST /api/v1/routes/accessible.
func (h *RouteHandler) PlanAccessible(c *gin.Context) {
	var req application.AccessibleRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PlanAccessible(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
