package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stepfree-maps/service-routing/internal/application"
	"github.com/stepfree-maps/service-routing/internal/platform/response"
)

// POIHandler handles HTTP requests for the curated POI catalog.
type POIHandler struct {
	service *application.POIService
}

// NewPOIHandler creates a new POIHandler.
func NewPOIHandler(service *application.POIService) *POIHandler {
	return &POIHandler{service: service}
}

// RegisterRoutes registers the POI endpoints on the group.
func (h *POIHandler) RegisterRoutes(r *gin.RouterGroup) {
	pois := r.Group("/api/v1/pois")
	{
		pois.POST("", h.CreatePOI)
		pois.GET("", h.ListPOIs)
		pois.DELETE("/:id", h.DeletePOI)
	}
}

// CreatePOI handles POST /api/v1/pois.
func (h *POIHandler) CreatePOI(c *gin.Context) {
	var req application.CreatePOIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePOI(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListPOIs handles GET /api/v1/pois.
func (h *POIHandler) ListPOIs(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.service.ListPOIs(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, total, page, limit)
}

// DeletePOI handles DELETE /api/v1/pois/:id.
func (h *POIHandler) DeletePOI(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poi ID")
		return
	}

	if err := h.service.DeletePOI(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(204)
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
