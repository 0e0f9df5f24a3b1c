package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/udgtools/horarios-api/internal/models"
	"github.com/udgtools/horarios-api/internal/service"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
	"github.com/udgtools/horarios-api/pkg/response"
)

// SeccionHandler handles course section endpoints.
type SeccionHandler struct {
	service *service.SeccionService
}

// NewSeccionHandler constructs a seccion handler.
func NewSeccionHandler(svc *service.SeccionService) *SeccionHandler {
	return &SeccionHandler{service: svc}
}

// List returns secciones filtered by nrc, centro, materia, profesor or
// calendario, with search and pagination.
func (h *SeccionHandler) List(c *gin.Context) {
	var filter models.SeccionFilter
	filter.NRC = strings.TrimSpace(c.Query("nrc"))
	filter.CentroID = queryInt64Ptr(c, "centro_id")
	filter.MateriaID = queryInt64Ptr(c, "materia_id")
	filter.ProfesorID = queryInt64Ptr(c, "profesor_id")
	filter.CalendarioID = queryInt64Ptr(c, "calendario_id")
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	secciones, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, secciones, pagination)
}

// Get returns a seccion by id.
func (h *SeccionHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	seccion, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, seccion, nil)
}

// GetClases returns the weekly meetings of a seccion.
func (h *SeccionHandler) GetClases(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	clases, err := h.service.GetClases(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clases, nil)
}

// Create adds a new seccion.
func (h *SeccionHandler) Create(c *gin.Context) {
	var req service.CreateSeccionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	seccion, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, seccion)
}

// Update modifies the mutable fields of a seccion.
func (h *SeccionHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.UpdateSeccionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	seccion, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, seccion, nil)
}

// Delete removes a seccion and its clases.
func (h *SeccionHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
