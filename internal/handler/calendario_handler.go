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

// CalendarioHandler handles academic term endpoints.
type CalendarioHandler struct {
	service *service.CalendarioService
}

// NewCalendarioHandler constructs a calendario handler.
func NewCalendarioHandler(svc *service.CalendarioService) *CalendarioHandler {
	return &CalendarioHandler{service: svc}
}

// List returns calendarios with optional search and pagination.
func (h *CalendarioHandler) List(c *gin.Context) {
	var filter models.CalendarioFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.SiiauID = strings.TrimSpace(c.Query("siiau_id"))
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	calendarios, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendarios, pagination)
}

// Get returns a calendario by id.
func (h *CalendarioHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	calendario, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendario, nil)
}

// Create adds a new calendario.
func (h *CalendarioHandler) Create(c *gin.Context) {
	var req service.CreateCalendarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	calendario, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, calendario)
}

// Update modifies an existing calendario.
func (h *CalendarioHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.UpdateCalendarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	calendario, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, calendario, nil)
}

// Delete removes a calendario.
func (h *CalendarioHandler) Delete(c *gin.Context) {
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
