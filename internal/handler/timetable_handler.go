package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
	"github.com/smarttimetable/timetable-ace-api/pkg/response"
)

type timetableService interface {
	Generate(ctx context.Context, userID string, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	Latest(ctx context.Context, role models.UserRole) (*dto.LatestTimetableResponse, error)
	Clear(ctx context.Context, userID string) error
}

// TimetableHandler exposes generation endpoints.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(service timetableService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// Generate godoc
// @Summary Generate a new timetable
// @Description Runs the scheduling engine over the current datasets. An optional scenario applies temporary what-if adjustments for this run only.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest false "Optional scenario"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
			return
		}
	}

	res, err := h.service.Generate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Latest godoc
// @Summary Get the latest stored timetable
// @Description Administrators always receive an empty result so their workspace starts clean.
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/latest [get]
func (h *TimetableHandler) Latest(c *gin.Context) {
	var role models.UserRole
	if claims := claimsFromContext(c); claims != nil {
		role = claims.Role
	}

	res, err := h.service.Latest(c.Request.Context(), role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Clear godoc
// @Summary Clear the stored timetable
// @Tags Timetable
// @Produce json
// @Success 204
// @Router /timetable [delete]
func (h *TimetableHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
