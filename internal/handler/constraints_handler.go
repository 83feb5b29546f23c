package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
	"github.com/smarttimetable/timetable-ace-api/pkg/response"
)

type constraintsService interface {
	Get(ctx context.Context) (models.Constraints, error)
	Update(ctx context.Context, userID string, constraints models.Constraints) (models.Constraints, error)
}

// ConstraintsHandler exposes the scheduling constraints document.
type ConstraintsHandler struct {
	service constraintsService
}

// NewConstraintsHandler constructs the handler.
func NewConstraintsHandler(service constraintsService) *ConstraintsHandler {
	return &ConstraintsHandler{service: service}
}

// Get godoc
// @Summary Get scheduling constraints
// @Tags Constraints
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /constraints [get]
func (h *ConstraintsHandler) Get(c *gin.Context) {
	constraints, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraints, nil)
}

// Update godoc
// @Summary Replace scheduling constraints
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body models.Constraints true "Constraints document"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /constraints [put]
func (h *ConstraintsHandler) Update(c *gin.Context) {
	var constraints models.Constraints
	if err := c.ShouldBindJSON(&constraints); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraints payload"))
		return
	}

	saved, err := h.service.Update(c.Request.Context(), currentUserID(c), constraints)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}
