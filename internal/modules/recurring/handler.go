package recurring

import (
	"errors"
	"net/http"
	"strconv"

	"venuebook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recurring-reservations", h.Create)
	rg.DELETE("/recurring-reservations/:id", h.CancelSeries)
	rg.DELETE("/recurring-reservations/:id/occurrences/:rid", h.CancelOccurrence)
	rg.PATCH("/recurring-reservations/:id/occurrences/:rid", h.ModifyOccurrence)
}

// RegisterAdminRoutes mounts the platform-wide series listing; the caller
// guards it with admin middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/recurring-reservations", h.ListActive)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.CreatedByID = c.GetInt64("user_id")

	rr, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rr)
}

func (h *Handler) CancelSeries(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid series id")
		return
	}

	rr, err := h.service.CancelSeries(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rr)
}

func (h *Handler) CancelOccurrence(c *gin.Context) {
	seriesID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid series id")
		return
	}
	reservationID, err := strconv.ParseInt(c.Param("rid"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return
	}

	occ, err := h.service.CancelOccurrence(c.Request.Context(), seriesID, reservationID, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, occ)
}

func (h *Handler) ModifyOccurrence(c *gin.Context) {
	reservationID, err := strconv.ParseInt(c.Param("rid"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return
	}

	var req ModifyOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.ReservationID = reservationID
	req.ActorID = c.GetInt64("user_id")

	occ, err := h.service.ModifyOccurrence(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, occ)
}

func (h *Handler) ListActive(c *gin.Context) {
	series, err := h.service.ActiveSeries(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, series)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recurring reservation request")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Series or occurrence not found")
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotAllowed):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "One or more occurrences overlap an existing reservation")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_STATE", "Operation not allowed in the current state")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process recurring reservation")
	}
}
