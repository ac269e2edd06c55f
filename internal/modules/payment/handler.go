package payment

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
	rg.POST("/payments/:reservation_id/complete", h.Complete)
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("reservation_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation id")
		return
	}

	r, err := h.service.CompletePayment(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		case errors.Is(err, ErrInvalidState):
			response.Error(c, http.StatusUnprocessableEntity, "INVALID_STATE", "Reservation is not awaiting payment")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to complete payment")
		}
		return
	}

	response.Success(c, http.StatusOK, r)
}
