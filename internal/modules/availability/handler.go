package availability

import (
	"net/http"
	"strconv"

	"venuebook/internal/domain"
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
	rg.GET("/spaces/:id/availability", h.GetDayUnavailability)
}

// RegisterOwnerRoutes carries the rule-management endpoints; the caller is
// expected to guard the group with ownership middleware.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.POST("/venues/:id/availability-rules", h.CreateRule)
}

func (h *Handler) CreateRule(c *gin.Context) {
	venueID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid venue id")
		return
	}

	var rule domain.AvailabilityRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	rule.VenueID = venueID

	if err := h.service.CreateRule(c.Request.Context(), &rule); err != nil {
		if err == ErrValidation {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rule window must lie inside a single day")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create availability rule")
		return
	}
	response.Success(c, http.StatusCreated, rule)
}

func (h *Handler) GetDayUnavailability(c *gin.Context) {
	spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space id")
		return
	}
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing date parameter")
		return
	}

	out, err := h.service.GetDayUnavailability(c.Request.Context(), spaceID, date)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Space not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute availability")
		}
		return
	}

	response.Success(c, http.StatusOK, out)
}
