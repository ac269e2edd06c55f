package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"venuebook/internal/pkg/jwt"
	"venuebook/internal/pkg/response"
	"venuebook/internal/repository"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the Authorization bearer token and puts user_id and
// role into the Gin context for downstream handlers.
func JWTAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.Error(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "AUTH_INVALID", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OwnershipChecker provides middleware to verify resource ownership
type OwnershipChecker struct {
	venueRepo *repository.VenueRepository
}

// NewOwnershipChecker creates a new ownership checker
func NewOwnershipChecker(venueRepo *repository.VenueRepository) *OwnershipChecker {
	return &OwnershipChecker{venueRepo: venueRepo}
}

// CheckVenueOwnership verifies the user owns the venue.
// Expects venue ID in URL param "id".
func (oc *OwnershipChecker) CheckVenueOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		venueID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid venue ID")
			c.Abort()
			return
		}

		venue, err := oc.venueRepo.GetByID(c.Request.Context(), venueID)
		if err != nil {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Venue not found")
			c.Abort()
			return
		}

		if venue.OwnerID != userID {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this venue")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CheckSpaceOwnership verifies the user owns the venue that owns the space.
// Expects space ID in URL param "id".
func (oc *OwnershipChecker) CheckSpaceOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid space ID")
			c.Abort()
			return
		}

		space, err := oc.venueRepo.GetSpace(c.Request.Context(), spaceID)
		if err != nil {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Space not found")
			c.Abort()
			return
		}

		venue, err := oc.venueRepo.GetByID(c.Request.Context(), space.VenueID)
		if err != nil {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Venue not found")
			c.Abort()
			return
		}

		if venue.OwnerID != userID {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this resource")
			c.Abort()
			return
		}

		c.Next()
	}
}
