package api

import (
	"errors"
	"net/http"
	"strings"

	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminContextKey = "admin"

// requireAdmin gates a route behind bearer-token admin identity. Token
// verification failures of any cause get one uniform 401; a valid token for
// a deactivated admin gets a 403. The admin record is re-resolved on every
// request, never cached.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			h.respondError(c, service.ErrUnauthenticated)
			c.Abort()
			return
		}

		admin, err := h.auth.ResolveAdmin(c.Request.Context(), strings.TrimPrefix(header, prefix))
		if err != nil {
			h.respondError(c, err)
			c.Abort()
			return
		}

		c.Set(adminContextKey, admin)
		c.Next()
	}
}

// currentAdmin returns the admin resolved by requireAdmin.
func currentAdmin(c *gin.Context) *models.Admin {
	admin, _ := c.MustGet(adminContextKey).(*models.Admin)
	return admin
}

// respondError maps domain errors onto the HTTP error taxonomy: not found
// 404, validation 400, unauthenticated 401, forbidden 403, anything else a
// generic 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var nf *store.NotFoundError
	var ve *service.ValidationError

	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
