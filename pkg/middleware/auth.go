package middleware

import (
	"errors"
	"net/http"
	"strings"

	"pricecompare/account-api/internal/account"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewAuthMiddleware guards the profile endpoints. It pulls the bearer token
// out of the Authorization header, resolves it to a user through the account
// service and stores the user in the context. Any invalid token, whatever the
// reason, gets the same 401 so callers can't tell expired from tampered from
// unknown-subject.
func NewAuthMiddleware(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			unauthorized(c, requestID)
			return
		}

		user, err := svc.UserFromToken(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, account.ErrUnauthorized) {
				c.Header("WWW-Authenticate", "Bearer")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Internal server error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to resolve bearer token", zap.Error(err), zap.String("requestID", requestID))
				return
			}

			unauthorized(c, requestID)
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, requestID string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":     account.ErrUnauthorized.Error(),
		"requestID": requestID,
	})
}
