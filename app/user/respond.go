package user

import (
	"errors"
	"net/http"

	"pricecompare/account-api/internal/account"
	"pricecompare/account-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// authorizeTarget runs the ownership check every profile endpoint needs before
// touching any data. The caller was already authenticated by the middleware.
func authorizeTarget(c *gin.Context) (targetID string, ok bool) {
	requestID := c.MustGet("requestID").(string)
	caller := c.MustGet("user").(model.User)

	targetID = c.Param("id")

	if err := account.Authorize(caller, targetID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return "", false
	}

	return targetID, true
}

func respondProfileError(c *gin.Context, requestID string, err error) {
	switch {
	case errors.Is(err, account.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
	case errors.Is(err, account.ErrSameUsername),
		errors.Is(err, account.ErrSameEmail),
		errors.Is(err, account.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
	case errors.Is(err, account.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Profile operation failed", zap.Error(err), zap.String("requestID", requestID))
	}
}
