package user

import (
	"errors"
	"net/http"

	"pricecompare/account-api/internal"
	"pricecompare/account-api/internal/account"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLogin exchanges form-encoded credentials for a bearer token. All three
// rejection reasons come back as 401 with the reason in the message text.
func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Username field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Password field can't be empty",
			"requestID": requestID,
		})
		return
	}

	token, err := d.Account.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUserNotFound),
			errors.Is(err, account.ErrWrongPassword),
			errors.Is(err, account.ErrNotVerified):
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})

			zap.L().Debug("Login rejected", zap.Error(err), zap.String("requestID", requestID))
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to authenticate user", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
