package user

import (
	"errors"
	"net/http"

	"pricecompare/account-api/internal"
	"pricecompare/account-api/internal/account"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verifyBody struct {
	UserName         string `json:"user_name"`
	VerificationCode string `json:"verification_code"`
}

func UserVerify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err := d.Account.Redeem(c.Request.Context(), data.UserName, data.VerificationCode)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrVerificationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, account.ErrInvalidCode), errors.Is(err, account.ErrAlreadyVerified):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to redeem verification code", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verified successfully",
	})
}
