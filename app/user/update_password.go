package user

import (
	"net/http"

	"pricecompare/account-api/internal"
	"pricecompare/account-api/validators"

	"github.com/gin-gonic/gin"
)

type updatePasswordBody struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserUpdatePassword requires the current password to be re-supplied and
// checked before the new one is accepted.
func UserUpdatePassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	var data updatePasswordBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	info, err := d.Account.UpdatePassword(c.Request.Context(), id, data.CurrentPassword, data.NewPassword)
	if err != nil {
		respondProfileError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
