package user

import (
	"net/http"

	"pricecompare/account-api/internal"
	"pricecompare/account-api/validators"

	"github.com/gin-gonic/gin"
)

type updateUsernameBody struct {
	Username string `json:"username"`
}

func UserUpdateUsername(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	var data updateUsernameBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.UsernameValidator(data.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	info, err := d.Account.UpdateUsername(c.Request.Context(), id, data.Username)
	if err != nil {
		respondProfileError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
