package user

import (
	"net/http"

	"pricecompare/account-api/internal"
	"pricecompare/account-api/validators"

	"github.com/gin-gonic/gin"
)

type updateEmailBody struct {
	Email string `json:"email"`
}

func UserUpdateEmail(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	var data updateEmailBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	info, err := d.Account.UpdateEmail(c.Request.Context(), id, data.Email)
	if err != nil {
		respondProfileError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
