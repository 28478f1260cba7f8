package user

import (
	"net/http"

	"pricecompare/account-api/internal"

	"github.com/gin-gonic/gin"
)

func UserDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	if err := d.Account.Delete(c.Request.Context(), id); err != nil {
		respondProfileError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}
