package user

import (
	"net/http"

	"pricecompare/account-api/internal"

	"github.com/gin-gonic/gin"
)

func UserFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := authorizeTarget(c)
	if !ok {
		return
	}

	info, err := d.Account.GetByID(c.Request.Context(), id)
	if err != nil {
		respondProfileError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
