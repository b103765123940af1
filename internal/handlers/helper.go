package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseTokenParam reads a URL token parameter, rejecting blanks.
func ParseTokenParam(c *gin.Context, param string) string {
	token := strings.TrimSpace(c.Param(param))
	if token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "token cannot be empty",
		})
		return ""
	}
	return token
}

// ParseIDParam reads a numeric URL parameter. Returns 0 after writing the
// error response when the value is not a valid id.
func ParseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "must be a positive integer",
		})
		return 0
	}
	return uint(id)
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// accessCode reads the access code from the X-Access-Code header or the
// access_code query parameter.
func accessCode(c *gin.Context) string {
	if code := c.GetHeader("X-Access-Code"); code != "" {
		return code
	}
	return c.Query("access_code")
}

// editToken reads the edit token from the X-Edit-Token header or the
// edit_token query parameter.
func editToken(c *gin.Context) string {
	if token := c.GetHeader("X-Edit-Token"); token != "" {
		return token
	}
	return c.Query("edit_token")
}
