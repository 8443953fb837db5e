package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// fail writes the error envelope every endpoint shares.
func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// internalError hides the underlying error from clients unless the server
// runs in debug mode.
func internalError(c *gin.Context, msg string, err error, debug bool) {
	if debug && err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg, "detail": err.Error()})
		return
	}
	fail(c, http.StatusInternalServerError, msg)
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}
