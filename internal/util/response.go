package util

import "github.com/gin-gonic/gin"

// Response is the payload merged into every success body.
type Response map[string]interface{}

// Success writes a JSON success body with the given status.
func Success(c *gin.Context, status int, data Response) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail records the error for the centralized translator middleware and stops
// the handler chain. The middleware maps error kind to status and message.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
