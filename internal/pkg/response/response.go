// Package response renders the one JSON envelope every handler speaks:
// {"success":true,"data":...} on the happy path, or
// {"success":false,"error":{"code","message"}} with a machine-readable code
// the client can switch on and a message it can show as-is.
package response

import "github.com/gin-gonic/gin"

// Success writes payload under the success envelope.
func Success(c *gin.Context, statusCode int, payload interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    payload,
	})
}

// Error writes the error envelope. The code is stable API surface; the
// message is free to change.
func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
