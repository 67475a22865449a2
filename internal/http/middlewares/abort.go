package middlewares

import "github.com/gin-gonic/gin"

// abortJSON stops the chain with the same envelope the handlers use.
func abortJSON(c *gin.Context, status int, code, message string) {
	body := gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	}
	if id, ok := c.Get(CtxRequestID); ok {
		body["requestId"] = id
	}
	c.AbortWithStatusJSON(status, body)
}
