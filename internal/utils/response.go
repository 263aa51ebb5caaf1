package utils

import (
	"collabnote/internal/errs"

	"github.com/gin-gonic/gin"
)

// Success writes a 200 envelope carrying data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, errs.Ok(data, "ok"))
}

// SuccessMsg writes a 200 envelope with an explicit message.
func SuccessMsg(c *gin.Context, message string, data interface{}) {
	c.JSON(200, errs.Ok(data, message))
}

// Error writes a failure envelope and aborts the chain.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errs.Result[any]{Error: true, Message: message})
}

// Fail writes a failure envelope for a service error, picking the status
// from its kind.
func Fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errs.HTTPStatus(err), errs.Fail[any](err))
}

// Respond writes either a success envelope with data or a failure envelope.
func Respond(c *gin.Context, data interface{}, err error, message string) {
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessMsg(c, message, data)
}
