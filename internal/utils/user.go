package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key the auth middleware stores the caller under.
const ContextUserID = "user_id"

func GetUserID(c *gin.Context) (uint, error) {
	uidRaw, exists := c.Get(ContextUserID)
	if !exists {
		return 0, errors.New("unauthorized")
	}

	switch uid := uidRaw.(type) {
	case uint:
		return uid, nil
	case string:
		parsed, err := strconv.ParseUint(uid, 10, 32)
		if err != nil {
			return 0, errors.New("malformed user id")
		}
		return uint(parsed), nil
	default:
		return 0, errors.New("malformed user id")
	}
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(id), nil
}
