package handlers

import (
	"github.com/gin-gonic/gin"

	"teamtrack/internal/authz"
	"teamtrack/internal/middleware"
)

func getUserAndRole(c *gin.Context) (userID string, role authz.Role) {
	if v, ok := c.Get(middleware.CtxUserID); ok {
		userID, _ = v.(string)
	}
	if v, ok := c.Get(middleware.CtxRole); ok {
		role, _ = v.(authz.Role)
	}
	return
}
