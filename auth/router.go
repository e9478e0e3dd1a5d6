package auth

import (
	"net/http"

	"github.com/Albumate/Albumate-Back/logger"
	"github.com/Albumate/Albumate-Back/models"

	"github.com/gin-gonic/gin"
)

// User is authenticated and loaded
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper class that adds bearer token checks + User pre-loading
type Router struct {
	Base gin.IRouter
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": message, "data": nil})
}

// Authenticate returns the user presenting a valid access token. It responds with 401 and
// returns nil otherwise.
func (cr *Router) Authenticate(c *gin.Context) *models.User {
	userID, err := Tokens.Validate(c.Request.Context(), TokenFromHeader(c.GetHeader("Authorization")))
	if err != nil {
		if !IsTokenError(err) {
			logger.Error("token validation", logger.ErrorField(err))
			unauthorized(c, "access denied")
			return nil
		}
		unauthorized(c, err.Error())
		return nil
	}
	user, err := models.UserFindByID(userID)
	if err != nil {
		unauthorized(c, "access denied")
		return nil
	}
	return &user
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc) {
	user := cr.Authenticate(c)
	if user == nil {
		return
	}
	handler(c, user)
}

func (cr *Router) POST(path string, handler HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) DELETE(path string, handler HandlerFunc) {
	cr.Base.DELETE(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}
