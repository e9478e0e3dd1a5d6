package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Albumate/Albumate-Back/auth"
	"github.com/Albumate/Albumate-Back/logger"
	"github.com/Albumate/Albumate-Back/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Response is the envelope of every JSON response, Code repeats the HTTP status
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

const messageOK = "ok"

var errorStatuses = []struct {
	err    error
	status int
}{
	{models.ErrInvalidFormat, http.StatusBadRequest},
	{models.ErrOwnerCannotLeave, http.StatusBadRequest},
	{models.ErrBadCredentials, http.StatusUnauthorized},
	{auth.ErrTokenMissing, http.StatusUnauthorized},
	{auth.ErrTokenExpired, http.StatusUnauthorized},
	{auth.ErrTokenMalformed, http.StatusUnauthorized},
	{auth.ErrTokenRevoked, http.StatusUnauthorized},
	{auth.ErrTokenInvalid, http.StatusUnauthorized},
	{models.ErrForbidden, http.StatusForbidden},
	{models.ErrUserNotFound, http.StatusNotFound},
	{models.ErrAlbumNotFound, http.StatusNotFound},
	{models.ErrInvitationNotFound, http.StatusNotFound},
	{models.ErrPhotoNotFound, http.StatusNotFound},
	{models.ErrNotMember, http.StatusNotFound},
	{models.ErrDuplicateUsername, http.StatusConflict},
	{models.ErrDuplicateNickname, http.StatusConflict},
	{models.ErrAlreadyMember, http.StatusConflict},
	{models.ErrPartialDelete, http.StatusInternalServerError},
}

// errorStatus maps an error to a status and a message that is safe to show
func errorStatus(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal error"
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Code: status, Message: messageOK, Data: data})
}

func respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			logger.String("method", c.Request.Method),
			logger.String("path", c.FullPath()),
			logger.ErrorField(err))
	}
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message})
}

func badRequest(c *gin.Context, reason error) {
	respondError(c, fmt.Errorf("%w: %v", models.ErrInvalidFormat, reason))
}

func bindJSON(c *gin.Context, r any) bool {
	if err := c.ShouldBindWith(r, binding.JSON); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

// paramID parses a positive numeric path parameter, responding with 400 otherwise
func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, fmt.Errorf("bad %s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}
