package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Albumate/Albumate-Back/auth"
	"github.com/Albumate/Albumate-Back/logger"
	"github.com/Albumate/Albumate-Back/models"

	"github.com/gin-gonic/gin"
)

type UserRegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

type UserLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserInfo struct {
	ID       uint64 `json:"user_id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}

type LoginResponse struct {
	auth.TokenPair
	UserID   uint64 `json:"user_id"`
	Nickname string `json:"nickname"`
}

func UserRegister(c *gin.Context) {
	r := UserRegisterRequest{}
	if !bindJSON(c, &r) {
		return
	}
	user, err := models.UserRegister(r.Username, r.Password, r.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("user registered", logger.Uint64("user", user.ID))
	respond(c, http.StatusCreated, gin.H{"user_id": user.ID})
}

// UserLogin doesn't tell unknown users and wrong passwords apart
func UserLogin(c *gin.Context) {
	r := UserLoginRequest{}
	if !bindJSON(c, &r) {
		return
	}
	user, err := models.UserVerify(r.Username, r.Password)
	if errors.Is(err, models.ErrUserNotFound) {
		err = models.ErrBadCredentials
	}
	if err != nil {
		respondError(c, err)
		return
	}
	pair, err := auth.Tokens.Issue(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, LoginResponse{
		TokenPair: pair,
		UserID:    user.ID,
		Nickname:  user.Nickname,
	})
}

// UserLogout revokes the access token of the request and, when given, the refresh token
func UserLogout(c *gin.Context, user *models.User) {
	ctx := c.Request.Context()
	if err := auth.Tokens.Revoke(ctx, auth.TokenFromHeader(c.GetHeader("Authorization"))); err != nil {
		respondError(c, err)
		return
	}
	r := RefreshRequest{}
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &r) {
			return
		}
	}
	if r.RefreshToken != "" {
		if err := auth.Tokens.Revoke(ctx, r.RefreshToken); err != nil && !auth.IsTokenError(err) {
			respondError(c, err)
			return
		}
	}
	respond(c, http.StatusOK, nil)
}

func UserRefresh(c *gin.Context) {
	r := RefreshRequest{}
	if !bindJSON(c, &r) {
		return
	}
	pair, err := auth.Tokens.Refresh(c.Request.Context(), r.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, pair)
}

func availability(c *gin.Context, check func(string) (bool, error)) {
	value := strings.TrimSpace(c.Query("value"))
	if value == "" {
		badRequest(c, errors.New("value is required"))
		return
	}
	available, err := check(value)
	if err != nil {
		respondError(c, err)
		return
	}
	if !available {
		c.JSON(http.StatusConflict, Response{Code: http.StatusConflict, Message: "taken", Data: gin.H{"available": false}})
		return
	}
	respond(c, http.StatusOK, gin.H{"available": true})
}

func UserEmailCheck(c *gin.Context) {
	availability(c, func(value string) (bool, error) {
		if !models.ValidUsername(value) {
			return false, fmt.Errorf("%w: not an email", models.ErrInvalidFormat)
		}
		return models.UsernameAvailable(value)
	})
}

func UserNicknameCheck(c *gin.Context) {
	availability(c, models.NicknameAvailable)
}

func UserGetInfo(c *gin.Context, _ *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := models.UserFindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Nickname: user.Nickname,
	})
}
