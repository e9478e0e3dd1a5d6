package handlers

import (
	"github.com/Albumate/Albumate-Back/auth"
	"github.com/Albumate/Albumate-Back/utils"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every end-point. Handlers taking a *models.User go through
// auth.Router and need a valid bearer token.
func SetupRoutes(router gin.IRouter) {
	authRouter := &auth.Router{Base: router}

	// User handlers
	router.POST("/auth/register", UserRegister)
	router.POST("/auth/login", UserLogin)
	router.POST("/auth/refresh", UserRefresh)
	router.GET("/auth/email-check", UserEmailCheck)
	router.GET("/auth/nickname-check", UserNicknameCheck)
	authRouter.POST("/auth/logout", UserLogout)
	authRouter.GET("/auth/:id", UserGetInfo)

	// Album handlers
	authRouter.POST("/albums", AlbumCreate)
	authRouter.GET("/albums", AlbumList)
	authRouter.GET("/albums/:id", AlbumGet)
	authRouter.DELETE("/albums/:id", AlbumDelete)
	authRouter.GET("/albums/:id/my", AlbumMy)
	authRouter.POST("/albums/:id/invite", AlbumInvite)
	authRouter.GET("/albums/:id/members", AlbumMembers)
	authRouter.POST("/albums/:id/leave", AlbumLeave)

	// Invitation handlers
	authRouter.GET("/albums/invitations", InvitationList)
	authRouter.POST("/albums/invitations/:token/accept", InvitationAccept)
	authRouter.POST("/albums/invitations/:token/reject", InvitationReject)

	// Photo handlers
	authRouter.POST("/photos", PhotoUpload)
	authRouter.GET("/photos", PhotoList)
	authRouter.GET("/photos/:id", PhotoGet)
	authRouter.DELETE("/photos/:id", PhotoDelete)
	// Stored names are unique, the bytes behind them never change
	router.GET("/uploads/*path", (&utils.CacheRouter{CacheTime: utils.CacheOneYear, Immutable: true}).Handler(), PhotoFile)

	// Live notifications
	authRouter.GET("/ws", WebSocket)
}
