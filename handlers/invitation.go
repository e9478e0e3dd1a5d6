package handlers

import (
	"net/http"

	"github.com/Albumate/Albumate-Back/logger"
	"github.com/Albumate/Albumate-Back/models"
	"github.com/Albumate/Albumate-Back/push"

	"github.com/gin-gonic/gin"
)

type InvitationInfo struct {
	InviteToken     string                  `json:"invite_token"`
	AlbumID         uint64                  `json:"album_id"`
	AlbumTitle      string                  `json:"album_title"`
	InviterID       uint64                  `json:"inviter_id"`
	InviterNickname string                  `json:"inviter_nickname"`
	InviteeID       uint64                  `json:"invitee_id"`
	Status          models.InvitationStatus `json:"status"`
	CreatedAt       int64                   `json:"created_at"`
}

// InvitationList lists the invitations of the caller, ?status=pending|accepted|rejected filters them
func InvitationList(c *gin.Context, user *models.User) {
	invitations, err := models.InvitationListForUser(user.ID, models.InvitationStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	result := make([]InvitationInfo, 0, len(invitations))
	for _, inv := range invitations {
		result = append(result, InvitationInfo{
			InviteToken:     inv.Token,
			AlbumID:         inv.AlbumID,
			AlbumTitle:      inv.Album.Title,
			InviterID:       inv.InviterID,
			InviterNickname: inv.Inviter.Nickname,
			InviteeID:       inv.InviteeID,
			Status:          inv.Status,
			CreatedAt:       inv.CreatedAt,
		})
	}
	respond(c, http.StatusOK, result)
}

func invitationDecide(c *gin.Context, user *models.User, decide func(string, uint64) (models.Invitation, error)) {
	inv, err := decide(c.Param("token"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if album, err := models.AlbumGet(inv.AlbumID); err == nil {
		go push.InvitationDecided(&inv, &album, user)
	} else {
		logger.Warn("no album for decided invitation", logger.Uint64("album", inv.AlbumID), logger.ErrorField(err))
	}
	respond(c, http.StatusOK, gin.H{"album_id": inv.AlbumID, "status": inv.Status})
}

func InvitationAccept(c *gin.Context, user *models.User) {
	invitationDecide(c, user, models.InvitationAccept)
}

func InvitationReject(c *gin.Context, user *models.User) {
	invitationDecide(c, user, models.InvitationReject)
}
