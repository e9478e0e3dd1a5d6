package handlers

import (
	"errors"
	"net/http"

	"github.com/Albumate/Albumate-Back/models"
	"github.com/Albumate/Albumate-Back/push"

	"github.com/gin-gonic/gin"
)

type AlbumInfo struct {
	ID          uint64 `json:"id"`
	OwnerID     uint64 `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"created_at"`
	IsOwner     bool   `json:"is_owner"`
}

type MemberInfo struct {
	UserID   uint64 `json:"user_id"`
	Nickname string `json:"nickname"`
	JoinedAt int64  `json:"joined_at"`
}

type AlbumCreateRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	InviteEmails []string `json:"invite_emails"`
}

// AlbumInviteRequest takes either a list of emails or a single user id
type AlbumInviteRequest struct {
	InviteEmails []string `json:"invite_emails"`
	UserID       uint64   `json:"user_id"`
}

type InviteResponse struct {
	Invited []uint64 `json:"invited"`
	Ignored []string `json:"ignored"`
}

func albumInfo(album *models.Album, userID uint64) AlbumInfo {
	return AlbumInfo{
		ID:          album.ID,
		OwnerID:     album.OwnerID,
		Title:       album.Title,
		Description: album.Description,
		CreatedAt:   album.CreatedAt,
		IsOwner:     album.OwnerID == userID,
	}
}

func albumInfos(albums []models.Album, userID uint64) []AlbumInfo {
	result := make([]AlbumInfo, 0, len(albums))
	for i := range albums {
		result = append(result, albumInfo(&albums[i], userID))
	}
	return result
}

func notifyInvited(invitations []models.Invitation, album *models.Album, inviter *models.User) {
	for i := range invitations {
		push.InvitationCreated(&invitations[i], album, inviter)
	}
}

func AlbumCreate(c *gin.Context, user *models.User) {
	r := AlbumCreateRequest{}
	if !bindJSON(c, &r) {
		return
	}
	album, err := models.AlbumCreate(user.ID, r.Title, r.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	result := models.InviteResult{Invited: []uint64{}, Ignored: []string{}}
	if len(r.InviteEmails) > 0 {
		if result, err = models.InvitationInviteByIdentifiers(album.ID, user.ID, r.InviteEmails); err != nil {
			respondError(c, err)
			return
		}
		go notifyInvited(result.Invitations, &album, user)
	}
	respond(c, http.StatusCreated, gin.H{
		"album_id": album.ID,
		"invited":  result.Invited,
		"ignored":  result.Ignored,
	})
}

func AlbumList(c *gin.Context, user *models.User) {
	albums, err := models.AlbumListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, albumInfos(albums, user.ID))
}

func AlbumGet(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	album, err := models.AlbumGet(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, albumInfo(&album, user.ID))
}

func AlbumDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := models.AlbumDelete(id, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AlbumMy lists the albums owned or joined by the user in the path, which has to be the caller
func AlbumMy(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id != user.ID {
		respondError(c, models.ErrForbidden)
		return
	}
	albums, err := models.AlbumListForUser(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, albumInfos(albums, user.ID))
}

func AlbumInvite(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r := AlbumInviteRequest{}
	if !bindJSON(c, &r) {
		return
	}
	if len(r.InviteEmails) == 0 && r.UserID == 0 {
		badRequest(c, errors.New("invite_emails or user_id is required"))
		return
	}
	album, err := models.AlbumGet(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if r.UserID != 0 {
		inv, created, err := models.InvitationCreate(id, user.ID, r.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		if created {
			go push.InvitationCreated(&inv, &album, user)
		}
		respond(c, http.StatusCreated, gin.H{"invite_token": inv.Token})
		return
	}

	result, err := models.InvitationInviteByIdentifiers(id, user.ID, r.InviteEmails)
	if err != nil {
		respondError(c, err)
		return
	}
	go notifyInvited(result.Invitations, &album, user)
	respond(c, http.StatusCreated, InviteResponse{Invited: result.Invited, Ignored: result.Ignored})
}

func AlbumMembers(c *gin.Context, _ *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := models.AlbumGet(id); err != nil {
		respondError(c, err)
		return
	}
	members, err := models.MemberList(id)
	if err != nil {
		respondError(c, err)
		return
	}
	result := make([]MemberInfo, 0, len(members))
	for _, m := range members {
		result = append(result, MemberInfo{
			UserID:   m.UserID,
			Nickname: m.User.Nickname,
			JoinedAt: m.JoinedAt,
		})
	}
	respond(c, http.StatusOK, result)
}

func AlbumLeave(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := models.AlbumLeave(id, user.ID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}
