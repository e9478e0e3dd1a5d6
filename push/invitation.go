package push

import (
	"strconv"

	"github.com/Albumate/Albumate-Back/models"
)

// InvitationCreated tells the invitee about a new invitation
func InvitationCreated(inv *models.Invitation, album *models.Album, inviter *models.User) {
	Send(inv.InviteeID, &Notification{
		Type:  NotificationTypeInvitation,
		Title: "Album \"" + album.Title + "\"",
		Body:  inviter.Nickname + " invited you to the album",
		Data: map[string]string{
			"album_id":     strconv.FormatUint(inv.AlbumID, 10),
			"invite_token": inv.Token,
			"inviter":      inviter.Nickname,
		},
	})
}

// InvitationDecided tells the inviter that the invitee accepted or rejected
func InvitationDecided(inv *models.Invitation, album *models.Album, invitee *models.User) {
	notification := Notification{
		Type:  NotificationTypeInvitationAccepted,
		Title: "Album \"" + album.Title + "\"",
		Body:  invitee.Nickname + " joined the album",
		Data: map[string]string{
			"album_id": strconv.FormatUint(inv.AlbumID, 10),
			"user_id":  strconv.FormatUint(invitee.ID, 10),
			"nickname": invitee.Nickname,
		},
	}
	if inv.Status == models.InvitationRejected {
		notification.Type = NotificationTypeInvitationRejected
		notification.Body = invitee.Nickname + " declined the invitation"
	}
	Send(inv.InviterID, &notification)
}
