package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Albumate/Albumate-Back/db"
	"github.com/Albumate/Albumate-Back/utils"

	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

func (s InvitationStatus) Valid() bool {
	return s == InvitationPending || s == InvitationAccepted || s == InvitationRejected
}

// Invitation moves from pending to accepted or rejected, never back.
// PendingInvitee mirrors InviteeID while the invitation is pending and is NULL afterwards:
// the unique (album_id, pending_invitee) index allows a single pending invitation per invitee
// and album, while any number of decided ones can pile up.
type Invitation struct {
	ID             uint64           `gorm:"primaryKey"`
	CreatedAt      int64            `gorm:"index:invitee_created,priority:2"`
	UpdatedAt      int64
	AlbumID        uint64           `gorm:"not null;index:uniq_album_pending,unique,priority:1"`
	Album          Album            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	InviterID      uint64           `gorm:"not null"`
	Inviter        User             `gorm:"foreignKey:InviterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	InviteeID      uint64           `gorm:"not null;index:invitee_created,priority:1"`
	Invitee        User             `gorm:"foreignKey:InviteeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PendingInvitee *uint64          `gorm:"index:uniq_album_pending,unique,priority:2"`
	Token          string           `gorm:"type:varchar(100);not null;index:uniq_token,unique"`
	Status         InvitationStatus `gorm:"type:varchar(10);not null"`
}

type InviteResult struct {
	Invited     []uint64     // user ids that got a new pending invitation
	Ignored     []string     // unknown users, members and users already invited
	Invitations []Invitation // the new invitations, in the order of Invited
}

func newInvitation(albumID, inviterID, inviteeID uint64) Invitation {
	pending := inviteeID
	return Invitation{
		AlbumID:        albumID,
		InviterID:      inviterID,
		InviteeID:      inviteeID,
		PendingInvitee: &pending,
		Token:          utils.Rand16BytesToBase62(),
		Status:         InvitationPending,
	}
}

// liveAlbums is a subquery with the ids of albums that are not deleted
func liveAlbums(tx *gorm.DB) *gorm.DB {
	return tx.Model(&Album{}).Select("id")
}

func findPending(albumID, inviteeID uint64) (inv Invitation, found bool, err error) {
	result := db.Instance.
		Where("album_id = ? AND invitee_id = ? AND status = ?", albumID, inviteeID, InvitationPending).
		Limit(1).
		Find(&inv)
	if result.Error != nil {
		return Invitation{}, false, fmt.Errorf("find pending invitation: %w", result.Error)
	}
	return inv, result.RowsAffected > 0, nil
}

// invite creates a pending invitation unless there is one already, in which case
// that one is returned with created == false
func invite(albumID, inviterID, inviteeID uint64) (inv Invitation, created bool, err error) {
	if inv, found, err := findPending(albumID, inviteeID); err != nil || found {
		return inv, false, err
	}
	inv = newInvitation(albumID, inviterID, inviteeID)
	if err = db.Instance.Create(&inv).Error; err != nil {
		// Most likely a concurrent invite won the unique index, return that one
		if existing, found, findErr := findPending(albumID, inviteeID); findErr == nil && found {
			return existing, false, nil
		}
		return Invitation{}, false, fmt.Errorf("create invitation: %w", err)
	}
	return inv, true, nil
}

// InvitationCreate invites a single user. The inviter has to be a member of the album,
// the invitee must exist and not be a member yet.
func InvitationCreate(albumID, inviterID, inviteeID uint64) (Invitation, bool, error) {
	if _, err := albumMemberCheck(albumID, inviterID); err != nil {
		return Invitation{}, false, err
	}
	if _, err := UserFindByID(inviteeID); err != nil {
		return Invitation{}, false, err
	}
	member, err := IsMember(albumID, inviteeID)
	if err != nil {
		return Invitation{}, false, err
	}
	if member {
		return Invitation{}, false, ErrAlreadyMember
	}
	return invite(albumID, inviterID, inviteeID)
}

// InvitationInviteByIdentifiers invites users by username (email). Identifiers that don't
// resolve to a user, belong to a member, already have a pending invitation or repeat an
// earlier identifier end up in Ignored.
func InvitationInviteByIdentifiers(albumID, inviterID uint64, identifiers []string) (result InviteResult, err error) {
	if _, err = albumMemberCheck(albumID, inviterID); err != nil {
		return result, err
	}
	result.Invited = []uint64{}
	result.Ignored = []string{}

	lookup := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		if identifier = strings.TrimSpace(identifier); identifier != "" {
			lookup = append(lookup, identifier)
		}
	}
	users, err := UsersByUsernames(lookup)
	if err != nil {
		return result, err
	}

	seen := make(map[string]bool, len(identifiers))
	for _, identifier := range identifiers {
		trimmed := strings.TrimSpace(identifier)
		user, found := users[trimmed]
		if !found || seen[trimmed] {
			result.Ignored = append(result.Ignored, identifier)
			continue
		}
		seen[trimmed] = true
		member, err := IsMember(albumID, user.ID)
		if err != nil {
			return result, err
		}
		if member {
			result.Ignored = append(result.Ignored, identifier)
			continue
		}
		inv, created, err := invite(albumID, inviterID, user.ID)
		if err != nil {
			return result, err
		}
		if !created {
			result.Ignored = append(result.Ignored, identifier)
			continue
		}
		result.Invited = append(result.Invited, user.ID)
		result.Invitations = append(result.Invitations, inv)
	}
	return result, nil
}

// InvitationAccept accepts a pending invitation addressed to callerID and adds the
// caller to the album. A wrong token, somebody else's token and an already decided
// invitation all give ErrInvitationNotFound.
func InvitationAccept(token string, callerID uint64) (Invitation, error) {
	return decide(token, callerID, InvitationAccepted)
}

// InvitationReject is InvitationAccept without the membership
func InvitationReject(token string, callerID uint64) (Invitation, error) {
	return decide(token, callerID, InvitationRejected)
}

func decide(token string, callerID uint64, status InvitationStatus) (inv Invitation, err error) {
	if token == "" {
		return inv, ErrInvitationNotFound
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		// Only one of concurrent accept/reject calls can move it out of pending
		result := tx.Model(&Invitation{}).
			Where("token = ? AND invitee_id = ? AND status = ?", token, callerID, InvitationPending).
			Where("album_id IN (?)", liveAlbums(tx)).
			Updates(map[string]interface{}{"status": status, "pending_invitee": nil})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return ErrInvitationNotFound
		}
		if err := tx.Where("token = ?", token).First(&inv).Error; err != nil {
			return err
		}
		if status == InvitationAccepted {
			return MemberAdd(tx, inv.AlbumID, callerID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvitationNotFound) {
			return Invitation{}, err
		}
		return Invitation{}, fmt.Errorf("%s invitation: %w", status, err)
	}
	return inv, nil
}

// InvitationListForUser returns the invitations addressed to userID, newest first, with
// Album and Inviter loaded. An empty status means all of them.
func InvitationListForUser(userID uint64, status InvitationStatus) (invitations []Invitation, err error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidFormat
	}
	tx := db.Instance.
		Preload("Album").
		Preload("Inviter").
		Where("invitee_id = ?", userID).
		Where("album_id IN (?)", liveAlbums(db.Instance))
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if err = tx.Order("created_at DESC, id DESC").Find(&invitations).Error; err != nil {
		return nil, fmt.Errorf("list invitations of %d: %w", userID, err)
	}
	return invitations, nil
}
