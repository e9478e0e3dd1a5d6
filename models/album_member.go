package models

import (
	"fmt"

	"github.com/Albumate/Albumate-Back/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlbumMember struct {
	AlbumID  uint64 `gorm:"primaryKey"`
	Album    Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID   uint64 `gorm:"primaryKey;index"`
	User     User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	JoinedAt int64  `gorm:"autoCreateTime"`
}

// MemberAdd inserts the (album, user) pair, doing nothing if it is already there.
// tx can be a transaction or db.Instance.
func MemberAdd(tx *gorm.DB, albumID, userID uint64) error {
	member := AlbumMember{
		AlbumID: albumID,
		UserID:  userID,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
		return fmt.Errorf("add member %d to album %d: %w", userID, albumID, err)
	}
	return nil
}

// MemberRemove returns true if a membership was removed
func MemberRemove(albumID, userID uint64) (bool, error) {
	result := db.Instance.Delete(&AlbumMember{}, "album_id = ? AND user_id = ?", albumID, userID)
	if result.Error != nil {
		return false, fmt.Errorf("remove member %d from album %d: %w", userID, albumID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MemberList returns the memberships of an album with their users, in joining order
func MemberList(albumID uint64) (members []AlbumMember, err error) {
	err = db.Instance.
		Preload("User").
		Where("album_id = ?", albumID).
		Order("joined_at ASC, user_id ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list members of album %d: %w", albumID, err)
	}
	return members, nil
}

func MemberUserIDs(albumID uint64) (ids []uint64, err error) {
	err = db.Instance.Model(&AlbumMember{}).Where("album_id = ?", albumID).Order("user_id").Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list member ids of album %d: %w", albumID, err)
	}
	return ids, nil
}

func MemberAlbumIDs(userID uint64) (ids []uint64, err error) {
	err = db.Instance.Model(&AlbumMember{}).Where("user_id = ?", userID).Pluck("album_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list albums of member %d: %w", userID, err)
	}
	return ids, nil
}

func IsMember(albumID, userID uint64) (bool, error) {
	var count int64
	err := db.Instance.Model(&AlbumMember{}).Where("album_id = ? AND user_id = ?", albumID, userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check member %d of album %d: %w", userID, albumID, err)
	}
	return count > 0, nil
}

// AlbumLeave removes the caller from a live album. Owners have to delete the album instead.
func AlbumLeave(albumID, userID uint64) error {
	album, err := AlbumGet(albumID)
	if err != nil {
		return err
	}
	if album.OwnerID == userID {
		return ErrOwnerCannotLeave
	}
	removed, err := MemberRemove(albumID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotMember
	}
	return nil
}

// albumMemberCheck loads a live album and makes sure userID is one of its members
func albumMemberCheck(albumID, userID uint64) (Album, error) {
	album, err := AlbumGet(albumID)
	if err != nil {
		return Album{}, err
	}
	member, err := IsMember(albumID, userID)
	if err != nil {
		return Album{}, err
	}
	if !member {
		return Album{}, ErrForbidden
	}
	return album, nil
}
