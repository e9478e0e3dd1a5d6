package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Albumate/Albumate-Back/db"

	"gorm.io/gorm"
)

type Album struct {
	ID          uint64         `gorm:"primaryKey"`
	OwnerID     uint64         `gorm:"not null;index:owner_album_created,priority:1"`
	Owner       User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   int64          `gorm:"index:owner_album_created,priority:2"`
	Title       string         `gorm:"type:varchar(300);not null"`
	Description string         `gorm:"type:varchar(2000)"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	IsOwner     bool           `gorm:"-"` // relative to the user the album was listed for
}

const albumOrder = "albums.created_at DESC, albums.id DESC"

// AlbumCreate stores the album and the owner's membership in one transaction,
// so nobody can see the album without its owner as a member
func AlbumCreate(ownerID uint64, title, description string) (album Album, err error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 300 || len(description) > 2000 {
		return album, ErrInvalidFormat
	}
	album = Album{
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(description),
	}
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&User{}, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if err := tx.Create(&album).Error; err != nil {
			return err
		}
		return MemberAdd(tx, album.ID, ownerID)
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Album{}, err
		}
		return Album{}, fmt.Errorf("create album: %w", err)
	}
	album.IsOwner = true
	return album, nil
}

func AlbumGet(id uint64) (album Album, err error) {
	err = db.Instance.First(&album, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Album{}, ErrAlbumNotFound
	}
	if err != nil {
		return Album{}, fmt.Errorf("get album %d: %w", id, err)
	}
	return album, nil
}

// AlbumDelete soft-deletes the album. Its members, invitations and photos stay in their
// tables but every read goes through a live album, so they are gone for the callers.
func AlbumDelete(id, callerID uint64) error {
	album, err := AlbumGet(id)
	if err != nil {
		return err
	}
	if album.OwnerID != callerID {
		return ErrForbidden
	}
	result := db.Instance.Delete(&album)
	if result.Error != nil {
		return fmt.Errorf("delete album %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		// deleted concurrently
		return ErrAlbumNotFound
	}
	return nil
}

func AlbumListAll() (albums []Album, err error) {
	if err = db.Instance.Order(albumOrder).Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	return albums, nil
}

func AlbumListByOwner(ownerID uint64) (albums []Album, err error) {
	if err = db.Instance.Where("owner_id = ?", ownerID).Order(albumOrder).Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("list albums of %d: %w", ownerID, err)
	}
	return albums, nil
}

// AlbumListForUser returns the albums the user owns or is a member of, each once, newest first
func AlbumListForUser(userID uint64) ([]Album, error) {
	own, err := AlbumListByOwner(userID)
	if err != nil {
		return nil, err
	}
	memberOf, err := MemberAlbumIDs(userID)
	if err != nil {
		return nil, err
	}
	var joined []Album
	if len(memberOf) > 0 {
		if err = db.Instance.Where("id IN ?", memberOf).Find(&joined).Error; err != nil {
			return nil, fmt.Errorf("list joined albums of %d: %w", userID, err)
		}
	}

	seen := make(map[uint64]bool, len(own)+len(joined))
	result := make([]Album, 0, len(own)+len(joined))
	for _, list := range [][]Album{own, joined} {
		for _, album := range list {
			if seen[album.ID] {
				continue
			}
			seen[album.ID] = true
			album.IsOwner = album.OwnerID == userID
			result = append(result, album)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}
