package models

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Albumate/Albumate-Back/db"
	"github.com/Albumate/Albumate-Back/logger"
	"github.com/Albumate/Albumate-Back/storage"
	"github.com/Albumate/Albumate-Back/utils"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"
)

// sniffSize is how much of an upload is read to detect its type
const sniffSize = 3072

type Photo struct {
	ID               uint64 `gorm:"primaryKey"`
	AlbumID          uint64 `gorm:"not null;index:album_photo_uploaded,priority:1"`
	Album            Album  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UploaderID       uint64 `gorm:"not null;index"`
	Uploader         User   `gorm:"foreignKey:UploaderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Filename         string `gorm:"type:varchar(300);not null;index:uniq_filename,unique"` // path in the storage
	OriginalFilename string `gorm:"type:varchar(300)"`
	URL              string `gorm:"type:varchar(2000)"`
	MimeType         string `gorm:"type:varchar(50)"`
	Size             int64
	UploadedAt       int64 `gorm:"autoCreateTime;index:album_photo_uploaded,priority:2"`
}

// storedFileName builds a collision resistant storage path, e.g. albums/3/1718012345678901234_7Hk2x9_beach.jpg
func storedFileName(albumID uint64, sanitizedName string) string {
	return "albums/" + strconv.FormatUint(albumID, 10) + "/" +
		strconv.FormatInt(time.Now().UnixNano(), 10) + "_" + utils.Rand8BytesToBase62() + "_" + sanitizedName
}

func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	name = name[:max]
	for !utf8.ValidString(name) {
		name = name[:len(name)-1]
	}
	return name
}

// PhotoUpload stores the bytes first and the record second. Only images are accepted
// and only members of the album can upload.
func PhotoUpload(ctx context.Context, store storage.StorageAPI, reader io.Reader, originalFilename string, albumID, uploaderID uint64) (Photo, error) {
	if _, err := albumMemberCheck(albumID, uploaderID); err != nil {
		return Photo{}, err
	}
	name := utils.SanitizeFileName(originalFilename)
	if name == "" {
		return Photo{}, ErrInvalidFormat
	}

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Photo{}, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return Photo{}, ErrInvalidFormat
	}
	head = head[:n]
	mimeType := mimetype.Detect(head).String()
	if !strings.HasPrefix(mimeType, "image/") {
		return Photo{}, ErrInvalidFormat
	}

	filename := storedFileName(albumID, name)
	size, err := store.Save(ctx, filename, io.MultiReader(bytes.NewReader(head), reader), mimeType)
	if err != nil {
		return Photo{}, fmt.Errorf("store photo: %w", err)
	}
	photo := Photo{
		AlbumID:          albumID,
		UploaderID:       uploaderID,
		Filename:         filename,
		OriginalFilename: truncateName(originalFilename, 300),
		URL:              store.URL(filename),
		MimeType:         mimeType,
		Size:             size,
	}
	if err = db.Instance.Create(&photo).Error; err != nil {
		if delErr := store.Delete(ctx, filename); delErr != nil {
			logger.Warn("orphaned photo file", logger.String("filename", filename), logger.ErrorField(delErr))
		}
		return Photo{}, fmt.Errorf("create photo: %w", err)
	}
	return photo, nil
}

// PhotoListByAlbum lists the photos of an album, newest first. Members only.
func PhotoListByAlbum(albumID, callerID uint64) (photos []Photo, err error) {
	if _, err = albumMemberCheck(albumID, callerID); err != nil {
		return nil, err
	}
	err = db.Instance.Where("album_id = ?", albumID).Order("uploaded_at DESC, id DESC").Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("list photos of album %d: %w", albumID, err)
	}
	return photos, nil
}

// findPhoto loads a photo of a live album
func findPhoto(id uint64) (photo Photo, err error) {
	err = db.Instance.Where("album_id IN (?)", liveAlbums(db.Instance)).First(&photo, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Photo{}, ErrPhotoNotFound
	}
	if err != nil {
		return Photo{}, fmt.Errorf("get photo %d: %w", id, err)
	}
	return photo, nil
}

// PhotoGet returns ErrPhotoNotFound to anyone who is not a member of the photo's album
func PhotoGet(id, callerID uint64) (Photo, error) {
	photo, err := findPhoto(id)
	if err != nil {
		return Photo{}, err
	}
	member, err := IsMember(photo.AlbumID, callerID)
	if err != nil {
		return Photo{}, err
	}
	if !member {
		return Photo{}, ErrPhotoNotFound
	}
	return photo, nil
}

// PhotoDelete removes the stored file and then the record. The uploader and the album
// owner may delete. A file that is already gone is not an error; any other storage
// failure leaves both in place. If the record can't be removed after the file is gone,
// ErrPartialDelete is returned.
func PhotoDelete(ctx context.Context, store storage.StorageAPI, id, callerID uint64) error {
	photo, err := findPhoto(id)
	if err != nil {
		return err
	}
	if photo.UploaderID != callerID {
		album, err := AlbumGet(photo.AlbumID)
		if err != nil {
			return err
		}
		if album.OwnerID != callerID {
			member, err := IsMember(photo.AlbumID, callerID)
			if err != nil {
				return err
			}
			if !member {
				return ErrPhotoNotFound
			}
			return ErrForbidden
		}
	}

	err = store.Delete(ctx, photo.Filename)
	if errors.Is(err, storage.ErrNotExist) {
		logger.Warn("photo file already missing", logger.Uint64("photo", photo.ID), logger.String("filename", photo.Filename))
	} else if err != nil {
		return fmt.Errorf("delete photo file: %w", err)
	}

	if err = db.Instance.Delete(&Photo{}, photo.ID).Error; err != nil {
		logger.Error("photo record left behind", logger.Uint64("photo", photo.ID), logger.ErrorField(err))
		return fmt.Errorf("%w: %v", ErrPartialDelete, err)
	}
	return nil
}
