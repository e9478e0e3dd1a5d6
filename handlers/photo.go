package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Albumate/Albumate-Back/config"
	"github.com/Albumate/Albumate-Back/models"
	"github.com/Albumate/Albumate-Back/storage"

	"github.com/gin-gonic/gin"
)

type PhotoInfo struct {
	ID               uint64 `json:"id"`
	AlbumID          uint64 `json:"album_id"`
	UploaderID       uint64 `json:"uploader_id"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	URL              string `json:"url"`
	MimeType         string `json:"mime_type"`
	Size             int64  `json:"size"`
	UploadedAt       int64  `json:"uploaded_at"`
}

func photoInfo(p *models.Photo) PhotoInfo {
	return PhotoInfo{
		ID:               p.ID,
		AlbumID:          p.AlbumID,
		UploaderID:       p.UploaderID,
		Filename:         p.Filename,
		OriginalFilename: p.OriginalFilename,
		URL:              p.URL,
		MimeType:         p.MimeType,
		Size:             p.Size,
		UploadedAt:       p.UploadedAt,
	}
}

func albumIDValue(c *gin.Context, value string) (uint64, bool) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		badRequest(c, fmt.Errorf("bad album_id %q", value))
		return 0, false
	}
	return id, true
}

// PhotoUpload takes a multipart form with "file" and "album_id"
func PhotoUpload(c *gin.Context, user *models.User) {
	maxBytes := int64(config.MAX_UPLOAD_MB) << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	if _, err := c.MultipartForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, Response{
				Code:    http.StatusRequestEntityTooLarge,
				Message: fmt.Sprintf("files up to %d MB are accepted", config.MAX_UPLOAD_MB),
			})
			return
		}
		badRequest(c, err)
		return
	}
	albumID, ok := albumIDValue(c, c.PostForm("album_id"))
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	photo, err := models.PhotoUpload(c.Request.Context(), storage.GetDefaultStorage(), file, fileHeader.Filename, albumID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, photoInfo(&photo))
}

func PhotoList(c *gin.Context, user *models.User) {
	albumID, ok := albumIDValue(c, c.Query("album_id"))
	if !ok {
		return
	}
	photos, err := models.PhotoListByAlbum(albumID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	result := make([]PhotoInfo, 0, len(photos))
	for i := range photos {
		result = append(result, photoInfo(&photos[i]))
	}
	respond(c, http.StatusOK, result)
}

func PhotoGet(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	photo, err := models.PhotoGet(id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, photoInfo(&photo))
}

func PhotoDelete(c *gin.Context, user *models.User) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := models.PhotoDelete(c.Request.Context(), storage.GetDefaultStorage(), id, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PhotoFile serves stored bytes when the photos are kept on disk
func PhotoFile(c *gin.Context) {
	disk, ok := storage.GetDefaultStorage().(*storage.DiskStorage)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	disk.Serve(c.Param("path"), c.Request, c.Writer)
}
