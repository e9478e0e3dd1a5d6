package models

import "errors"

// Errors returned by the models. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrInvalidFormat     = errors.New("invalid format")
	ErrDuplicateUsername = errors.New("username already registered")
	ErrDuplicateNickname = errors.New("nickname already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrBadCredentials    = errors.New("wrong username or password")

	ErrAlbumNotFound      = errors.New("album not found")
	ErrForbidden          = errors.New("not allowed")
	ErrNotMember          = errors.New("not a member of this album")
	ErrAlreadyMember      = errors.New("already a member of this album")
	ErrOwnerCannotLeave   = errors.New("the owner cannot leave the album, delete it instead")
	ErrInvitationNotFound = errors.New("invitation not found")

	ErrPhotoNotFound = errors.New("photo not found")
	// ErrPartialDelete means the stored file is gone but the photo record could not be removed
	ErrPartialDelete = errors.New("photo file deleted but its record could not be removed")
)
