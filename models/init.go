package models

import (
	"github.com/Albumate/Albumate-Back/db"
)

func Init() error {
	return db.Instance.AutoMigrate(
		&User{},
		&Album{},
		&AlbumMember{},
		&Invitation{},
		&Photo{},
	)
}
