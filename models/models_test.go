package models

import (
	"path/filepath"
	"testing"

	"github.com/Albumate/Albumate-Back/db"

	"gorm.io/driver/sqlite"
)

// setupTestDB points db.Instance to a fresh SQLite file for the duration of the test
func setupTestDB(t *testing.T) {
	t.Helper()
	db.InitWith(sqlite.Open(db.SQLiteDSN(filepath.Join(t.TempDir(), "test.db"))))
	sqlDB, err := db.Instance.DB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err = Init(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func mustUser(t *testing.T, name string) User {
	t.Helper()
	u, err := UserRegister(name+"@example.com", "secret", name)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func mustAlbum(t *testing.T, owner User, title string) Album {
	t.Helper()
	album, err := AlbumCreate(owner.ID, title, "")
	if err != nil {
		t.Fatalf("create album %q: %v", title, err)
	}
	return album
}

func mustInvite(t *testing.T, album Album, inviter, invitee User) Invitation {
	t.Helper()
	inv, created, err := InvitationCreate(album.ID, inviter.ID, invitee.ID)
	if err != nil || !created {
		t.Fatalf("invite %s: created=%v err=%v", invitee.Nickname, created, err)
	}
	return inv
}
