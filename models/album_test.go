package models

import (
	"errors"
	"testing"

	"github.com/Albumate/Albumate-Back/db"
)

func TestAlbumCreate(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")

	album, err := AlbumCreate(alice.ID, "  Jeju  ", "trip")
	if err != nil {
		t.Fatal(err)
	}
	if album.Title != "Jeju" || !album.IsOwner || album.OwnerID != alice.ID {
		t.Errorf("AlbumCreate() = %+v", album)
	}
	member, err := IsMember(album.ID, alice.ID)
	if err != nil || !member {
		t.Errorf("owner is not a member: %v, %v", member, err)
	}

	if _, err = AlbumCreate(alice.ID, "   ", ""); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("AlbumCreate(blank title) error = %v", err)
	}
	if _, err = AlbumCreate(999, "ghost", ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("AlbumCreate(missing owner) error = %v", err)
	}
	var count int64
	db.Instance.Model(&Album{}).Count(&count)
	if count != 1 {
		t.Errorf("%d albums stored, want 1", count)
	}
}

func TestAlbumDelete(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	bob := mustUser(t, "bob")
	album := mustAlbum(t, alice, "Jeju")
	inv := mustInvite(t, album, alice, bob)

	if err := AlbumDelete(album.ID, bob.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("AlbumDelete(not owner) error = %v", err)
	}
	if err := AlbumDelete(album.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := AlbumGet(album.ID); !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("AlbumGet(deleted) error = %v", err)
	}
	if err := AlbumDelete(album.ID, alice.ID); !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("AlbumDelete(twice) error = %v", err)
	}
	// everything hanging off the album is gone for the callers
	if albums, _ := AlbumListForUser(alice.ID); len(albums) != 0 {
		t.Errorf("AlbumListForUser() = %v, want none", albums)
	}
	if invitations, _ := InvitationListForUser(bob.ID, ""); len(invitations) != 0 {
		t.Errorf("InvitationListForUser() = %v, want none", invitations)
	}
	if _, err := InvitationAccept(inv.Token, bob.ID); !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("InvitationAccept(deleted album) error = %v", err)
	}
}

func TestAlbumListForUser(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	bob := mustUser(t, "bob")

	first := mustAlbum(t, alice, "first")
	second := mustAlbum(t, bob, "second")
	third := mustAlbum(t, alice, "third")
	inv := mustInvite(t, second, bob, alice)
	if _, err := InvitationAccept(inv.Token, alice.ID); err != nil {
		t.Fatal(err)
	}

	albums, err := AlbumListForUser(alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		id      uint64
		isOwner bool
	}{{third.ID, true}, {second.ID, false}, {first.ID, true}}
	if len(albums) != len(want) {
		t.Fatalf("AlbumListForUser() returned %d albums, want %d", len(albums), len(want))
	}
	for i, w := range want {
		if albums[i].ID != w.id || albums[i].IsOwner != w.isOwner {
			t.Errorf("albums[%d] = {%d %v}, want {%d %v}", i, albums[i].ID, albums[i].IsOwner, w.id, w.isOwner)
		}
	}

	owned, err := AlbumListByOwner(alice.ID)
	if err != nil || len(owned) != 2 {
		t.Errorf("AlbumListByOwner() = %d albums, %v", len(owned), err)
	}
	all, err := AlbumListAll()
	if err != nil || len(all) != 3 || all[0].ID != third.ID {
		t.Errorf("AlbumListAll() = %v, %v", all, err)
	}
}

func TestAlbumLeave(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	bob := mustUser(t, "bob")
	carol := mustUser(t, "carol")
	album := mustAlbum(t, alice, "Jeju")
	inv := mustInvite(t, album, alice, bob)
	if _, err := InvitationAccept(inv.Token, bob.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		albumID uint64
		userID  uint64
		wantErr error
	}{
		{"owner", album.ID, alice.ID, ErrOwnerCannotLeave},
		{"not a member", album.ID, carol.ID, ErrNotMember},
		{"missing album", 999, bob.ID, ErrAlbumNotFound},
		{"member", album.ID, bob.ID, nil},
		{"member again", album.ID, bob.ID, ErrNotMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := AlbumLeave(tt.albumID, tt.userID); !errors.Is(err, tt.wantErr) {
				t.Errorf("AlbumLeave() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	ids, err := MemberUserIDs(album.ID)
	if err != nil || len(ids) != 1 || ids[0] != alice.ID {
		t.Errorf("MemberUserIDs() = %v, %v", ids, err)
	}
}

func TestMemberAddIdempotent(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	bob := mustUser(t, "bob")
	album := mustAlbum(t, alice, "Jeju")

	for i := 0; i < 3; i++ {
		if err := MemberAdd(db.Instance, album.ID, bob.ID); err != nil {
			t.Fatalf("MemberAdd() #%d: %v", i, err)
		}
	}
	members, err := MemberList(album.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[0].UserID != alice.ID || members[1].User.Nickname != "bob" {
		t.Errorf("MemberList() = %+v", members)
	}
}
