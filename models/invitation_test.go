package models

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestInvitationCreate(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	bob := mustUser(t, "bob")
	carol := mustUser(t, "carol")
	album := mustAlbum(t, alice, "Jeju")

	first := mustInvite(t, album, alice, bob)
	if first.Status != InvitationPending || first.Token == "" {
		t.Errorf("InvitationCreate() = %+v", first)
	}
	second, created, err := InvitationCreate(album.ID, alice.ID, bob.ID)
	if err != nil || created || second.ID != first.ID || second.Token != first.Token {
		t.Errorf("second InvitationCreate() = %+v, %v, %v, want the first invitation", second, created, err)
	}

	tests := []struct {
		name      string
		albumID   uint64
		inviterID uint64
		inviteeID uint64
		wantErr   error
	}{
		{"missing album", 999, alice.ID, bob.ID, ErrAlbumNotFound},
		{"missing invitee", album.ID, alice.ID, 999, ErrUserNotFound},
		{"inviting a member", album.ID, alice.ID, alice.ID, ErrAlreadyMember},
		{"inviter not a member", album.ID, carol.ID, bob.ID, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := InvitationCreate(tt.albumID, tt.inviterID, tt.inviteeID); !errors.Is(err, tt.wantErr) {
				t.Errorf("InvitationCreate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvitationAccept(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	bob := mustUser(t, "bob")
	carol := mustUser(t, "carol")
	album := mustAlbum(t, alice, "Jeju")
	inv := mustInvite(t, album, alice, bob)

	if _, err := InvitationAccept(inv.Token, carol.ID); !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("InvitationAccept(wrong invitee) error = %v", err)
	}
	if _, err := InvitationAccept("nope", bob.ID); !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("InvitationAccept(wrong token) error = %v", err)
	}
	accepted, err := InvitationAccept(inv.Token, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if accepted.Status != InvitationAccepted || accepted.AlbumID != album.ID {
		t.Errorf("InvitationAccept() = %+v", accepted)
	}
	if _, err = InvitationAccept(inv.Token, bob.ID); !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("second InvitationAccept() error = %v", err)
	}
	if _, err = InvitationReject(inv.Token, bob.ID); !errors.Is(err, ErrInvitationNotFound) {
		t.Errorf("InvitationReject(accepted) error = %v", err)
	}

	ids, err := MemberUserIDs(album.ID)
	if err != nil || !reflect.DeepEqual(ids, []uint64{alice.ID, bob.ID}) {
		t.Errorf("MemberUserIDs() = %v, %v", ids, err)
	}
	if _, _, err = InvitationCreate(album.ID, alice.ID, bob.ID); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("InvitationCreate(member) error = %v", err)
	}
}

func TestInvitationReject(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	bob := mustUser(t, "bob")
	album := mustAlbum(t, alice, "Jeju")
	inv := mustInvite(t, album, alice, bob)

	rejected, err := InvitationReject(inv.Token, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rejected.Status != InvitationRejected {
		t.Errorf("InvitationReject() status = %s", rejected.Status)
	}
	if member, _ := IsMember(album.ID, bob.ID); member {
		t.Error("rejecting made bob a member")
	}

	// history doesn't block a new invitation
	again := mustInvite(t, album, alice, bob)
	if again.ID == inv.ID || again.Token == inv.Token {
		t.Errorf("re-invite reused the rejected invitation")
	}
	if _, err = InvitationAccept(again.Token, bob.ID); err != nil {
		t.Fatal(err)
	}
	all, err := InvitationListForUser(bob.ID, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("InvitationListForUser() = %d invitations, %v", len(all), err)
	}
	if all[0].ID != again.ID || all[0].Album.Title != "Jeju" || all[0].Inviter.Nickname != "alice" {
		t.Errorf("InvitationListForUser()[0] = %+v", all[0])
	}
	for status, want := range map[InvitationStatus]int{InvitationPending: 0, InvitationAccepted: 1, InvitationRejected: 1} {
		list, err := InvitationListForUser(bob.ID, status)
		if err != nil || len(list) != want {
			t.Errorf("InvitationListForUser(%s) = %d, %v, want %d", status, len(list), err, want)
		}
	}
	if _, err = InvitationListForUser(bob.ID, "maybe"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("InvitationListForUser(bad status) error = %v", err)
	}
}

func TestInvitationConcurrentDecisions(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	album := mustAlbum(t, alice, "Jeju")

	const (
		rounds  = 20
		workers = 8
	)
	for round := 0; round < rounds; round++ {
		invitee := mustUser(t, fmt.Sprintf("guest%d", round))
		inv := mustInvite(t, album, alice, invitee)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			wins     int
			notFound int
			other    []error
		)
		start := make(chan struct{})
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				var err error
				if i%2 == 0 {
					_, err = InvitationAccept(inv.Token, invitee.ID)
				} else {
					_, err = InvitationReject(inv.Token, invitee.ID)
				}
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					wins++
				case errors.Is(err, ErrInvitationNotFound):
					notFound++
				default:
					other = append(other, err)
				}
			}(i)
		}
		close(start)
		wg.Wait()
		if wins != 1 || notFound != workers-1 || len(other) != 0 {
			t.Fatalf("round %d: wins = %d, not found = %d, other = %v", round, wins, notFound, other)
		}
	}
	members, err := MemberList(album.ID)
	if err != nil || len(members) > rounds+1 {
		t.Errorf("MemberList() = %d members, %v", len(members), err)
	}
}

func TestConcurrentWrites(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	album := mustAlbum(t, alice, "Jeju")
	const workers = 8
	guests := make([]User, workers)
	for i := range guests {
		guests[i] = mustUser(t, fmt.Sprintf("guest%d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2*workers)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := AlbumCreate(alice.ID, fmt.Sprintf("Album %d", i), "")
			errs <- err
		}(i)
		go func(i int) {
			defer wg.Done()
			<-start
			_, _, err := InvitationCreate(album.ID, alice.ID, guests[i].ID)
			errs <- err
		}(i)
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent write: %v", err)
		}
	}
	owned, err := AlbumListByOwner(alice.ID)
	if err != nil || len(owned) != workers+1 {
		t.Errorf("AlbumListByOwner() = %d albums, %v", len(owned), err)
	}
	pending, err := InvitationListForUser(guests[0].ID, InvitationPending)
	if err != nil || len(pending) != 1 {
		t.Errorf("InvitationListForUser() = %d, %v", len(pending), err)
	}
}

func TestInvitationInviteByIdentifiers(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	bob := mustUser(t, "bob")
	carol := mustUser(t, "carol")
	dave := mustUser(t, "dave")
	album := mustAlbum(t, alice, "Jeju")
	mustInvite(t, album, alice, dave)

	result, err := InvitationInviteByIdentifiers(album.ID, alice.ID, []string{
		"bob@example.com",
		"nobody@example.com",
		"alice@example.com", // member
		"dave@example.com",  // already invited
		" bob@example.com ", // duplicate
		"carol@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(result.Invited, []uint64{bob.ID, carol.ID}) {
		t.Errorf("Invited = %v", result.Invited)
	}
	wantIgnored := []string{"nobody@example.com", "alice@example.com", "dave@example.com", " bob@example.com "}
	if !reflect.DeepEqual(result.Ignored, wantIgnored) {
		t.Errorf("Ignored = %q, want %q", result.Ignored, wantIgnored)
	}
	if len(result.Invitations) != 2 || result.Invitations[1].InviteeID != carol.ID {
		t.Errorf("Invitations = %+v", result.Invitations)
	}

	if _, err = InvitationInviteByIdentifiers(999, alice.ID, nil); !errors.Is(err, ErrAlbumNotFound) {
		t.Errorf("missing album error = %v", err)
	}
	empty, err := InvitationInviteByIdentifiers(album.ID, alice.ID, nil)
	if err != nil || len(empty.Invited) != 0 || len(empty.Ignored) != 0 {
		t.Errorf("empty identifiers = %+v, %v", empty, err)
	}
}
