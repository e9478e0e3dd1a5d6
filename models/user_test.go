package models

import (
	"errors"
	"strings"
	"testing"
)

func TestUserRegister(t *testing.T) {
	setupTestDB(t)
	mustUser(t, "alice")

	tests := []struct {
		name     string
		username string
		password string
		nickname string
		wantErr  error
	}{
		{"ok", "bob@example.com", "secret", "bob", nil},
		{"not an email", "bob", "secret", "bobby", ErrInvalidFormat},
		{"missing tld", "bob@example", "secret", "bobby", ErrInvalidFormat},
		{"empty password", "carol@example.com", "", "carol", ErrInvalidFormat},
		{"long password", "carol@example.com", strings.Repeat("x", 73), "carol", ErrInvalidFormat},
		{"blank nickname", "carol@example.com", "secret", "  ", ErrInvalidFormat},
		{"taken username", "alice@example.com", "secret", "alice2", ErrDuplicateUsername},
		{"taken nickname", "alice2@example.com", "secret", "alice", ErrDuplicateNickname},
		{"trimmed duplicate", " alice@example.com ", "secret", "alice3", ErrDuplicateUsername},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := UserRegister(tt.username, tt.password, tt.nickname)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UserRegister() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if u.ID == 0 || u.Password == tt.password {
					t.Errorf("UserRegister() = %+v, want an id and a hashed password", u)
				}
			}
		})
	}
}

func TestUserVerify(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"ok", "alice@example.com", "secret", nil},
		{"wrong password", "alice@example.com", "Secret", ErrBadCredentials},
		{"unknown user", "nobody@example.com", "secret", ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := UserVerify(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UserVerify() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && u.ID != alice.ID {
				t.Errorf("UserVerify() = user %d, want %d", u.ID, alice.ID)
			}
		})
	}
}

func TestUserAvailability(t *testing.T) {
	setupTestDB(t)
	mustUser(t, "alice")

	if ok, err := UsernameAvailable("alice@example.com"); err != nil || ok {
		t.Errorf("UsernameAvailable(taken) = %v, %v", ok, err)
	}
	if ok, err := UsernameAvailable("bob@example.com"); err != nil || !ok {
		t.Errorf("UsernameAvailable(free) = %v, %v", ok, err)
	}
	if ok, err := NicknameAvailable("alice"); err != nil || ok {
		t.Errorf("NicknameAvailable(taken) = %v, %v", ok, err)
	}
	if _, err := UserFindByID(12345); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("UserFindByID(missing) error = %v", err)
	}
}

func TestUsersByUsernames(t *testing.T) {
	setupTestDB(t)
	alice := mustUser(t, "alice")
	bob := mustUser(t, "bob")

	users, err := UsersByUsernames([]string{"alice@example.com", "bob@example.com", "nobody@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users["alice@example.com"].ID != alice.ID || users["bob@example.com"].ID != bob.ID {
		t.Errorf("UsersByUsernames() = %v", users)
	}
}
