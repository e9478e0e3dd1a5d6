package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Albumate/Albumate-Back/db"
	"github.com/Albumate/Albumate-Back/utils"

	"gorm.io/gorm"
)

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	Username  string `gorm:"type:varchar(150);not null;index:uniq_username,unique"` // email
	Nickname  string `gorm:"type:varchar(100);not null;index:uniq_nickname,unique"`
	Password  string `gorm:"type:varchar(128);not null" json:"-"` // bcrypt digest
}

const (
	maxPasswordLength = 72 // bcrypt ignores anything longer
	maxNicknameLength = 100
)

var usernameFormat = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidUsername(username string) bool {
	return len(username) <= 150 && usernameFormat.MatchString(username)
}

// UserRegister creates a new user. Uniqueness is checked first, the unique indexes
// catch whatever slips through under concurrent registrations.
func UserRegister(username, plainTextPassword, nickname string) (u User, err error) {
	username = strings.TrimSpace(username)
	nickname = strings.TrimSpace(nickname)
	if !ValidUsername(username) || nickname == "" || len(nickname) > maxNicknameLength ||
		plainTextPassword == "" || len(plainTextPassword) > maxPasswordLength {

		return u, ErrInvalidFormat
	}
	if err = checkUserUnique(username, nickname); err != nil {
		return u, err
	}
	u.Username = username
	u.Nickname = nickname
	if u.Password, err = utils.HashPassword(plainTextPassword); err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	if err = db.Instance.Create(&u).Error; err != nil {
		// Lost a race against another registration?
		if uniqueErr := checkUserUnique(username, nickname); uniqueErr != nil {
			return User{}, uniqueErr
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func checkUserUnique(username, nickname string) error {
	available, err := UsernameAvailable(username)
	if err != nil {
		return err
	}
	if !available {
		return ErrDuplicateUsername
	}
	if available, err = NicknameAvailable(nickname); err != nil {
		return err
	}
	if !available {
		return ErrDuplicateNickname
	}
	return nil
}

func UsernameAvailable(username string) (bool, error) {
	var count int64
	if err := db.Instance.Model(&User{}).Where("username = ?", strings.TrimSpace(username)).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count == 0, nil
}

func NicknameAvailable(nickname string) (bool, error) {
	var count int64
	if err := db.Instance.Model(&User{}).Where("nickname = ?", strings.TrimSpace(nickname)).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check nickname: %w", err)
	}
	return count == 0, nil
}

// UserVerify checks the credentials. Callers should not tell ErrUserNotFound and
// ErrBadCredentials apart in responses.
func UserVerify(username, plainTextPassword string) (User, error) {
	u, err := UserFindByUsername(username)
	if err != nil {
		return User{}, err
	}
	if !utils.CheckPasswordHash(u.Password, plainTextPassword) {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

func UserFindByID(id uint64) (u User, err error) {
	err = db.Instance.First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, nil
}

func UserFindByUsername(username string) (u User, err error) {
	err = db.Instance.Where("username = ?", strings.TrimSpace(username)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// UsersByUsernames returns the users found for the given usernames, keyed by username
func UsersByUsernames(usernames []string) (map[string]User, error) {
	result := make(map[string]User, len(usernames))
	if len(usernames) == 0 {
		return result, nil
	}
	var users []User
	if err := db.Instance.Where("username IN ?", usernames).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	for _, u := range users {
		result[u.Username] = u
	}
	return result, nil
}
