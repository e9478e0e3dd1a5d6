package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt digest of a plain text password
func HashPassword(plainTextPassword string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func CheckPasswordHash(digest, plainTextPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plainTextPassword)) == nil
}

func Rand16BytesToBase62() string {
	buf := make([]byte, 16)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	var i big.Int
	return i.SetBytes(buf).Text(62)
}

func Rand8BytesToBase62() string {
	buf := make([]byte, 8)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	var i big.Int
	return i.SetBytes(buf).Text(62)
}

// SanitizeFileName keeps only the last path element of name and restricts it to [A-Za-z0-9._-].
// Everything else becomes '_' and leading dots are dropped, so "../../etc/passwd" ends up as "passwd".
// The result is empty when nothing usable is left.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimLeft(name, ".")
	var result strings.Builder
	for _, c := range name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			c == '.' || c == '-' || c == '_' {

			result.WriteRune(c)
		} else {
			result.WriteString("_")
		}
	}
	sanitized := result.String()
	if len(sanitized) > 200 {
		// keep the extension
		sanitized = sanitized[len(sanitized)-200:]
	}
	if strings.Trim(sanitized, "_.") == "" {
		return ""
	}
	return sanitized
}
