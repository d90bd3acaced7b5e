package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsStaff      bool
	IsActive     bool
	PhotoKey     string
	CreatedAt    time.Time
}

// NormalizeEmail lower-cases and trims an email address. Email is the
// login identifier and is unique case-insensitively, so every write
// path goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
