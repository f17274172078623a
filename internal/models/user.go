// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is a registered account. Email is stored lower-cased and is unique.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:254" json:"email"`
	DisplayName  string    `gorm:"not null;size:50" json:"display_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserIdentity is the public view of an authenticated user.
type UserIdentity struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Identity returns the public identity of the user.
func (u *User) Identity() *UserIdentity {
	return &UserIdentity{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}
