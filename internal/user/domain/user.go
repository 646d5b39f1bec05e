package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidUser marks validation failures; match with errors.Is.
var ErrInvalidUser = errors.New("invalid user")

// User is the core account entity. The auth service reads it by id or phone
// number; profile management owns the mutable display attributes.
type User struct {
	ID           string
	Name         string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is the user's role tag.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleHelper Role = "helper"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.PhoneNumber == "" {
		return fmt.Errorf("%w: phone_number is required", ErrInvalidUser)
	}
	if u.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidUser)
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
