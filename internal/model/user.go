package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is the authorization role carried by a user.  Only the values
// declared below are valid; anything else is rejected by ParseRole so
// that role checks never compare free-form strings.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normalises s and returns the matching Role.  An unknown
// value yields an error.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }

// User represents an application user record as stored in the
// `users` table.  Users are created at registration with RoleUser;
// only the role may change afterwards (admin bootstrap).
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – RoleUser or RoleAdmin.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
}
