package model

import "time"

// User represents a row in the `users` table.  PasswordHash carries a json
// "-" tag so that a User can never leak its hash through a handler response.
// Optional columns are pointers so that NULL survives a round trip.
type User struct {
	ID           uint64     `json:"id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        *string    `json:"phone"`
	Gender       *string    `json:"gender"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Address      *string    `json:"address"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewUser is the input for registration.  Password is the plain text
// supplied by the client; it is hashed before it reaches the store.
type NewUser struct {
	FullName    string
	Email       string
	Password    string
	Phone       string
	Gender      string
	DateOfBirth *time.Time
}

// ProfilePatch lists the profile columns a user may change.  A nil field is
// left untouched by the update.
type ProfilePatch struct {
	FullName *string
	Phone    *string
	Address  *string
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p.FullName == nil && p.Phone == nil && p.Address == nil
}
