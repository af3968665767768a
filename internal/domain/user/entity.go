package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user entity in the system.
type User struct {
	ID        uuid.UUID // ID is the unique, store-assigned identifier
	Login     string    // Login is the account name, letters and digits only
	FirstName string    // FirstName is the user's given name
	LastName  string    // LastName is the user's family name
	CreatedAt time.Time // CreatedAt is set by the store on insert
}

// FullName returns the display name composed from the name fields.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
