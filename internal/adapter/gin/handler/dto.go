package handler

import (
	"encoding/xml"

	"github.com/google/uuid"
)

// UserDto is the read representation of a user returned to clients.
type UserDto struct {
	XMLName  xml.Name  `json:"-" xml:"user"`
	ID       uuid.UUID `json:"id" xml:"id"`
	Login    string    `json:"login" xml:"login"`
	FullName string    `json:"fullName" xml:"fullName"`
}

// PostUserDto is the input shape for creating a user. Only login is
// required; pointers distinguish absent fields from empty ones.
type PostUserDto struct {
	Login     *string `json:"login" validate:"required,alphanum"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// PutUserDto is the input shape for full replacement; every field is
// required and overwrites the stored value.
type PutUserDto struct {
	Login     *string `json:"login" validate:"required,alphanum"`
	FirstName *string `json:"firstName" validate:"required"`
	LastName  *string `json:"lastName" validate:"required"`
}

// PatchUserDto is the projection patch documents are applied against.
// The patched result must still carry a valid login.
type PatchUserDto struct {
	Login     string `json:"login" validate:"required,alphanum"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Get implements jsonpatch.Target.
func (d *PatchUserDto) Get(field string) (string, bool) {
	switch field {
	case "login":
		return d.Login, true
	case "firstName":
		return d.FirstName, true
	case "lastName":
		return d.LastName, true
	default:
		return "", false
	}
}

// Set implements jsonpatch.Target.
func (d *PatchUserDto) Set(field, value string) bool {
	switch field {
	case "login":
		d.Login = value
	case "firstName":
		d.FirstName = value
	case "lastName":
		d.LastName = value
	default:
		return false
	}
	return true
}

// Clear implements jsonpatch.Target.
func (d *PatchUserDto) Clear(field string) bool {
	return d.Set(field, "")
}

// ErrorResponse represents a generic error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// paginationHeader is the JSON payload of the X-Pagination header.
type paginationHeader struct {
	PreviousPageLink *string `json:"previousPageLink"`
	NextPageLink     *string `json:"nextPageLink"`
	TotalCount       int64   `json:"totalCount"`
	PageSize         int     `json:"pageSize"`
	CurrentPage      int     `json:"currentPage"`
	TotalPages       int64   `json:"totalPages"`
}
