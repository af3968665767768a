package handler

import (
	"github.com/google/uuid"

	domain "rest-user-service/internal/domain/user"
)

// toUserDto maps a User entity to its read representation.
func toUserDto(u *domain.User) UserDto {
	return UserDto{
		ID:       u.ID,
		Login:    u.Login,
		FullName: u.FullName(),
	}
}

// toUserDtos maps a page slice in store order.
func toUserDtos(items []domain.User) []UserDto {
	dtos := make([]UserDto, len(items))
	for i := range items {
		dtos[i] = toUserDto(&items[i])
	}
	return dtos
}

// postDtoToEntity maps a creation DTO onto a fresh entity; the store
// assigns the identifier.
func postDtoToEntity(dto *PostUserDto) *domain.User {
	return &domain.User{
		Login:     deref(dto.Login),
		FirstName: deref(dto.FirstName),
		LastName:  deref(dto.LastName),
	}
}

// putDtoToEntity maps a replacement DTO onto an entity keyed by the
// route-provided identifier.
func putDtoToEntity(dto *PutUserDto, id uuid.UUID) *domain.User {
	return &domain.User{
		ID:        id,
		Login:     deref(dto.Login),
		FirstName: deref(dto.FirstName),
		LastName:  deref(dto.LastName),
	}
}

// entityToPatchDto projects an entity into the patch target shape.
func entityToPatchDto(u *domain.User) *PatchUserDto {
	return &PatchUserDto{
		Login:     u.Login,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
