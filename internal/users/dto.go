package users

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/google/uuid"
)

// RoleSummary is the role shape embedded in user responses.
type RoleSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ParentSummary is the parent profile shape embedded in user responses.
type ParentSummary struct {
	ID     uuid.UUID `json:"id"`
	HasPin bool      `json:"hasPin"`
}

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID         uuid.UUID      `json:"id"`
	Email      string         `json:"email"`
	IsActive   bool           `json:"isActive"`
	IsVerified bool           `json:"isVerified"`
	Role       *RoleSummary   `json:"role"`
	Parent     *ParentSummary `json:"parent"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	RoleID       uuid.UUID
	IsActive     *bool
}

// FromModel maps a user with its preloaded role and parent.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	dto := &UserDTO{
		ID:         u.ID,
		Email:      u.Email,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
	if u.Role != nil {
		dto.Role = &RoleSummary{ID: u.Role.ID, Name: u.Role.Name}
	}
	if u.Parent != nil {
		dto.Parent = &ParentSummary{ID: u.Parent.ID, HasPin: u.Parent.HasPin()}
	}
	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		RoleID:       c.RoleID,
		IsActive:     isActive,
	}
}
