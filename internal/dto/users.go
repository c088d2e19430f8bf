package dto

import "github.com/octobees/portfolio-importer/api/internal/entity"

// UpdateUserRequest is the allow-listed shape of a profile PATCH. Nil fields
// are left untouched.
type UpdateUserRequest struct {
	Name       *string       `json:"name" validate:"omitnil,max=255"`
	Email      *string       `json:"email" validate:"omitnil,email,max=255"`
	JobTitle   *string       `json:"job_title" validate:"omitnil,max=255"`
	Phone      *string       `json:"phone" validate:"omitnil,max=20"`
	Address    *string       `json:"address" validate:"omitnil,max=500"`
	SocialURLs *[]string     `json:"social_urls" validate:"omitnil"`
	Bio        *string       `json:"bio" validate:"omitnil,max=1000"`
	Expertise  *string       `json:"expertise" validate:"omitnil,max=1000"`
	Skills     *string       `json:"skills" validate:"omitnil,max=1000"`
	Works      []WorkInput   `json:"works" validate:"omitempty,dive"`
	Clients    []ClientInput `json:"clients" validate:"omitempty,dive"`
}

// WorkInput creates, updates or deletes one work.
type WorkInput struct {
	ID          *string `json:"id" validate:"omitnil,uuid"`
	Delete      bool    `json:"_delete"`
	Title       *string `json:"title" validate:"omitnil,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	URL         *string `json:"url" validate:"omitnil,url,max=500"`
}

// ClientInput creates, updates or deletes one client and optionally its media.
type ClientInput struct {
	ID           *string      `json:"id" validate:"omitnil,uuid"`
	Delete       bool         `json:"_delete"`
	Name         *string      `json:"name" validate:"omitnil,max=255"`
	Introduction *string      `json:"introduction" validate:"omitnil,max=500"`
	PhotoURL     *string      `json:"photo_url" validate:"omitnil,url,max=500"`
	JobTitle     *string      `json:"job_title" validate:"omitnil,max=255"`
	Feedback     *string      `json:"feedback" validate:"omitnil,max=1000"`
	Media        []MediaInput `json:"media" validate:"omitempty,dive"`
}

// MediaInput creates, updates or deletes one client media item.
type MediaInput struct {
	ID          *string `json:"id" validate:"omitnil,uuid"`
	Delete      bool    `json:"_delete"`
	URL         *string `json:"url" validate:"omitnil,url,max=500"`
	Type        *string `json:"type" validate:"omitnil,max=50"`
	Title       *string `json:"title" validate:"omitnil,max=255"`
	Description *string `json:"description" validate:"omitnil,max=500"`
}

// UserDetails is a user with everything attached to it.
type UserDetails struct {
	User    entity.User     `json:"user"`
	Works   []entity.Work   `json:"works"`
	Clients []entity.Client `json:"clients"`
}

// SearchResponse lists users matching a search query.
type SearchResponse struct {
	Users []entity.User `json:"users"`
	Count int           `json:"count"`
}
