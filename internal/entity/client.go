package entity

import (
	"time"

	"github.com/google/uuid"
)

// Client stores a testimonial left for a user.
type Client struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Name         string        `json:"name"`
	PhotoURL     *string       `json:"photo_url"`
	Introduction *string       `json:"introduction"`
	JobTitle     *string       `json:"job_title"`
	Feedback     *string       `json:"feedback"`
	Media        []ClientMedia `json:"media"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ClientMedia is a photo or video attached to a client. Rows are removed together with their client.
type ClientMedia struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	URL         string    `json:"url"`
	Type        *string   `json:"type"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
