package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a portfolio owner identified by a unique username.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Name       *string    `json:"name"`
	Username   string     `json:"username"`
	Email      *string    `json:"email"`
	JobTitle   *string    `json:"job_title"`
	Phone      *string    `json:"phone"`
	VerifiedAt *time.Time `json:"verified_at"`
	Address    *string    `json:"address"`
	SocialURLs []string   `json:"social_urls"`
	Bio        *string    `json:"bio"`
	Expertise  *string    `json:"expertise"`
	Skills     *string    `json:"skills"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
