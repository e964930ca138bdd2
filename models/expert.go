package models

import "time"

// Expert is the minimal expert document the booking core needs: pricing for
// booking creation and device tokens for notification fan-out. Profile,
// search and verification concerns live outside this service.
type Expert struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	HourlyRate float64   `bson:"hourly_rate" json:"hourly_rate"`
	Currency   string    `bson:"currency" json:"currency"`
	FCMTokens  []string  `bson:"fcm_tokens,omitempty" json:"-"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// Client is the minimal client document: identity plus device tokens.
type Client struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	FCMTokens []string  `bson:"fcm_tokens,omitempty" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
