package model

import "time"

type Activity struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description,omitempty" json:"description,omitempty"`
	Schedule        string    `db:"schedule,omitempty" json:"schedule,omitempty"`
	MaxParticipants int       `db:"max_participants" json:"max_participants"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type Participant struct {
	ID         int       `db:"id" json:"id"`
	ActivityID int       `db:"activity_id" json:"activity_id"`
	Email      string    `db:"email" json:"email"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SeedActivity describes one activity to create during first-run seeding,
// together with its initial roster.
type SeedActivity struct {
	Name            string   `validate:"required"`
	Description     string   `validate:"required"`
	Schedule        string   `validate:"required"`
	MaxParticipants int      `validate:"positive"`
	Participants    []string `validate:"required"`
}
