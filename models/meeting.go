package models

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is a scheduled class session of a group
type Meeting struct {
	ID        uuid.UUID `json:"id" db:"id"`
	GroupID   uuid.UUID `json:"group_id" db:"group_id"`
	Topic     string    `json:"topic" db:"topic"`
	StartsAt  time.Time `json:"starts_at" db:"starts_at"`
	EndsAt    time.Time `json:"ends_at" db:"ends_at"`
	Room      string    `json:"room" db:"room"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Meeting model
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new Meeting instance
func NewMeeting(groupID uuid.UUID, topic string, startsAt, endsAt time.Time, room string) *Meeting {
	now := time.Now()
	return &Meeting{
		ID:        uuid.New(),
		GroupID:   groupID,
		Topic:     topic,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Room:      room,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Duration returns the scheduled length of the meeting
func (m *Meeting) Duration() time.Duration {
	return m.EndsAt.Sub(m.StartsAt)
}
