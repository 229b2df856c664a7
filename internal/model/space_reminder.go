package model

import "time"

// SpaceReminder is a reminder subscription for a scheduled space. The space
// fields are denormalized at subscribe time so the dispatcher can render the
// notification from the row alone. SpaceID is a soft reference; no foreign
// key is enforced.
type SpaceReminder struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	SpaceID      string    `gorm:"index;size:64;not null" json:"spaceId"`
	UserID       string    `gorm:"size:64;not null" json:"userId"`
	Email        string    `gorm:"size:256;not null" json:"email"`
	Title        string    `gorm:"size:256;not null" json:"title"`
	GuestSpeaker string    `gorm:"size:256" json:"guestSpeaker"`
	Description  string    `json:"description"`
	ScheduledFor time.Time `gorm:"not null;index" json:"scheduledFor"`
	ReminderSent bool      `gorm:"not null;default:false;index" json:"reminderSent"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}
