package model

import "time"

// ScheduledSpace is an admin-entered future Twitter Space. Records are
// immutable after creation.
type ScheduledSpace struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Title        string    `gorm:"size:256;not null" json:"title"`
	ScheduledFor time.Time `gorm:"not null;index" json:"scheduledFor"`
	GuestSpeaker string    `gorm:"size:256" json:"guestSpeaker"`
	Description  string    `gorm:"not null" json:"description"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	CreatedBy    string    `gorm:"size:64;not null" json:"createdBy"`
}
