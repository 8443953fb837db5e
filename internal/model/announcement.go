package model

import "time"

// Announcement lifecycle states.
const (
	AnnouncementPublished = "publicado"
	AnnouncementDraft     = "borrador"
)

// Announcement is published by a super user only.
type Announcement struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"not null"`
	Content       string    `gorm:"not null"`
	ExternalLink  *string
	PublishedByID uint      `gorm:"not null;index"`
	Status        string    `gorm:"not null;default:publicado"`
	PublishedAt   time.Time `gorm:"autoCreateTime"`

	Publisher SuperUser `gorm:"foreignKey:PublishedByID"`
}
