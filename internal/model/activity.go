package model

import "time"

// Activity lifecycle states.
const (
	ActivityPending = "pendiente"
)

type Activity struct {
	ID            uint       `gorm:"primaryKey"`
	Title         string     `gorm:"not null"`
	Description   string
	ActivityType  string     `gorm:"not null"`
	StartDate     time.Time  `gorm:"not null"`
	EndDate       *time.Time
	UnitID        uint       `gorm:"not null;index"`
	CreatedByID   uint       `gorm:"not null"`
	CreatedByRole Role       `gorm:"not null"`
	Status        string     `gorm:"not null;default:pendiente"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`

	Unit   OrgUnit         `gorm:"foreignKey:UnitID"`
	Images []ActivityImage `gorm:"foreignKey:ActivityID"`
}

// ActivityImage is owned exclusively by its activity; the stored file is
// removed before the row when the activity is deleted.
type ActivityImage struct {
	ID           uint      `gorm:"primaryKey"`
	ActivityID   uint      `gorm:"not null;index"`
	OriginalName string    `gorm:"not null"`
	StoredName   string    `gorm:"not null"`
	MimeType     string    `gorm:"not null"`
	Size         int64     `gorm:"not null"`
	UploadedAt   time.Time `gorm:"autoCreateTime"`
}
