package model

import "time"

// Assignment states. An assignment moves pendiente -> en_progreso ->
// completada; en_progreso may be skipped and completada is terminal in the
// normal flow. Administrative updates may force any state.
const (
	AssignmentPending    = "pendiente"
	AssignmentInProgress = "en_progreso"
	AssignmentCompleted  = "completada"
)

// History action tags.
const (
	HistoryCreated   = "creada"
	HistoryUpdated   = "actualizacion"
	HistoryCompleted = "completada"
)

type Task struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"not null"`
	Description   string
	DueDate       time.Time `gorm:"not null"`
	CreatedByID   uint      `gorm:"not null"`
	CreatedByRole Role      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	Assignments []TaskAssignment  `gorm:"foreignKey:TaskID"`
	Attachments []TaskAttachment  `gorm:"foreignKey:TaskID"`
	History     []TaskHistoryEntry `gorm:"foreignKey:TaskID"`
}

// TaskAssignment ties one task to one assignee actor and carries that
// assignee's completion state.
type TaskAssignment struct {
	ID           uint       `gorm:"primaryKey"`
	TaskID       uint       `gorm:"not null;index"`
	AssigneeID   uint       `gorm:"not null"`
	AssigneeRole Role       `gorm:"not null"`
	Status       string     `gorm:"not null;default:pendiente"`
	Comment      *string
	CompletedAt  *time.Time
}

// TaskAttachment belongs to the task, not to a specific assignment, even
// when uploaded while completing one.
type TaskAttachment struct {
	ID           uint      `gorm:"primaryKey"`
	TaskID       uint      `gorm:"not null;index"`
	OriginalName string    `gorm:"not null"`
	StoredName   string    `gorm:"not null"`
	MimeType     string    `gorm:"not null"`
	Size         int64     `gorm:"not null"`
	UploadedAt   time.Time `gorm:"autoCreateTime"`
}

// TaskHistoryEntry is append-only; rows are never updated or deleted
// individually, only cascaded away with their task.
type TaskHistoryEntry struct {
	ID          uint      `gorm:"primaryKey"`
	TaskID      uint      `gorm:"not null;index"`
	ActorID     uint      `gorm:"not null"`
	ActorRole   Role      `gorm:"not null"`
	Action      string    `gorm:"not null"`
	Description string
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (TaskHistoryEntry) TableName() string { return "task_history" }
