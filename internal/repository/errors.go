package repository

import "errors"

// Common repository errors
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrAttachmentNotFound   = errors.New("attachment not found")
	ErrActivityNotFound     = errors.New("activity not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrDirectorNotFound     = errors.New("director not found")
	ErrStaffNotFound        = errors.New("staff member not found")

	// ErrUnknownRole is returned when a tagged actor reference names a role
	// outside the three known account tables.
	ErrUnknownRole = errors.New("unknown actor role")
)
