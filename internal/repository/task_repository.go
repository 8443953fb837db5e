package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uniadmin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts the task, its assignments, its attachments and the initial
// history entry atomically. A task is never persisted without at least one
// assignment; callers validate that before calling.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, assignments []model.TaskAssignment, attachments []model.TaskAttachment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}

		for i := range assignments {
			assignments[i].TaskID = task.ID
			assignments[i].Status = model.AssignmentPending
		}
		if err := tx.Create(&assignments).Error; err != nil {
			return err
		}

		if len(attachments) > 0 {
			for i := range attachments {
				attachments[i].TaskID = task.ID
			}
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}

		entry := model.TaskHistoryEntry{
			TaskID:      task.ID,
			ActorID:     task.CreatedByID,
			ActorRole:   task.CreatedByRole,
			Action:      model.HistoryCreated,
			Description: fmt.Sprintf("Task created with %d assignments", len(assignments)),
		}
		return tx.Create(&entry).Error
	})
}

// GetByID loads a task with assignments, attachments and its history, newest
// history entries first.
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Preload("Attachments").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListAll returns every task with assignments and attachments, ascending by
// due date with newest-created first as tiebreak.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Preload("Attachments").
		Order("due_date ASC, created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// AssignedTask is a task row joined with one actor's assignment on it.
type AssignedTask struct {
	ID                    uint
	Title                 string
	Description           string
	DueDate               time.Time
	CreatedByID           uint
	CreatedByRole         model.Role
	CreatedAt             time.Time
	AssignmentID          uint
	AssignmentStatus      string
	AssignmentComment     *string
	AssignmentCompletedAt *time.Time

	Attachments []model.TaskAttachment `gorm:"-"`
}

// ListByAssignee returns the tasks assigned to one actor. Open assignments
// (pendiente, en_progreso) sort before completed ones; within each group the
// order is ascending due date.
func (r *TaskRepository) ListByAssignee(ctx context.Context, actorID uint, role model.Role) ([]AssignedTask, error) {
	var rows []AssignedTask
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Select("tasks.id, tasks.title, tasks.description, tasks.due_date, tasks.created_by_id, tasks.created_by_role, tasks.created_at, " +
			"task_assignments.id AS assignment_id, task_assignments.status AS assignment_status, " +
			"task_assignments.comment AS assignment_comment, task_assignments.completed_at AS assignment_completed_at").
		Joins("INNER JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("task_assignments.assignee_id = ? AND task_assignments.assignee_role = ?", actorID, role).
		Order("CASE WHEN task_assignments.status IN ('pendiente', 'en_progreso') THEN 1 ELSE 2 END, tasks.due_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	taskIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		taskIDs = append(taskIDs, row.ID)
	}
	var attachments []model.TaskAttachment
	if err := r.db.WithContext(ctx).Where("task_id IN ?", taskIDs).Find(&attachments).Error; err != nil {
		return nil, err
	}
	byTask := make(map[uint][]model.TaskAttachment, len(rows))
	for _, a := range attachments {
		byTask[a.TaskID] = append(byTask[a.TaskID], a)
	}
	for i := range rows {
		rows[i].Attachments = byTask[rows[i].ID]
	}
	return rows, nil
}

// Complete marks one assignment completed with the supplied comment and
// evidence files, atomically with the history entry. Attachments are tied to
// the task, not the assignment. Re-completing an already completed assignment
// overwrites comment and timestamp.
func (r *TaskRepository) Complete(ctx context.Context, assignmentID uint, comment *string, attachments []model.TaskAttachment) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignment model.TaskAssignment
		if err := tx.Where("id = ?", assignmentID).First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}
		if err := tx.Where("id = ?", assignment.TaskID).First(&task).Error; err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       model.AssignmentCompleted,
			"comment":      comment,
			"completed_at": now,
		}
		if err := tx.Model(&model.TaskAssignment{}).Where("id = ?", assignmentID).Updates(updates).Error; err != nil {
			return err
		}

		if len(attachments) > 0 {
			for i := range attachments {
				attachments[i].TaskID = assignment.TaskID
			}
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}

		description := "Task completed"
		if comment != nil {
			description += " with comment"
		}
		if n := len(attachments); n > 0 {
			description += fmt.Sprintf(" and %d file(s)", n)
		}
		entry := model.TaskHistoryEntry{
			TaskID:      assignment.TaskID,
			ActorID:     assignment.AssigneeID,
			ActorRole:   assignment.AssigneeRole,
			Action:      model.HistoryCompleted,
			Description: description,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateAssignmentState force-sets an assignment's state. The completion
// timestamp is set only when the new state is completada, cleared otherwise.
// A history entry records who made the change.
func (r *TaskRepository) UpdateAssignmentState(ctx context.Context, assignmentID uint, status string, comment *string, actor model.ActorRef) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignment model.TaskAssignment
		if err := tx.Where("id = ?", assignmentID).First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		var completedAt *time.Time
		if status == model.AssignmentCompleted {
			now := time.Now()
			completedAt = &now
		}
		updates := map[string]interface{}{
			"status":       status,
			"comment":      comment,
			"completed_at": completedAt,
		}
		if err := tx.Model(&model.TaskAssignment{}).Where("id = ?", assignmentID).Updates(updates).Error; err != nil {
			return err
		}

		entry := model.TaskHistoryEntry{
			TaskID:      assignment.TaskID,
			ActorID:     actor.ID,
			ActorRole:   actor.Role,
			Action:      model.HistoryUpdated,
			Description: "Assignment state updated to: " + status,
		}
		return tx.Create(&entry).Error
	})
}

// Update edits the task's scalar fields. A non-nil assignments slice replaces
// the whole assignment set: existing rows are deleted and the new set starts
// over in pendiente, leaving history rows as the only record of prior
// progress. New attachments are appended, never replacing existing ones.
func (r *TaskRepository) Update(ctx context.Context, taskID uint, updates map[string]interface{}, assignments []model.TaskAssignment, attachments []model.TaskAttachment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			result := tx.Model(&model.Task{}).Where("id = ?", taskID).Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrTaskNotFound
			}
		} else {
			var count int64
			if err := tx.Model(&model.Task{}).Where("id = ?", taskID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrTaskNotFound
			}
		}

		if assignments != nil {
			if err := tx.Delete(&model.TaskAssignment{}, "task_id = ?", taskID).Error; err != nil {
				return err
			}
			for i := range assignments {
				assignments[i].TaskID = taskID
				assignments[i].Status = model.AssignmentPending
			}
			if err := tx.Create(&assignments).Error; err != nil {
				return err
			}
		}

		if len(attachments) > 0 {
			for i := range attachments {
				attachments[i].TaskID = taskID
			}
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the task row; assignments, attachments and history cascade
// at the datastore level. Callers resolve attachment files first.
func (r *TaskRepository) Delete(ctx context.Context, taskID uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", taskID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Exists reports whether a task row exists.
func (r *TaskRepository) Exists(ctx context.Context, taskID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", taskID).Count(&count).Error
	return count > 0, err
}

// AttachmentsByTask returns all attachment rows for a task.
func (r *TaskRepository) AttachmentsByTask(ctx context.Context, taskID uint) ([]model.TaskAttachment, error) {
	var attachments []model.TaskAttachment
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Find(&attachments).Error
	return attachments, err
}

func (r *TaskRepository) AttachmentByID(ctx context.Context, id uint) (*model.TaskAttachment, error) {
	var attachment model.TaskAttachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *TaskRepository) DeleteAttachment(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.TaskAttachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttachmentNotFound
	}
	return nil
}

// PendingCount counts an actor's open assignments, for the badge.
func (r *TaskRepository) PendingCount(ctx context.Context, actorID uint, role model.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TaskAssignment{}).
		Where("assignee_id = ? AND assignee_role = ? AND status IN ?",
			actorID, role, []string{model.AssignmentPending, model.AssignmentInProgress}).
		Count(&count).Error
	return count, err
}
