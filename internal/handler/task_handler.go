package handler

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"mime/multipart"
	"net/http"
	"time"

	"uniadmin/internal/middleware"
	"uniadmin/internal/model"
	"uniadmin/internal/repository"
	"uniadmin/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	maxTaskFiles    = 5
	maxTaskFileSize = 10 << 20 // 10MB per attachment
)

type TaskHandler struct {
	taskRepo  *repository.TaskRepository
	actorRepo *repository.ActorRepository
	store     *storage.FileStore
	publicURL string
	debug     bool
}

func NewTaskHandler(
	taskRepo *repository.TaskRepository,
	actorRepo *repository.ActorRepository,
	store *storage.FileStore,
	publicURL string,
	debug bool,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:  taskRepo,
		actorRepo: actorRepo,
		store:     store,
		publicURL: publicURL,
		debug:     debug,
	}
}

// assignmentInput is the JSON shape of one entry in the assignments form
// field.
type assignmentInput struct {
	AssigneeID   uint       `json:"assignee_id"`
	AssigneeRole model.Role `json:"assignee_role"`
}

type AttachmentResponse struct {
	ID           uint   `json:"id"`
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
}

type AssignmentResponse struct {
	ID           uint       `json:"id"`
	AssigneeID   uint       `json:"assignee_id"`
	AssigneeRole model.Role `json:"assignee_role"`
	AssigneeName string     `json:"assignee_name"`
	Status       string     `json:"status"`
	Comment      *string    `json:"comment,omitempty"`
	CompletedAt  *string    `json:"completed_at,omitempty"`
}

type TaskResponse struct {
	ID            uint                 `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	DueDate       string               `json:"due_date"`
	CreatedBy     model.ActorRef       `json:"created_by"`
	CreatedByName string               `json:"created_by_name"`
	CreatedAt     string               `json:"created_at"`
	Assignments   []AssignmentResponse `json:"assignments"`
	Attachments   []AttachmentResponse `json:"attachments"`
	Total         int                  `json:"total_assignments"`
	Completed     int                  `json:"completed"`
	Pending       int                  `json:"pending"`
	InProgress    int                  `json:"in_progress"`
	Progress      int                  `json:"progress"`
}

type HistoryResponse struct {
	ID          uint           `json:"id"`
	Actor       model.ActorRef `json:"actor"`
	ActorName   string         `json:"actor_name"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	CreatedAt   string         `json:"created_at"`
}

// AssignableUsers lists staff members that can receive task assignments.
func (h *TaskHandler) AssignableUsers(c *gin.Context) {
	staff, err := h.actorRepo.ListStaff(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to retrieve assignable users", err, h.debug)
		return
	}

	type assignableUser struct {
		ID       uint       `json:"id"`
		Name     string     `json:"name"`
		Role     model.Role `json:"role"`
		Position string     `json:"position"`
		UnitName string     `json:"unit_name"`
	}
	data := make([]assignableUser, 0, len(staff))
	for _, s := range staff {
		data = append(data, assignableUser{
			ID:       s.ID,
			Name:     s.FullName,
			Role:     model.RoleStaff,
			Position: s.RoleTitle,
			UnitName: s.Unit.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     data,
		"metadata": gin.H{"total": len(data)},
	})
}

// Create registers a task, its assignments and its attachments in one
// transaction. The assignments form field carries a JSON array.
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	title := c.PostForm("title")
	dueDateStr := c.PostForm("due_date")
	assignmentsJSON := c.PostForm("assignments")
	if title == "" || dueDateStr == "" || assignmentsJSON == "" {
		fail(c, http.StatusBadRequest, "Title, due date and assignments are required")
		return
	}

	dueDate, err := parseDate(dueDateStr)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid due_date format")
		return
	}

	assignments, ok := h.parseAssignments(c, assignmentsJSON)
	if !ok {
		return
	}

	files, ok := h.collectTaskFiles(c)
	if !ok {
		return
	}

	uploads, err := storeUploads(h.store, storage.CategoryTasks, "tarea", files)
	if err != nil {
		internalError(c, "Failed to store attachments", err, h.debug)
		return
	}

	task := &model.Task{
		Title:         title,
		Description:   c.PostForm("description"),
		DueDate:       dueDate,
		CreatedByID:   actor.ID,
		CreatedByRole: actor.Role,
	}
	if err := h.taskRepo.Create(c.Request.Context(), task, assignments, toAttachments(uploads)); err != nil {
		h.removeTaskFiles(uploads)
		internalError(c, "Failed to create task", err, h.debug)
		return
	}

	log.Printf("📝 Task %d created with %d assignments", task.ID, len(assignments))
	c.JSON(http.StatusCreated, gin.H{
		"success":          true,
		"message":          "Task created successfully",
		"task_id":          task.ID,
		"assignment_count": len(assignments),
		"file_count":       len(uploads),
	})
}

// ListAll returns every task with per-assignment detail and aggregate
// progress.
func (h *TaskHandler) ListAll(c *gin.Context) {
	tasks, err := h.taskRepo.ListAll(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to retrieve tasks", err, h.debug)
		return
	}

	data := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		data = append(data, h.taskResponse(c, t))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "total": len(data)})
}

// GetByID returns one task with assignments, attachments and full history.
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		internalError(c, "Failed to retrieve task", err, h.debug)
		return
	}

	resp := h.taskResponse(c, *task)
	history := make([]HistoryResponse, 0, len(task.History))
	for _, entry := range task.History {
		name, err := h.actorRepo.DisplayName(c.Request.Context(), model.ActorRef{ID: entry.ActorID, Role: entry.ActorRole})
		if err != nil || name == "" {
			name = systemActorName
		}
		history = append(history, HistoryResponse{
			ID:          entry.ID,
			Actor:       model.ActorRef{ID: entry.ActorID, Role: entry.ActorRole},
			ActorName:   name,
			Action:      entry.Action,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp, "history": history})
}

// Update edits a task. A present assignments field replaces the full
// assignment set; new files are appended to the existing attachments.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if title := c.PostForm("title"); title != "" {
		updates["title"] = title
	}
	if description, present := c.GetPostForm("description"); present {
		updates["description"] = description
	}
	if dueDateStr := c.PostForm("due_date"); dueDateStr != "" {
		dueDate, err := parseDate(dueDateStr)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid due_date format")
			return
		}
		updates["due_date"] = dueDate
	}
	if len(updates) == 0 && c.PostForm("assignments") == "" {
		if form, err := c.MultipartForm(); err != nil || len(form.File["files"]) == 0 {
			fail(c, http.StatusBadRequest, "Nothing to update")
			return
		}
	}

	var assignments []model.TaskAssignment
	if assignmentsJSON := c.PostForm("assignments"); assignmentsJSON != "" {
		parsed, ok := h.parseAssignments(c, assignmentsJSON)
		if !ok {
			return
		}
		assignments = parsed
	}

	files, ok := h.collectTaskFiles(c)
	if !ok {
		return
	}
	uploads, err := storeUploads(h.store, storage.CategoryTasks, "tarea", files)
	if err != nil {
		internalError(c, "Failed to store attachments", err, h.debug)
		return
	}

	if err := h.taskRepo.Update(c.Request.Context(), id, updates, assignments, toAttachments(uploads)); err != nil {
		h.removeTaskFiles(uploads)
		if errors.Is(err, repository.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		internalError(c, "Failed to update task", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task updated successfully"})
}

type UpdateAssignmentRequest struct {
	Status  string  `json:"status" binding:"required"`
	Comment *string `json:"comment"`
}

// UpdateAssignment changes one assignment's state from the admin panel.
func (h *TaskHandler) UpdateAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Status is required")
		return
	}
	switch req.Status {
	case model.AssignmentPending, model.AssignmentInProgress, model.AssignmentCompleted:
	default:
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.taskRepo.UpdateAssignmentState(c.Request.Context(), id, req.Status, req.Comment, actor); err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			fail(c, http.StatusNotFound, "Assignment not found")
			return
		}
		internalError(c, "Failed to update assignment", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Assignment updated successfully"})
}

// Complete marks an assignment done. At least a comment or one evidence file
// is required; the check runs before anything is stored.
func (h *TaskHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comment := c.PostForm("comment")
	files, ok := h.collectTaskFiles(c)
	if !ok {
		return
	}
	if comment == "" && len(files) == 0 {
		fail(c, http.StatusBadRequest, "A comment or at least one file is required to complete the assignment")
		return
	}

	uploads, err := storeUploads(h.store, storage.CategoryTasks, "tarea", files)
	if err != nil {
		internalError(c, "Failed to store attachments", err, h.debug)
		return
	}

	var commentPtr *string
	if comment != "" {
		commentPtr = &comment
	}

	task, err := h.taskRepo.Complete(c.Request.Context(), id, commentPtr, toAttachments(uploads))
	if err != nil {
		h.removeTaskFiles(uploads)
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			fail(c, http.StatusNotFound, "Assignment not found")
			return
		}
		internalError(c, "Failed to complete assignment", err, h.debug)
		return
	}

	log.Printf("✅ Assignment %d completed on task %d", id, task.ID)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Assignment completed successfully",
		"task_id":    task.ID,
		"task_title": task.Title,
		"file_count": len(uploads),
	})
}

// Delete removes a task. The database cascades assignment, attachment and
// history rows; attachment files go first, best effort.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	attachments, err := h.taskRepo.AttachmentsByTask(c.Request.Context(), id)
	if err != nil {
		internalError(c, "Failed to delete task", err, h.debug)
		return
	}

	deletedFiles := 0
	for _, a := range attachments {
		if h.store.Delete(storage.CategoryTasks, a.StoredName) {
			deletedFiles++
		} else {
			log.Printf("⚠️  Could not delete task attachment %s", a.StoredName)
		}
	}

	if err := h.taskRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, "Task not found")
			return
		}
		internalError(c, "Failed to delete task", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Task deleted successfully",
		"task_id":       id,
		"deleted_files": deletedFiles,
	})
}

// ListForAssignee returns one actor's tasks with days_remaining computed
// against local midnight.
func (h *TaskHandler) ListForAssignee(c *gin.Context) {
	assigneeID, ok := parseID(c, "id")
	if !ok {
		return
	}
	role := model.Role(c.DefaultQuery("role", string(model.RoleStaff)))
	if !role.Valid() {
		fail(c, http.StatusBadRequest, "Invalid role")
		return
	}

	rows, err := h.taskRepo.ListByAssignee(c.Request.Context(), assigneeID, role)
	if err != nil {
		internalError(c, "Failed to retrieve tasks", err, h.debug)
		return
	}

	type assignedTaskResponse struct {
		ID            uint                 `json:"id"`
		Title         string               `json:"title"`
		Description   string               `json:"description,omitempty"`
		DueDate       string               `json:"due_date"`
		DaysRemaining int                  `json:"days_remaining"`
		CreatedByName string               `json:"created_by_name"`
		AssignmentID  uint                 `json:"assignment_id"`
		Status        string               `json:"status"`
		Comment       *string              `json:"comment,omitempty"`
		CompletedAt   *string              `json:"completed_at,omitempty"`
		Attachments   []AttachmentResponse `json:"attachments"`
	}

	now := time.Now()
	data := make([]assignedTaskResponse, 0, len(rows))
	for _, row := range rows {
		name, err := h.actorRepo.DisplayName(c.Request.Context(), model.ActorRef{ID: row.CreatedByID, Role: row.CreatedByRole})
		if err != nil || name == "" {
			name = systemActorName
		}
		resp := assignedTaskResponse{
			ID:            row.ID,
			Title:         row.Title,
			Description:   row.Description,
			DueDate:       row.DueDate.Format("2006-01-02"),
			DaysRemaining: daysRemaining(now, row.DueDate),
			CreatedByName: name,
			AssignmentID:  row.AssignmentID,
			Status:        row.AssignmentStatus,
			Comment:       row.AssignmentComment,
			Attachments:   h.attachmentResponses(row.Attachments),
		}
		if row.AssignmentCompletedAt != nil {
			formatted := row.AssignmentCompletedAt.Format(time.RFC3339)
			resp.CompletedAt = &formatted
		}
		data = append(data, resp)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "total": len(data)})
}

// PendingCount powers the badge on the assignee dashboard.
func (h *TaskHandler) PendingCount(c *gin.Context) {
	assigneeID, ok := parseID(c, "id")
	if !ok {
		return
	}
	role := model.Role(c.DefaultQuery("role", string(model.RoleStaff)))
	if !role.Valid() {
		fail(c, http.StatusBadRequest, "Invalid role")
		return
	}

	count, err := h.taskRepo.PendingCount(c.Request.Context(), assigneeID, role)
	if err != nil {
		internalError(c, "Failed to count pending tasks", err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"pending": count}})
}

// DeleteAttachment removes one attachment: file first, row second.
func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	attachment, err := h.taskRepo.AttachmentByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAttachmentNotFound) {
			fail(c, http.StatusNotFound, "Attachment not found")
			return
		}
		internalError(c, "Failed to delete attachment", err, h.debug)
		return
	}

	if !h.store.Delete(storage.CategoryTasks, attachment.StoredName) {
		log.Printf("⚠️  Could not delete task attachment %s", attachment.StoredName)
	}
	if err := h.taskRepo.DeleteAttachment(c.Request.Context(), id); err != nil {
		internalError(c, "Failed to delete attachment", err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attachment deleted successfully"})
}

// parseAssignments validates the JSON array from the form field. Each entry
// must name an existing director or staff member.
func (h *TaskHandler) parseAssignments(c *gin.Context, raw string) ([]model.TaskAssignment, bool) {
	var inputs []assignmentInput
	if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
		fail(c, http.StatusBadRequest, "Invalid assignments format")
		return nil, false
	}
	if len(inputs) == 0 {
		fail(c, http.StatusBadRequest, "At least one assignment is required")
		return nil, false
	}

	assignments := make([]model.TaskAssignment, 0, len(inputs))
	seen := make(map[model.ActorRef]bool, len(inputs))
	for _, in := range inputs {
		if in.AssigneeRole != model.RoleDirector && in.AssigneeRole != model.RoleStaff {
			fail(c, http.StatusBadRequest, "Assignees must be directors or staff members")
			return nil, false
		}
		ref := model.ActorRef{ID: in.AssigneeID, Role: in.AssigneeRole}
		if seen[ref] {
			continue
		}
		seen[ref] = true

		exists, err := h.actorRepo.Exists(c.Request.Context(), ref)
		if err != nil {
			internalError(c, "Failed to validate assignments", err, h.debug)
			return nil, false
		}
		if !exists {
			fail(c, http.StatusBadRequest, "Assignee does not exist")
			return nil, false
		}
		assignments = append(assignments, model.TaskAssignment{
			AssigneeID:   in.AssigneeID,
			AssigneeRole: in.AssigneeRole,
		})
	}
	return assignments, true
}

// collectTaskFiles validates the uploaded file set without storing anything.
func (h *TaskHandler) collectTaskFiles(c *gin.Context) ([]*multipart.FileHeader, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, true
	}
	files := form.File["files"]
	if len(files) > maxTaskFiles {
		fail(c, http.StatusBadRequest, "At most 5 files are allowed")
		return nil, false
	}
	for _, f := range files {
		if f.Size > maxTaskFileSize {
			fail(c, http.StatusBadRequest, "File "+f.Filename+" exceeds the 10MB limit")
			return nil, false
		}
	}
	return files, true
}

func (h *TaskHandler) removeTaskFiles(uploads []storedUpload) {
	for _, u := range uploads {
		h.store.Delete(storage.CategoryTasks, u.StoredName)
	}
}

func (h *TaskHandler) taskResponse(c *gin.Context, t model.Task) TaskResponse {
	creatorName, err := h.actorRepo.DisplayName(c.Request.Context(), model.ActorRef{ID: t.CreatedByID, Role: t.CreatedByRole})
	if err != nil || creatorName == "" {
		creatorName = systemActorName
	}

	var completed, pending, inProgress int
	assignments := make([]AssignmentResponse, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		switch a.Status {
		case model.AssignmentCompleted:
			completed++
		case model.AssignmentInProgress:
			inProgress++
		default:
			pending++
		}

		name, err := h.actorRepo.DisplayName(c.Request.Context(), model.ActorRef{ID: a.AssigneeID, Role: a.AssigneeRole})
		if err != nil || name == "" {
			name = systemActorName
		}
		resp := AssignmentResponse{
			ID:           a.ID,
			AssigneeID:   a.AssigneeID,
			AssigneeRole: a.AssigneeRole,
			AssigneeName: name,
			Status:       a.Status,
			Comment:      a.Comment,
		}
		if a.CompletedAt != nil {
			formatted := a.CompletedAt.Format(time.RFC3339)
			resp.CompletedAt = &formatted
		}
		assignments = append(assignments, resp)
	}

	total := len(t.Assignments)
	progress := 0
	if total > 0 {
		progress = int(math.Round(100 * float64(completed) / float64(total)))
	}

	return TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		DueDate:       t.DueDate.Format("2006-01-02"),
		CreatedBy:     model.ActorRef{ID: t.CreatedByID, Role: t.CreatedByRole},
		CreatedByName: creatorName,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		Assignments:   assignments,
		Attachments:   h.attachmentResponses(t.Attachments),
		Total:         total,
		Completed:     completed,
		Pending:       pending,
		InProgress:    inProgress,
		Progress:      progress,
	}
}

func (h *TaskHandler) attachmentResponses(attachments []model.TaskAttachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, AttachmentResponse{
			ID:           a.ID,
			OriginalName: a.OriginalName,
			StoredName:   a.StoredName,
			MimeType:     a.MimeType,
			Size:         a.Size,
			URL:          h.publicURL + "/api/files/tasks/" + a.StoredName,
		})
	}
	return out
}

func toAttachments(uploads []storedUpload) []model.TaskAttachment {
	attachments := make([]model.TaskAttachment, 0, len(uploads))
	for _, u := range uploads {
		attachments = append(attachments, model.TaskAttachment{
			OriginalName: u.OriginalName,
			StoredName:   u.StoredName,
			MimeType:     u.MimeType,
			Size:         u.Size,
		})
	}
	return attachments
}

// daysRemaining is the whole-day distance between today's midnight and the
// due date's midnight. Overdue tasks go negative.
func daysRemaining(now, due time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueMidnight := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	return int(math.Ceil(dueMidnight.Sub(today).Hours() / 24))
}
