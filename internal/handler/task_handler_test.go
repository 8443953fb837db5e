package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"uniadmin/internal/handler"
	"uniadmin/internal/middleware"
	"uniadmin/internal/model"
	"uniadmin/internal/repository"
	"uniadmin/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// actorAs injects an authenticated actor like JWTAuthMiddleware would.
func actorAs(ref model.ActorRef) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ActorIDKey, ref.ID)
		c.Set(middleware.ActorRoleKey, ref.Role)
		c.Next()
	}
}

func setupTaskTest(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	gormDB, sqlMock := mockRepoDB(t)
	store, err := storage.NewFileStore(t.TempDir())
	assert.NoError(t, err)

	taskHandler := handler.NewTaskHandler(
		repository.NewTaskRepository(gormDB),
		repository.NewActorRepository(gormDB),
		store,
		"http://localhost:8080",
		true,
	)

	authorized := r.Group("/api")
	authorized.Use(actorAs(model.ActorRef{ID: 1, Role: model.RoleSuperAdmin}))
	{
		authorized.POST("/tasks", taskHandler.Create)
		authorized.POST("/assignments/:id/complete", taskHandler.Complete)
		authorized.GET("/assignees/:id/tasks", taskHandler.ListForAssignee)
	}

	return r, sqlMock
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		assert.NoError(t, writer.WriteField(key, value))
	}
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateTask_MissingFields(t *testing.T) {
	// Arrange
	router, sqlMock := setupTaskTest(t)

	body, contentType := multipartBody(t, map[string]string{"title": "Quarterly report"})
	req, _ := http.NewRequest("POST", "/api/tasks", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Title, due date and assignments are required")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateTask_MalformedAssignments(t *testing.T) {
	// Arrange
	router, sqlMock := setupTaskTest(t)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Quarterly report",
		"due_date":    "2025-06-30",
		"assignments": "not-json",
	})
	req, _ := http.NewRequest("POST", "/api/tasks", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid assignments format")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateTask_EmptyAssignments(t *testing.T) {
	// Arrange
	router, sqlMock := setupTaskTest(t)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Quarterly report",
		"due_date":    "2025-06-30",
		"assignments": "[]",
	})
	req, _ := http.NewRequest("POST", "/api/tasks", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "At least one assignment is required")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateTask_RejectsSuperAdminAssignee(t *testing.T) {
	// Arrange
	router, sqlMock := setupTaskTest(t)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Quarterly report",
		"due_date":    "2025-06-30",
		"assignments": `[{"assignee_id": 1, "assignee_role": "superadmin"}]`,
	})
	req, _ := http.NewRequest("POST", "/api/tasks", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Assignees must be directors or staff members")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCreateTask_RejectsUnknownAssignee(t *testing.T) {
	// Arrange
	router, sqlMock := setupTaskTest(t)

	sqlMock.ExpectQuery(`SELECT count\(\*\) FROM "staff_members"`).
		WithArgs(uint(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Quarterly report",
		"due_date":    "2025-06-30",
		"assignments": `[{"assignee_id": 99, "assignee_role": "personal"}]`,
	})
	req, _ := http.NewRequest("POST", "/api/tasks", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Assignee does not exist")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCompleteAssignment_RequiresCommentOrFile(t *testing.T) {
	// Arrange
	router, sqlMock := setupTaskTest(t)

	body, contentType := multipartBody(t, map[string]string{})
	req, _ := http.NewRequest("POST", "/api/assignments/5/complete", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "A comment or at least one file is required")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestCompleteAssignment_ReturnsTaskTitle(t *testing.T) {
	// Arrange
	router, sqlMock := setupTaskTest(t)

	sqlMock.ExpectBegin()
	sqlMock.ExpectQuery(`SELECT \* FROM "task_assignments" WHERE id = \$1`).
		WithArgs(uint(5), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "assignee_id", "assignee_role", "status", "comment", "completed_at"}).
			AddRow(5, 10, 3, "personal", "en_progreso", nil, nil))
	sqlMock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = \$1`).
		WithArgs(uint(10), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "due_date", "created_by_id", "created_by_role", "created_at"}).
			AddRow(10, "Quarterly report", "", time.Now(), 1, "superadmin", time.Now()))
	sqlMock.ExpectExec(`UPDATE "task_assignments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectQuery(`INSERT INTO "task_history"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1000))
	sqlMock.ExpectCommit()

	body, contentType := multipartBody(t, map[string]string{"comment": "Report delivered"})
	req, _ := http.NewRequest("POST", "/api/assignments/5/complete", body)
	req.Header.Set("Content-Type", contentType)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"task_id":10`)
	assert.Contains(t, resp.Body.String(), `"task_title":"Quarterly report"`)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestListForAssignee_InvalidRole(t *testing.T) {
	// Arrange
	router, sqlMock := setupTaskTest(t)

	req, _ := http.NewRequest("GET", "/api/assignees/5/tasks?role=janitor", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid role")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
