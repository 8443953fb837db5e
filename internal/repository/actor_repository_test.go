package repository_test

import (
	"context"
	"testing"

	"uniadmin/internal/model"
	"uniadmin/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestActorRepository_DisplayName_PerRole(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	actorRepo := repository.NewActorRepository(gormDB)

	mock.ExpectQuery(`SELECT "username" FROM "super_users"`).
		WithArgs(uint(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("admin"))
	mock.ExpectQuery(`SELECT "full_name" FROM "directors"`).
		WithArgs(uint(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"full_name"}).AddRow("Laura Mendez"))
	mock.ExpectQuery(`SELECT "full_name" FROM "staff_members"`).
		WithArgs(uint(3), 1).
		WillReturnRows(sqlmock.NewRows([]string{"full_name"}).AddRow("Pedro Ruiz"))

	// Act + Assert
	name, err := actorRepo.DisplayName(context.Background(), model.ActorRef{ID: 1, Role: model.RoleSuperAdmin})
	assert.NoError(t, err)
	assert.Equal(t, "admin", name)

	name, err = actorRepo.DisplayName(context.Background(), model.ActorRef{ID: 2, Role: model.RoleDirector})
	assert.NoError(t, err)
	assert.Equal(t, "Laura Mendez", name)

	name, err = actorRepo.DisplayName(context.Background(), model.ActorRef{ID: 3, Role: model.RoleStaff})
	assert.NoError(t, err)
	assert.Equal(t, "Pedro Ruiz", name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActorRepository_DisplayName_MissingRow(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	actorRepo := repository.NewActorRepository(gormDB)

	mock.ExpectQuery(`SELECT "full_name" FROM "staff_members"`).
		WithArgs(uint(99), 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	name, err := actorRepo.DisplayName(context.Background(), model.ActorRef{ID: 99, Role: model.RoleStaff})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActorRepository_DisplayName_UnknownRole(t *testing.T) {
	// Arrange
	gormDB, _ := setupMockDB(t)
	actorRepo := repository.NewActorRepository(gormDB)

	// Act
	_, err := actorRepo.DisplayName(context.Background(), model.ActorRef{ID: 1, Role: "janitor"})

	// Assert
	assert.ErrorIs(t, err, repository.ErrUnknownRole)
}

func TestActorRepository_Exists(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	actorRepo := repository.NewActorRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "directors"`).
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Act
	exists, err := actorRepo.Exists(context.Background(), model.ActorRef{ID: 7, Role: model.RoleDirector})

	// Assert
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActorRepository_FindSuperUserByEmail_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	actorRepo := repository.NewActorRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "super_users" WHERE email = .*`).
		WithArgs("nobody@uni.edu", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	user, err := actorRepo.FindSuperUserByEmail(context.Background(), "nobody@uni.edu")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActorRepository_DeleteStaff_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	actorRepo := repository.NewActorRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "staff_members"`).
		WithArgs(uint(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := actorRepo.DeleteStaff(context.Background(), 99)

	// Assert
	assert.ErrorIs(t, err, repository.ErrStaffNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
