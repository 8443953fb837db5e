package auth_test

import (
	"context"
	"testing"

	"uniadmin/internal/auth"
	"uniadmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type mockAccountSource struct {
	mock.Mock
}

func (m *mockAccountSource) FindSuperUserByEmail(ctx context.Context, email string) (*model.SuperUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SuperUser), args.Error(1)
}

func (m *mockAccountSource) FindDirectorByEmail(ctx context.Context, email string) (*model.Director, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Director), args.Error(1)
}

func (m *mockAccountSource) FindStaffByEmail(ctx context.Context, email string) (*model.StaffMember, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StaffMember), args.Error(1)
}

func hash(t *testing.T, password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestResolver_SuperUser(t *testing.T) {
	// Arrange
	accounts := new(mockAccountSource)
	accounts.On("FindSuperUserByEmail", mock.Anything, "admin@uni.edu").
		Return(&model.SuperUser{ID: 1, Username: "admin", Email: "admin@uni.edu", HashedPassword: hash(t, "secret")}, nil)

	resolver := auth.NewResolver(accounts)

	// Act
	account, err := resolver.Resolve(context.Background(), "admin@uni.edu", "secret")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.ActorRef{ID: 1, Role: model.RoleSuperAdmin}, account.Ref)
	assert.Equal(t, "admin", account.Name)
	accounts.AssertNotCalled(t, "FindDirectorByEmail", mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "FindStaffByEmail", mock.Anything, mock.Anything)
}

func TestResolver_WrongPasswordDoesNotFallThrough(t *testing.T) {
	// A super user row with a wrong password must end the resolution; the
	// director and staff tables never get probed for the same email.
	accounts := new(mockAccountSource)
	accounts.On("FindSuperUserByEmail", mock.Anything, "admin@uni.edu").
		Return(&model.SuperUser{ID: 1, Username: "admin", Email: "admin@uni.edu", HashedPassword: hash(t, "secret")}, nil)

	resolver := auth.NewResolver(accounts)

	account, err := resolver.Resolve(context.Background(), "admin@uni.edu", "wrong")

	assert.Nil(t, account)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	accounts.AssertNotCalled(t, "FindDirectorByEmail", mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "FindStaffByEmail", mock.Anything, mock.Anything)
}

func TestResolver_Director(t *testing.T) {
	// Arrange
	unitID := uint(3)
	accounts := new(mockAccountSource)
	accounts.On("FindSuperUserByEmail", mock.Anything, "dir@uni.edu").Return(nil, nil)
	accounts.On("FindDirectorByEmail", mock.Anything, "dir@uni.edu").
		Return(&model.Director{
			ID:             7,
			FullName:       "Laura Mendez",
			Position:       "Director of Planning",
			UnitID:         unitID,
			Email:          "dir@uni.edu",
			HashedPassword: hash(t, "secret"),
			Unit:           model.OrgUnit{ID: unitID, Name: "Planning"},
		}, nil)

	resolver := auth.NewResolver(accounts)

	// Act
	account, err := resolver.Resolve(context.Background(), "dir@uni.edu", "secret")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.ActorRef{ID: 7, Role: model.RoleDirector}, account.Ref)
	assert.Equal(t, "Laura Mendez", account.Name)
	assert.Equal(t, "Planning", account.UnitName)
	assert.Equal(t, &unitID, account.UnitID)
}

func TestResolver_Staff(t *testing.T) {
	// Arrange
	accounts := new(mockAccountSource)
	accounts.On("FindSuperUserByEmail", mock.Anything, "staff@uni.edu").Return(nil, nil)
	accounts.On("FindDirectorByEmail", mock.Anything, "staff@uni.edu").Return(nil, nil)
	accounts.On("FindStaffByEmail", mock.Anything, "staff@uni.edu").
		Return(&model.StaffMember{
			ID:             12,
			FullName:       "Pedro Ruiz",
			RoleTitle:      "Analyst",
			UnitID:         3,
			Email:          "staff@uni.edu",
			HashedPassword: hash(t, "secret"),
			Unit:           model.OrgUnit{ID: 3, Name: "Planning"},
		}, nil)

	resolver := auth.NewResolver(accounts)

	// Act
	account, err := resolver.Resolve(context.Background(), "staff@uni.edu", "secret")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.ActorRef{ID: 12, Role: model.RoleStaff}, account.Ref)
	assert.Equal(t, "Analyst", account.Position)
}

func TestResolver_UnknownEmail(t *testing.T) {
	// Arrange
	accounts := new(mockAccountSource)
	accounts.On("FindSuperUserByEmail", mock.Anything, "nobody@uni.edu").Return(nil, nil)
	accounts.On("FindDirectorByEmail", mock.Anything, "nobody@uni.edu").Return(nil, nil)
	accounts.On("FindStaffByEmail", mock.Anything, "nobody@uni.edu").Return(nil, nil)

	resolver := auth.NewResolver(accounts)

	// Act
	account, err := resolver.Resolve(context.Background(), "nobody@uni.edu", "secret")

	// Assert
	assert.Nil(t, account)
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestResolver_SourceError(t *testing.T) {
	// Arrange
	accounts := new(mockAccountSource)
	accounts.On("FindSuperUserByEmail", mock.Anything, "admin@uni.edu").Return(nil, assert.AnError)

	resolver := auth.NewResolver(accounts)

	// Act
	account, err := resolver.Resolve(context.Background(), "admin@uni.edu", "secret")

	// Assert
	assert.Nil(t, account)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}
