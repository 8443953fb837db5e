package auth

import (
	"context"
	"errors"

	"uniadmin/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is the only error a failed login resolves to: the
// caller must not be able to tell an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountSource looks up accounts by email across the three role tables.
// A missing row is (nil, nil), not an error.
type AccountSource interface {
	FindSuperUserByEmail(ctx context.Context, email string) (*model.SuperUser, error)
	FindDirectorByEmail(ctx context.Context, email string) (*model.Director, error)
	FindStaffByEmail(ctx context.Context, email string) (*model.StaffMember, error)
}

// Account is the role-independent view of whoever just authenticated.
type Account struct {
	Ref      model.ActorRef
	Name     string
	Email    string
	Position string
	UnitID   *uint
	UnitName string
	Photo    *string
}

// Resolver implements credential resolution over the three disjoint account
// tables: super users, then directors, then staff. The probe moves to the
// next table only when the current one has no row for the email; an existing
// row with a wrong password ends the resolution immediately, so a second
// table never gets a chance at the same email.
type Resolver struct {
	accounts AccountSource
}

func NewResolver(accounts AccountSource) *Resolver {
	return &Resolver{accounts: accounts}
}

func (r *Resolver) Resolve(ctx context.Context, email, password string) (*Account, error) {
	superUser, err := r.accounts.FindSuperUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if superUser != nil {
		if !verify(password, superUser.HashedPassword) {
			return nil, ErrInvalidCredentials
		}
		return &Account{
			Ref:   model.ActorRef{ID: superUser.ID, Role: model.RoleSuperAdmin},
			Name:  superUser.Username,
			Email: superUser.Email,
		}, nil
	}

	director, err := r.accounts.FindDirectorByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if director != nil {
		if !verify(password, director.HashedPassword) {
			return nil, ErrInvalidCredentials
		}
		return &Account{
			Ref:      model.ActorRef{ID: director.ID, Role: model.RoleDirector},
			Name:     director.FullName,
			Email:    director.Email,
			Position: director.Position,
			UnitID:   &director.UnitID,
			UnitName: director.Unit.Name,
		}, nil
	}

	staff, err := r.accounts.FindStaffByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if staff != nil {
		if !verify(password, staff.HashedPassword) {
			return nil, ErrInvalidCredentials
		}
		return &Account{
			Ref:      model.ActorRef{ID: staff.ID, Role: model.RoleStaff},
			Name:     staff.FullName,
			Email:    staff.Email,
			Position: staff.RoleTitle,
			UnitID:   &staff.UnitID,
			UnitName: staff.Unit.Name,
			Photo:    staff.Photo,
		}, nil
	}

	return nil, ErrInvalidCredentials
}

func verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
