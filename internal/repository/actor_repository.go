package repository

import (
	"context"
	"errors"

	"uniadmin/internal/model"

	"gorm.io/gorm"
)

// ActorRepository spans the three disjoint account tables (super users,
// directors, staff). Tagged (id, role) references are resolved here through a
// per-role dispatch table instead of duplicating role switches at call sites.
type ActorRepository struct {
	db          *gorm.DB
	nameLookups map[model.Role]func(ctx context.Context, id uint) (string, error)
	models      map[model.Role]interface{}
}

type ActorRepositoryInterface interface {
	FindSuperUserByEmail(ctx context.Context, email string) (*model.SuperUser, error)
	FindDirectorByEmail(ctx context.Context, email string) (*model.Director, error)
	FindStaffByEmail(ctx context.Context, email string) (*model.StaffMember, error)
}

var _ ActorRepositoryInterface = (*ActorRepository)(nil)

func NewActorRepository(db *gorm.DB) *ActorRepository {
	r := &ActorRepository{db: db}
	r.nameLookups = map[model.Role]func(ctx context.Context, id uint) (string, error){
		model.RoleSuperAdmin: r.superUserName,
		model.RoleDirector:   r.directorName,
		model.RoleStaff:      r.staffName,
	}
	r.models = map[model.Role]interface{}{
		model.RoleSuperAdmin: &model.SuperUser{},
		model.RoleDirector:   &model.Director{},
		model.RoleStaff:      &model.StaffMember{},
	}
	return r
}

// DisplayName resolves the display name behind a tagged actor reference.
// A reference to a missing row yields an empty name, not an error.
func (r *ActorRepository) DisplayName(ctx context.Context, ref model.ActorRef) (string, error) {
	lookup, ok := r.nameLookups[ref.Role]
	if !ok {
		return "", ErrUnknownRole
	}
	return lookup(ctx, ref.ID)
}

// Exists reports whether a row with the referenced primary key exists in the
// table named by the reference's role. The datastore cannot enforce this
// across three tables, so callers check it before persisting a reference.
func (r *ActorRepository) Exists(ctx context.Context, ref model.ActorRef) (bool, error) {
	m, ok := r.models[ref.Role]
	if !ok {
		return false, ErrUnknownRole
	}
	var count int64
	err := r.db.WithContext(ctx).Model(m).Where("id = ?", ref.ID).Count(&count).Error
	return count > 0, err
}

func (r *ActorRepository) superUserName(ctx context.Context, id uint) (string, error) {
	var user model.SuperUser
	err := r.db.WithContext(ctx).Select("username").Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return user.Username, err
}

func (r *ActorRepository) directorName(ctx context.Context, id uint) (string, error) {
	var director model.Director
	err := r.db.WithContext(ctx).Select("full_name").Where("id = ?", id).First(&director).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return director.FullName, err
}

func (r *ActorRepository) staffName(ctx context.Context, id uint) (string, error) {
	var staff model.StaffMember
	err := r.db.WithContext(ctx).Select("full_name").Where("id = ?", id).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return staff.FullName, err
}

// ---- super users ----

func (r *ActorRepository) CreateSuperUser(ctx context.Context, user *model.SuperUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *ActorRepository) FindSuperUserByEmail(ctx context.Context, email string) (*model.SuperUser, error) {
	var user model.SuperUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *ActorRepository) ListSuperUsers(ctx context.Context) ([]model.SuperUser, error) {
	var users []model.SuperUser
	err := r.db.WithContext(ctx).
		Select("id", "username", "email", "created_at").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// ---- directors ----

func (r *ActorRepository) CreateDirector(ctx context.Context, director *model.Director) error {
	return r.db.WithContext(ctx).Create(director).Error
}

func (r *ActorRepository) FindDirectorByEmail(ctx context.Context, email string) (*model.Director, error) {
	var director model.Director
	err := r.db.WithContext(ctx).Preload("Unit").Where("email = ?", email).First(&director).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &director, err
}

func (r *ActorRepository) GetDirectorByID(ctx context.Context, id uint) (*model.Director, error) {
	var director model.Director
	err := r.db.WithContext(ctx).Preload("Unit").Where("id = ?", id).First(&director).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDirectorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &director, nil
}

func (r *ActorRepository) ListDirectors(ctx context.Context) ([]model.Director, error) {
	var directors []model.Director
	err := r.db.WithContext(ctx).Preload("Unit").Order("full_name").Find(&directors).Error
	return directors, err
}

// UpdateDirector writes the given columns; the password column is included
// only when the caller supplies a new hash.
func (r *ActorRepository) UpdateDirector(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Director{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDirectorNotFound
	}
	return nil
}

func (r *ActorRepository) DeleteDirector(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Director{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDirectorNotFound
	}
	return nil
}

// ---- staff ----

func (r *ActorRepository) CreateStaff(ctx context.Context, staff *model.StaffMember) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *ActorRepository) FindStaffByEmail(ctx context.Context, email string) (*model.StaffMember, error) {
	var staff model.StaffMember
	err := r.db.WithContext(ctx).Preload("Unit").Where("email = ?", email).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &staff, err
}

func (r *ActorRepository) GetStaffByID(ctx context.Context, id uint) (*model.StaffMember, error) {
	var staff model.StaffMember
	err := r.db.WithContext(ctx).Preload("Unit").Where("id = ?", id).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *ActorRepository) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	var staff []model.StaffMember
	err := r.db.WithContext(ctx).Preload("Unit").Order("full_name").Find(&staff).Error
	return staff, err
}

func (r *ActorRepository) UpdateStaff(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.StaffMember{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

func (r *ActorRepository) DeleteStaff(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.StaffMember{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// ---- counts for the stats endpoint ----

func (r *ActorRepository) CountSuperUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SuperUser{}).Count(&count).Error
	return count, err
}

func (r *ActorRepository) CountDirectors(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Director{}).Count(&count).Error
	return count, err
}

func (r *ActorRepository) CountStaff(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.StaffMember{}).Count(&count).Error
	return count, err
}
