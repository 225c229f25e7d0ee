package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arturocg96/EduTrackAPI/internal/model"
)

// UserRepository persists users and their role memberships
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository over db
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns all users ordered by username, with roles loaded
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Preload("Roles").Order("username").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID returns a user by ID, or nil when it does not exist
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, nil
	}
	return r.first(ctx, "id = ?", id)
}

// GetByUsername returns a user by case-insensitive username, or nil
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, "normalized_username = ?", model.NormalizeUsername(username))
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Roles").Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IsUniqueUser reports whether no user has username, ignoring case.
// An empty username is never unique.
func (r *UserRepository) IsUniqueUser(ctx context.Context, username string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("normalized_username = ?", model.NormalizeUsername(username)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Create inserts user, assigning an ID and the normalized username
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.NormalizedUsername = model.NormalizeUsername(user.Username)

	if err := r.db.WithContext(ctx).Omit("Roles").Create(user).Error; err != nil {
		return persistErr("create user", err)
	}
	return nil
}

// EnsureRoles creates any of roles that does not exist yet
func (r *UserRepository) EnsureRoles(ctx context.Context, roles ...model.Role) error {
	for _, role := range roles {
		record := model.RoleRecord{Name: string(role)}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
			Create(&record).Error
		if err != nil {
			return persistErr("ensure role "+string(role), err)
		}
	}
	return nil
}

// AddToRole adds user to an existing role
func (r *UserRepository) AddToRole(ctx context.Context, user *model.User, role model.Role) error {
	var record model.RoleRecord
	db := r.db.WithContext(ctx)
	if err := db.Where("name = ?", string(role)).First(&record).Error; err != nil {
		return persistErr("find role "+string(role), err)
	}
	if err := db.Model(user).Association("Roles").Append(&record); err != nil {
		return persistErr("add user to role", err)
	}
	return nil
}

// GetRoles returns the role names of a user
func (r *UserRepository) GetRoles(ctx context.Context, user *model.User) ([]string, error) {
	var records []model.RoleRecord
	if err := r.db.WithContext(ctx).Model(user).Association("Roles").Find(&records); err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(records))
	for _, rec := range records {
		roles = append(roles, rec.Name)
	}
	return roles, nil
}
