package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/arturocg96/EduTrackAPI/internal/model"
)

// CategoryRepository persists categories
type CategoryRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCategoryRepository creates a CategoryRepository over db
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db, now: time.Now}
}

// List returns all categories ordered by name
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID returns a category, or nil when it does not exist
func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ExistsByID checks if a category exists by ID
func (r *CategoryRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByName compares names ignoring case and surrounding whitespace
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("LOWER(TRIM(name)) = LOWER(?)", strings.TrimSpace(name)).
		Count(&count).Error
	return count > 0, err
}

// Create stamps CreationDate and inserts the category
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	category.CreationDate = r.now()
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return persistErr("create category", err)
	}
	return nil
}

// Update overwrites every field of the stored category, CreationDate
// included. It returns false when no row with category.ID exists.
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) (bool, error) {
	category.CreationDate = r.now()
	db := r.db.WithContext(ctx)

	existing, err := r.GetByID(ctx, category.ID)
	if err != nil {
		return false, persistErr("update category", err)
	}

	if existing != nil {
		if err := db.Model(existing).Select("*").Updates(category).Error; err != nil {
			return false, persistErr("update category", err)
		}
		return true, nil
	}

	result := db.Model(&model.Category{}).Where("id = ?", category.ID).
		Select("name", "creation_date").Updates(category)
	if result.Error != nil {
		return false, persistErr("update category", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a category previously fetched by the caller
func (r *CategoryRepository) Delete(ctx context.Context, category *model.Category) (bool, error) {
	result := r.db.WithContext(ctx).Delete(category)
	if result.Error != nil {
		return false, persistErr("delete category", result.Error)
	}
	return result.RowsAffected > 0, nil
}
