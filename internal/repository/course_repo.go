package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/arturocg96/EduTrackAPI/internal/model"
)

// CourseRepository persists courses
type CourseRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCourseRepository creates a CourseRepository over db
func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db, now: time.Now}
}

// List returns every course ordered by name
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// ListPage returns page pageNumber (1-based) of size pageSize in name order.
// A page past the end is empty.
func (r *CourseRepository) ListPage(ctx context.Context, pageNumber, pageSize int) ([]model.Course, error) {
	if pageNumber < 1 || pageSize < 1 {
		return nil, errors.New("pageNumber and pageSize must be positive")
	}

	var courses []model.Course
	err := r.db.WithContext(ctx).
		Order("name").Order("id").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// Count returns the total number of courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).Count(&count).Error
	return count, err
}

// ListByCategory returns the courses of a category with the category loaded
func (r *CourseRepository) ListByCategory(ctx context.Context, categoryID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("name").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// substringMatch builds a case-sensitive "column contains ?" predicate for
// the active dialect. LIKE is case-insensitive on sqlite.
func (r *CourseRepository) substringMatch(column string) string {
	if r.db.Dialector.Name() == "postgres" {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}

// Search returns courses whose name or description contains term.
// The match is case-sensitive; an empty term returns every course.
func (r *CourseRepository) Search(ctx context.Context, term string) ([]model.Course, error) {
	query := r.db.WithContext(ctx).Model(&model.Course{})
	if term != "" {
		query = query.Where(r.substringMatch("name")+" OR "+r.substringMatch("description"), term, term)
	}

	var courses []model.Course
	if err := query.Order("name").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// GetByID returns a course, or nil when it does not exist
func (r *CourseRepository) GetByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByID checks if a course exists by ID
func (r *CourseRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByName compares names ignoring case and surrounding whitespace
func (r *CourseRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).
		Where("LOWER(TRIM(name)) = LOWER(?)", strings.TrimSpace(name)).
		Count(&count).Error
	return count > 0, err
}

// Create stamps CreationDate and inserts the course
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.create(r.db.WithContext(ctx), course)
}

func (r *CourseRepository) create(db *gorm.DB, course *model.Course) error {
	course.CreationDate = r.now()
	if err := db.Omit("Category").Create(course).Error; err != nil {
		return persistErr("create course", err)
	}
	return nil
}

// CreateWithImage inserts course and then calls attach with the new ID inside
// one transaction. attach fills the image fields, which are saved before
// commit; an error from attach rolls the insert back.
func (r *CourseRepository) CreateWithImage(ctx context.Context, course *model.Course, attach func(id uint) error) error {
	return WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := r.create(tx, course); err != nil {
			return err
		}
		if err := attach(course.ID); err != nil {
			return err
		}
		err := tx.Model(course).Select("image_route", "image_local_route").Updates(course).Error
		if err != nil {
			return persistErr("create course", err)
		}
		return nil
	})
}

// Update overwrites every field of the stored course, CreationDate
// included. It returns false when no row with course.ID exists.
func (r *CourseRepository) Update(ctx context.Context, course *model.Course) (bool, error) {
	course.CreationDate = r.now()
	db := r.db.WithContext(ctx)

	existing, err := r.GetByID(ctx, course.ID)
	if err != nil {
		return false, persistErr("update course", err)
	}

	if existing != nil {
		if err := db.Model(existing).Omit("Category").Select("*").Updates(course).Error; err != nil {
			return false, persistErr("update course", err)
		}
		return true, nil
	}

	result := db.Model(&model.Course{}).Where("id = ?", course.ID).
		Select("name", "description", "duration", "image_route", "image_local_route",
			"classification", "creation_date", "category_id").
		Updates(course)
	if result.Error != nil {
		return false, persistErr("update course", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a course previously fetched by the caller
func (r *CourseRepository) Delete(ctx context.Context, course *model.Course) (bool, error) {
	result := r.db.WithContext(ctx).Delete(course)
	if result.Error != nil {
		return false, persistErr("delete course", result.Error)
	}
	return result.RowsAffected > 0, nil
}
