package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/arturocg96/EduTrackAPI/internal/model"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
	"github.com/arturocg96/EduTrackAPI/internal/storage"
)

// ImageUpload is an uploaded course image
type ImageUpload struct {
	Name    string
	Content io.Reader
}

// CourseStore is the persistence CourseService needs
type CourseStore interface {
	GetByID(ctx context.Context, id uint) (*model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	CreateWithImage(ctx context.Context, course *model.Course, attach func(id uint) error) error
	Update(ctx context.Context, course *model.Course) (bool, error)
	Delete(ctx context.Context, course *model.Course) (bool, error)
}

var _ CourseStore = (*repository.CourseRepository)(nil)

// CourseService keeps course rows and their image files in step
type CourseService struct {
	courses CourseStore
	images  storage.ImageStore
	log     *zap.Logger
}

// NewCourseService creates a CourseService
func NewCourseService(courses CourseStore, images storage.ImageStore, log *zap.Logger) *CourseService {
	return &CourseService{courses: courses, images: images, log: log}
}

// Create persists course. With an image the file is written under the new
// course id inside the same transaction; without one the placeholder route
// is stored.
func (s *CourseService) Create(ctx context.Context, course *model.Course, img *ImageUpload, baseURL string) error {
	if img == nil {
		course.ImageRoute = model.PlaceholderImageRoute
		course.ImageLocalRoute = nil
		return s.courses.Create(ctx, course)
	}

	if _, err := storage.ValidateImageExtension(img.Name); err != nil {
		return err
	}

	var saved string
	err := s.courses.CreateWithImage(ctx, course, func(id uint) error {
		stored, err := s.images.Save(ctx, id, img.Name, img.Content)
		if err != nil {
			return err
		}
		saved = stored.LocalPath
		s.attach(course, stored, baseURL)
		return nil
	})
	if err != nil && saved != "" {
		s.removeImage(saved)
	}
	return err
}

// Update replaces course. A new image supersedes the stored one, whose file
// is removed once the row is saved; without an image the stored routes are
// kept. The bool is false when no course has that id.
func (s *CourseService) Update(ctx context.Context, course *model.Course, img *ImageUpload, baseURL string) (bool, error) {
	existing, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	var previous *string
	if img != nil {
		if _, err := storage.ValidateImageExtension(img.Name); err != nil {
			return false, err
		}
		stored, err := s.images.Save(ctx, course.ID, img.Name, img.Content)
		if err != nil {
			return false, err
		}
		s.attach(course, stored, baseURL)
		previous = existing.ImageLocalRoute
	} else {
		course.ImageRoute = existing.ImageRoute
		course.ImageLocalRoute = existing.ImageLocalRoute
		if course.ImageRoute == "" {
			course.ImageRoute = model.PlaceholderImageRoute
		}
	}

	ok, err := s.courses.Update(ctx, course)
	if err != nil || !ok {
		// the new file belongs to no row
		if img != nil && course.ImageLocalRoute != nil {
			s.removeImage(*course.ImageLocalRoute)
		}
		return false, err
	}
	if previous != nil && *previous != "" {
		s.removeImage(*previous)
	}
	return ok, nil
}

// Delete removes course and its uploaded image, if any
func (s *CourseService) Delete(ctx context.Context, course *model.Course) (bool, error) {
	ok, err := s.courses.Delete(ctx, course)
	if err != nil || !ok {
		return ok, err
	}
	if course.ImageLocalRoute != nil && *course.ImageLocalRoute != "" {
		s.removeImage(*course.ImageLocalRoute)
	}
	return true, nil
}

func (s *CourseService) attach(course *model.Course, stored storage.StoredImage, baseURL string) {
	local := stored.LocalPath
	course.ImageRoute = s.images.PublicURL(baseURL, stored.FileName)
	course.ImageLocalRoute = &local
}

func (s *CourseService) removeImage(path string) {
	if err := s.images.Delete(path); err != nil {
		s.log.Warn("Failed to remove course image", zap.String("path", path), zap.Error(err))
	}
}
