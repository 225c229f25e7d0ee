package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arturocg96/EduTrackAPI/internal/model"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
	"github.com/arturocg96/EduTrackAPI/internal/storage"
)

const baseURL = "http://localhost:8080"

type courseFixture struct {
	svc      *CourseService
	courses  *repository.CourseRepository
	dir      string
	category model.Category
}

func newCourseFixture(t *testing.T) *courseFixture {
	t.Helper()

	db := testDB(t)
	category := model.Category{Name: "Backend"}
	require.NoError(t, repository.NewCategoryRepository(db).Create(context.Background(), &category))

	dir := filepath.Join(t.TempDir(), "images")
	courses := repository.NewCourseRepository(db)
	images := storage.NewLocalImageStore(dir, "/CoursesImages", 1<<20, zap.NewNop())

	return &courseFixture{
		svc:      NewCourseService(courses, images, zap.NewNop()),
		courses:  courses,
		dir:      dir,
		category: category,
	}
}

func (f *courseFixture) newCourse(name string) *model.Course {
	return &model.Course{
		Name:        name,
		Description: "description",
		Duration:    10,
		CategoryID:  f.category.ID,
	}
}

func png(name string) *ImageUpload {
	return &ImageUpload{Name: name, Content: bytes.NewReader([]byte("\x89PNG fake image"))}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestCourseService_CreateWithoutImage(t *testing.T) {
	f := newCourseFixture(t)
	course := f.newCourse("Go")

	require.NoError(t, f.svc.Create(context.Background(), course, nil, baseURL))

	stored, err := f.courses.GetByID(context.Background(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlaceholderImageRoute, stored.ImageRoute)
	assert.Nil(t, stored.ImageLocalRoute)
	assert.Empty(t, listDir(t, f.dir))
}

func TestCourseService_CreateWithImage(t *testing.T) {
	f := newCourseFixture(t)
	course := f.newCourse("Go")

	require.NoError(t, f.svc.Create(context.Background(), course, png("cover.PNG"), baseURL))

	stored, err := f.courses.GetByID(context.Background(), course.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ImageLocalRoute)

	files := listDir(t, f.dir)
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(files[0], "1-"))
	assert.True(t, strings.HasSuffix(files[0], ".png"))
	assert.Equal(t, baseURL+"/CoursesImages/"+files[0], stored.ImageRoute)
	assert.Equal(t, filepath.Join(f.dir, files[0]), *stored.ImageLocalRoute)
}

func TestCourseService_CreateRejectsImageType(t *testing.T) {
	f := newCourseFixture(t)
	course := f.newCourse("Go")

	err := f.svc.Create(context.Background(), course, png("cover.gif"), baseURL)
	assert.ErrorIs(t, err, storage.ErrInvalidImageType)

	count, err := f.courses.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, listDir(t, f.dir))
}

func TestCourseService_UpdateKeepsImageWhenNoneSent(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	course := f.newCourse("Go")
	require.NoError(t, f.svc.Create(ctx, course, png("cover.png"), baseURL))
	original := course.ImageRoute

	changed := f.newCourse("Go, revised")
	changed.ID = course.ID
	ok, err := f.svc.Update(ctx, changed, nil, baseURL)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := f.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go, revised", stored.Name)
	assert.Equal(t, original, stored.ImageRoute)
	assert.Len(t, listDir(t, f.dir), 1)
}

func TestCourseService_UpdateReplacesImage(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	course := f.newCourse("Go")
	require.NoError(t, f.svc.Create(ctx, course, png("cover.png"), baseURL))
	oldPath := *course.ImageLocalRoute

	changed := f.newCourse("Go")
	changed.ID = course.ID
	ok, err := f.svc.Update(ctx, changed, png("new.jpg"), baseURL)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))

	files := listDir(t, f.dir)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0], ".jpg"))

	stored, err := f.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, baseURL+"/CoursesImages/"+files[0], stored.ImageRoute)
}

func TestCourseService_UpdateMissing(t *testing.T) {
	f := newCourseFixture(t)
	missing := f.newCourse("Ghost")
	missing.ID = 42

	ok, err := f.svc.Update(context.Background(), missing, png("x.png"), baseURL)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, listDir(t, f.dir))
}

// vanishingCourses deletes the row right before updating it, as a
// concurrent DELETE would.
type vanishingCourses struct {
	*repository.CourseRepository
}

func (v vanishingCourses) Update(ctx context.Context, course *model.Course) (bool, error) {
	if _, err := v.CourseRepository.Delete(ctx, &model.Course{ID: course.ID}); err != nil {
		return false, err
	}
	return v.CourseRepository.Update(ctx, course)
}

func TestCourseService_UpdateRowGoneRemovesNewImage(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	course := f.newCourse("Go")
	require.NoError(t, f.svc.Create(ctx, course, png("cover.png"), baseURL))
	before := listDir(t, f.dir)
	require.Len(t, before, 1)

	images := storage.NewLocalImageStore(f.dir, "/CoursesImages", 1<<20, zap.NewNop())
	svc := NewCourseService(vanishingCourses{f.courses}, images, zap.NewNop())

	changed := f.newCourse("Go")
	changed.ID = course.ID
	ok, err := svc.Update(ctx, changed, png("new.png"), baseURL)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, listDir(t, f.dir))
}

func TestCourseService_DeleteRemovesImage(t *testing.T) {
	f := newCourseFixture(t)
	ctx := context.Background()
	course := f.newCourse("Go")
	require.NoError(t, f.svc.Create(ctx, course, png("cover.png"), baseURL))

	stored, err := f.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)

	ok, err := f.svc.Delete(ctx, stored)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, listDir(t, f.dir))

	gone, err := f.courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
