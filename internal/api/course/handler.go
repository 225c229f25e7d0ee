package course

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arturocg96/EduTrackAPI/internal/api/response"
	"github.com/arturocg96/EduTrackAPI/internal/model"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
	"github.com/arturocg96/EduTrackAPI/internal/service"
	"github.com/arturocg96/EduTrackAPI/internal/storage"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
)

// Handler serves the course endpoints
type Handler struct {
	courses    *repository.CourseRepository
	categories *repository.CategoryRepository
	svc        *service.CourseService
	log        *zap.Logger
}

// NewHandler creates a course Handler
func NewHandler(courses *repository.CourseRepository, categories *repository.CategoryRepository,
	svc *service.CourseService, log *zap.Logger) *Handler {
	return &Handler{courses: courses, categories: categories, svc: svc, log: log}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

// baseURL is scheme and host of the incoming request
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

// List returns courses. Unless alwaysPaged is set, the full list is returned
// when neither pageNumber nor pageSize is supplied.
func (h *Handler) List(alwaysPaged bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q model.PageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			response.Invalid(c, err)
			return
		}

		ctx := c.Request.Context()
		if !alwaysPaged && q.PageNumber == 0 && q.PageSize == 0 {
			courses, err := h.courses.List(ctx)
			if err != nil {
				response.Internal(c, h.log, "Failed to list courses", err)
				return
			}
			c.JSON(http.StatusOK, model.ToCourseDTOs(courses))
			return
		}

		if q.PageNumber == 0 {
			q.PageNumber = defaultPageNumber
		}
		if q.PageSize == 0 {
			q.PageSize = defaultPageSize
		}

		total, err := h.courses.Count(ctx)
		if err != nil {
			response.Internal(c, h.log, "Failed to list courses", err)
			return
		}
		courses, err := h.courses.ListPage(ctx, q.PageNumber, q.PageSize)
		if err != nil {
			response.Internal(c, h.log, "Failed to list courses", err)
			return
		}

		c.JSON(http.StatusOK, model.NewPage(model.ToCourseDTOs(courses), q.PageNumber, q.PageSize, total))
	}
}

// Get returns a single course
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c, "courseId")
	if !ok {
		return
	}

	course, err := h.courses.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, h.log, "Failed to get course", err)
		return
	}
	if course == nil {
		response.NotFound(c, "Course not found")
		return
	}

	c.JSON(http.StatusOK, model.ToCourseDTO(course))
}

// ListByCategory returns the courses of a category with the category embedded
func (h *Handler) ListByCategory(c *gin.Context) {
	id, ok := parseID(c, "categoryId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	exists, err := h.categories.ExistsByID(ctx, id)
	if err != nil {
		response.Internal(c, h.log, "Failed to list courses", err)
		return
	}
	if !exists {
		response.NotFound(c, "Category not found")
		return
	}

	courses, err := h.courses.ListByCategory(ctx, id)
	if err != nil {
		response.Internal(c, h.log, "Failed to list courses", err)
		return
	}

	c.JSON(http.StatusOK, model.ToCourseDTOs(courses))
}

// Search matches name against course names and descriptions
func (h *Handler) Search(c *gin.Context) {
	courses, err := h.courses.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Internal(c, h.log, "Failed to search courses", err)
		return
	}
	if len(courses) == 0 {
		response.NotFound(c, "No courses match the search")
		return
	}

	c.JSON(http.StatusOK, model.ToCourseDTOs(courses))
}

// Create adds a course from a multipart form with an optional image
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateCourseDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	ctx := c.Request.Context()
	exists, err := h.courses.ExistsByName(ctx, req.Name)
	if err != nil {
		response.Internal(c, h.log, "Failed to create course", err)
		return
	}
	if exists {
		response.BadRequest(c, "Course already exists", "A course named '"+req.Name+"' already exists")
		return
	}
	if !h.categoryExists(c, req.CategoryID) {
		return
	}

	img, closeImg, err := openImage(req.Image)
	if err != nil {
		response.BadRequest(c, "Invalid image", err.Error())
		return
	}
	defer closeImg()

	course := model.CourseFromCreateDTO(req)
	if err := h.svc.Create(ctx, course, img, baseURL(c)); err != nil {
		h.writeSaveError(c, "Failed to create course", err)
		return
	}

	h.log.Info("Course created", zap.Uint("course_id", course.ID), zap.String("name", course.Name))
	c.Header("Location", fmt.Sprintf("%s/%d", c.Request.URL.Path, course.ID))
	c.JSON(http.StatusCreated, model.ToCourseDTO(course))
}

// Update replaces a course from a multipart form. The form id must match
// the path id; without an image the stored one is kept.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "courseId")
	if !ok {
		return
	}

	var req model.UpdateCourseDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	if req.ID != id {
		response.BadRequest(c, "Course ID mismatch")
		return
	}
	if !h.categoryExists(c, req.CategoryID) {
		return
	}

	img, closeImg, err := openImage(req.Image)
	if err != nil {
		response.BadRequest(c, "Invalid image", err.Error())
		return
	}
	defer closeImg()

	updated, err := h.svc.Update(c.Request.Context(), model.CourseFromUpdateDTO(req), img, baseURL(c))
	if err != nil {
		h.writeSaveError(c, "Failed to update course", err)
		return
	}
	if !updated {
		response.NotFound(c, "Course not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a course and its stored image, answering with the deleted course
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "courseId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	course, err := h.courses.GetByID(ctx, id)
	if err != nil {
		response.Internal(c, h.log, "Failed to delete course", err)
		return
	}
	if course == nil {
		response.NotFound(c, "Course not found")
		return
	}

	if _, err := h.svc.Delete(ctx, course); err != nil {
		response.Internal(c, h.log, "Failed to delete course", err)
		return
	}

	h.log.Info("Course deleted", zap.Uint("course_id", id))
	c.JSON(http.StatusOK, model.ToCourseDTO(course))
}

func (h *Handler) categoryExists(c *gin.Context, id uint) bool {
	exists, err := h.categories.ExistsByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, h.log, "Failed to check category", err)
		return false
	}
	if !exists {
		response.NotFound(c, "Category not found")
		return false
	}
	return true
}

func (h *Handler) writeSaveError(c *gin.Context, detail string, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidImageType), errors.Is(err, storage.ErrImageTooLarge):
		response.BadRequest(c, "Invalid image", err.Error())
	default:
		response.Internal(c, h.log, detail, err)
	}
}
