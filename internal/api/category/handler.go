package category

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arturocg96/EduTrackAPI/internal/api/response"
	"github.com/arturocg96/EduTrackAPI/internal/model"
	"github.com/arturocg96/EduTrackAPI/internal/repository"
)

// Handler serves the category endpoints
type Handler struct {
	categories *repository.CategoryRepository
	log        *zap.Logger
}

// NewHandler creates a category Handler
func NewHandler(categories *repository.CategoryRepository, log *zap.Logger) *Handler {
	return &Handler{categories: categories, log: log}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("categoryId"), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid category ID")
		return 0, false
	}
	return uint(id), true
}

// List returns all categories
func (h *Handler) List(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		response.Internal(c, h.log, "Failed to list categories", err)
		return
	}

	c.JSON(http.StatusOK, model.ToCategoryDTOs(categories))
}

// Get returns a single category
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, h.log, "Failed to get category", err)
		return
	}
	if category == nil {
		response.NotFound(c, "Category not found")
		return
	}

	c.JSON(http.StatusOK, model.ToCategoryDTO(category))
}

// Create adds a category; names are unique ignoring case and outer whitespace
func (h *Handler) Create(c *gin.Context) {
	var req model.CreateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	ctx := c.Request.Context()
	exists, err := h.categories.ExistsByName(ctx, req.Name)
	if err != nil {
		response.Internal(c, h.log, "Failed to create category", err)
		return
	}
	if exists {
		response.BadRequest(c, "Category already exists", "A category named '"+req.Name+"' already exists")
		return
	}

	category := model.CategoryFromCreateDTO(req)
	if err := h.categories.Create(ctx, category); err != nil {
		response.Internal(c, h.log, "Failed to create category", err)
		return
	}

	h.log.Info("Category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	c.Header("Location", fmt.Sprintf("%s/%d", c.Request.URL.Path, category.ID))
	c.JSON(http.StatusCreated, model.ToCategoryDTO(category))
}

// Update replaces a category. The body id must match the path id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.CategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	if req.ID != id {
		response.BadRequest(c, "Category ID mismatch")
		return
	}

	category := model.CategoryFromDTO(req)
	updated, err := h.categories.Update(c.Request.Context(), category)
	if err != nil {
		response.Internal(c, h.log, "Failed to update category", err)
		return
	}
	if !updated {
		response.NotFound(c, "Category not found")
		return
	}

	c.JSON(http.StatusOK, model.ToCategoryDTO(category))
}

// Delete removes a category and, through the foreign key, its courses
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	category, err := h.categories.GetByID(ctx, id)
	if err != nil {
		response.Internal(c, h.log, "Failed to delete category", err)
		return
	}
	if category == nil {
		response.NotFound(c, "Category not found")
		return
	}

	if _, err := h.categories.Delete(ctx, category); err != nil {
		response.Internal(c, h.log, "Failed to delete category", err)
		return
	}

	h.log.Info("Category deleted", zap.Uint("category_id", id))
	c.JSON(http.StatusOK, model.ToCategoryDTO(category))
}
