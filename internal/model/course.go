package model

import (
	"mime/multipart"
	"time"
)

// Classification is the course level
type Classification int

const (
	ClassificationBasic Classification = iota
	ClassificationAdvanced
	ClassificationMaster
)

func (c Classification) String() string {
	switch c {
	case ClassificationBasic:
		return "Basic"
	case ClassificationAdvanced:
		return "Advanced"
	case ClassificationMaster:
		return "Master"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the declared levels.
func (c Classification) Valid() bool {
	switch c {
	case ClassificationBasic, ClassificationAdvanced, ClassificationMaster:
		return true
	default:
		return false
	}
}

// PlaceholderImageRoute is served for courses without an uploaded image.
const PlaceholderImageRoute = "https://placehold.co/600x400"

// Course belongs to exactly one Category.
type Course struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Description     string `gorm:"not null"`
	Duration        int
	ImageRoute      string
	ImageLocalRoute *string
	Classification  Classification
	CreationDate    time.Time `gorm:"not null"`
	CategoryID      uint      `gorm:"not null;index"`
	Category        *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// CourseDTO is the public shape of a course
type CourseDTO struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Duration       int            `json:"duration"`
	ImageRoute     string         `json:"imageRoute"`
	Classification Classification `json:"classification"`
	CreationDate   time.Time      `json:"creationDate"`
	CategoryID     uint           `json:"categoryId"`
	Category       *CategoryDTO   `json:"category,omitempty"`
}

// CreateCourseDTO is the multipart body of a course POST
type CreateCourseDTO struct {
	Name           string                `form:"name" binding:"required,notblank"`
	Description    string                `form:"description" binding:"required,notblank"`
	Duration       int                   `form:"duration" binding:"gte=0"`
	Classification Classification        `form:"classification" binding:"gte=0,lte=2"`
	CategoryID     uint                  `form:"categoryId" binding:"required"`
	Image          *multipart.FileHeader `form:"image"`
}

// UpdateCourseDTO is the multipart body of a course PATCH
type UpdateCourseDTO struct {
	ID             uint                  `form:"id" binding:"required"`
	Name           string                `form:"name" binding:"required,notblank"`
	Description    string                `form:"description" binding:"required,notblank"`
	Duration       int                   `form:"duration" binding:"gte=0"`
	Classification Classification        `form:"classification" binding:"gte=0,lte=2"`
	CategoryID     uint                  `form:"categoryId" binding:"required"`
	Image          *multipart.FileHeader `form:"image"`
}

// PageQuery carries pagination parameters
type PageQuery struct {
	PageNumber int `form:"pageNumber" binding:"omitempty,gte=1"`
	PageSize   int `form:"pageSize" binding:"omitempty,gte=1,lte=100"`
}

// Page is a paginated list response
type Page[T any] struct {
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
	Items      []T   `json:"items"`
}

// NewPage computes TotalPages from total and size.
func NewPage[T any](items []T, pageNumber, pageSize int, total int64) Page[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
		Items:      items,
	}
}
