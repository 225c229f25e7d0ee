package model

import "time"

// Category groups courses. Name uniqueness is checked case- and
// whitespace-insensitively before insert.
type Category struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:100;not null"`
	CreationDate time.Time `gorm:"not null"`
}

// CategoryDTO is the public shape of a category, also used as the
// PUT/PATCH body.
type CategoryDTO struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name" binding:"required,notblank,max=100"`
	CreationDate time.Time `json:"creationDate"`
}

// CreateCategoryDTO is the POST body
type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}
