package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseCategory string

const (
	CategoryManagement CourseCategory = "Gestión"
	CategoryLeadership CourseCategory = "Liderazgo"
	CategoryTechnology CourseCategory = "Tecnología"
	CategoryOther      CourseCategory = "Otros"
)

// CourseCategories lists the accepted values for Course.Category.
var CourseCategories = []CourseCategory{
	CategoryManagement,
	CategoryLeadership,
	CategoryTechnology,
	CategoryOther,
}

func (c CourseCategory) Valid() bool {
	for _, known := range CourseCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Course struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null;uniqueIndex" json:"nombre"`
	Slug        string         `gorm:"size:255;not null;uniqueIndex" json:"slug"` // derived, suffixed on collision
	Description string         `gorm:"type:text;not null" json:"descripcion"`
	Duration    float64        `gorm:"not null" json:"duracion"`
	Category    CourseCategory `gorm:"type:varchar(30);not null;default:'Otros'" json:"categoria"`
	CreatedBy   uuid.UUID      `gorm:"type:uuid;not null;index" json:"-"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`

	// Preloaded with id, name and email only
	Creator User `gorm:"foreignKey:CreatedBy" json:"-"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Category == "" {
		c.Category = CategoryOther
	}
	return nil
}
