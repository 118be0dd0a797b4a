package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxProgress = 100

// Enrollment joins one user to one course. Both references are weak:
// no foreign-key constraint is declared, so deleting a course leaves its
// enrollments in place.
type Enrollment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"usuario"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_course;index" json:"curso"`

	Progress  float64   `gorm:"not null;default:0" json:"progreso"`
	Completed bool      `gorm:"not null;default:false" json:"completado"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps Completed derived from Progress.
func (e *Enrollment) BeforeSave(tx *gorm.DB) error {
	e.Completed = IsComplete(e.Progress)
	return nil
}

func IsComplete(progress float64) bool {
	return progress == MaxProgress
}
