package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-course-backend/models"
)

// CourseInput carries the writable course fields. Nil fields are left
// untouched on update; on create Name, Description and Duration are required.
type CourseInput struct {
	Name        *string
	Description *string
	Duration    *float64
	Category    *string
}

// CourseCatalog is CRUD over courses. Any authenticated caller may update or
// delete any course; there is no ownership check.
type CourseCatalog struct {
	db *gorm.DB
}

func NewCourseCatalog(db *gorm.DB) *CourseCatalog {
	return &CourseCatalog{db: db}
}

func GenerateSlug(name string) string {
	return slug.Make(name)
}

func (s *CourseCatalog) Create(ctx context.Context, creatorID uuid.UUID, in CourseInput) (*models.Course, error) {
	course := &models.Course{ID: uuid.New(), CreatedBy: creatorID, Category: models.CategoryOther}
	if in.Name == nil || in.Description == nil || in.Duration == nil {
		return nil, ErrInvalidInput.WithMessage("Nombre, descripción y duración son obligatorios.")
	}
	if err := applyCourseInput(course, in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkNameAvailable(tx, course); err != nil {
			return err
		}
		if err := assignSlug(tx, course); err != nil {
			return err
		}
		return tx.Omit("Creator").Create(course).Error
	})
	if err != nil {
		return nil, translateCourseWrite("create course", err)
	}
	return s.Get(ctx, course.ID)
}

// List returns every course with the creator's nombre and email. Preload
// issues a second query for the creators; it is not a database join.
func (s *CourseCatalog) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := withCreator(s.db.WithContext(ctx)).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, internal("list courses", err)
	}
	return courses, nil
}

func (s *CourseCatalog) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := withCreator(s.db.WithContext(ctx)).First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, internal("get course", err)
	}
	return &course, nil
}

// Exists reports whether a course with id is stored.
func (s *CourseCatalog) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, internal("count course", err)
	}
	return count > 0, nil
}

func (s *CourseCatalog) Update(ctx context.Context, id uuid.UUID, in CourseInput) (*models.Course, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, "id = ?", id).Error; err != nil {
			return err
		}
		oldName := course.Name
		if err := applyCourseInput(&course, in); err != nil {
			return err
		}
		if course.Name != oldName {
			if err := checkNameAvailable(tx, &course); err != nil {
				return err
			}
			if err := assignSlug(tx, &course); err != nil {
				return err
			}
		}
		return tx.Omit("Creator").Save(&course).Error
	})
	if err != nil {
		return nil, translateCourseWrite("update course", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the course and returns it as it was. Enrollments that
// reference it are left untouched.
func (s *CourseCatalog) Delete(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if res.Error != nil {
		return nil, internal("delete course", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrCourseNotFound
	}
	return course, nil
}

func withCreator(db *gorm.DB) *gorm.DB {
	return db.Preload("Creator", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	})
}

// applyCourseInput validates the present fields of in and copies them onto c.
func applyCourseInput(c *models.Course, in CourseInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return ErrInvalidInput.WithMessage("El nombre del curso es obligatorio.")
		}
		c.Name = name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return ErrInvalidInput.WithMessage("La descripción del curso es obligatoria.")
		}
		c.Description = desc
	}
	if in.Duration != nil {
		if *in.Duration <= 0 {
			return ErrInvalidInput.WithMessage("La duración debe ser un número positivo.")
		}
		c.Duration = *in.Duration
	}
	if in.Category != nil {
		cat := models.CourseCategory(strings.TrimSpace(*in.Category))
		if cat == "" {
			cat = models.CategoryOther
		}
		if !cat.Valid() {
			return ErrInvalidInput.WithMessage("Categoría no válida.")
		}
		c.Category = cat
	}
	return nil
}

// checkNameAvailable rejects a name already used by another course. The
// unique index on name remains the guarantee under concurrent writes.
func checkNameAvailable(tx *gorm.DB, c *models.Course) error {
	var count int64
	if err := tx.Model(&models.Course{}).Where("name = ? AND id <> ?", c.Name, c.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateName
	}
	return nil
}

// assignSlug gives c a slug no other course uses. Colliding slugs get a
// numeric suffix (c, c-2, c-3); a name with nothing to slugify falls back to
// one derived from the id.
func assignSlug(tx *gorm.DB, c *models.Course) error {
	base := GenerateSlug(c.Name)
	if base == "" {
		base = "curso-" + strings.SplitN(c.ID.String(), "-", 2)[0]
	}

	candidate := base
	for n := 2; ; n++ {
		var count int64
		if err := tx.Model(&models.Course{}).Where("slug = ? AND id <> ?", candidate, c.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			c.Slug = candidate
			return nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func translateCourseWrite(op string, err error) error {
	var appErr *Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrCourseNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateName.WithDetail(err)
	default:
		return internal(op, err)
	}
}
