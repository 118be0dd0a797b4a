package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-course-backend/models"
)

type StatusFilter string

const (
	StatusAll        StatusFilter = ""
	StatusCompleted  StatusFilter = "completado"
	StatusInProgress StatusFilter = "en-progreso"
)

// ParseStatusFilter accepts the Spanish query values and their English forms.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "todos", "all":
		return StatusAll, nil
	case "completado", "completados", "completed":
		return StatusCompleted, nil
	case "en-progreso", "en_progreso", "in-progress", "in_progress":
		return StatusInProgress, nil
	default:
		return "", ErrInvalidInput.WithMessage("Estado no válido. Usa 'completado' o 'en-progreso'.")
	}
}

// EnrollmentView is an enrollment with the course name looked up separately.
// CourseName is empty when the course has been deleted.
type EnrollmentView struct {
	models.Enrollment
	CourseName string `json:"cursoNombre"`
}

type Summary struct {
	Total           int64   `json:"totalCursos"`
	Completed       int64   `json:"cursosCompletados"`
	AverageProgress float64 `json:"progresoPromedio"`
}

// EnrollmentLedger is the single source of truth for enrollment progress.
type EnrollmentLedger struct {
	db      *gorm.DB
	courses *CourseCatalog
}

func NewEnrollmentLedger(db *gorm.DB) *EnrollmentLedger {
	return &EnrollmentLedger{db: db, courses: NewCourseCatalog(db)}
}

// Enroll creates the (user, course) record with zero progress. Uniqueness is
// enforced by the idx_user_course index, so concurrent calls yield exactly
// one record and ErrAlreadyEnrolled for the rest.
func (s *EnrollmentLedger) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	ok, err := s.courses.Exists(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCourseNotFound
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Progress: 0,
	}
	if err := s.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled.WithDetail(err)
		}
		return nil, internal("create enrollment", err)
	}
	return enrollment, nil
}

// Get returns the unique enrollment for (userID, courseID).
func (s *EnrollmentLedger) Get(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, internal("get enrollment", err)
	}
	return &enrollment, nil
}

// UpdateProgress sets progress as asserted by the caller. Decreases are
// allowed; Completed is recomputed by the model hook on save.
func (s *EnrollmentLedger) UpdateProgress(ctx context.Context, userID, courseID uuid.UUID, progress float64) (*models.Enrollment, error) {
	if math.IsNaN(progress) || progress < 0 || progress > models.MaxProgress {
		return nil, ErrInvalidRange
	}

	enrollment, err := s.Get(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	enrollment.Progress = progress
	if err := s.db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return nil, internal("save progress", err)
	}
	return enrollment, nil
}

// ListByUser returns the user's enrollments in store order, each with its
// course name. Courses are fetched in a second query.
func (s *EnrollmentLedger) ListByUser(ctx context.Context, userID uuid.UUID, filter StatusFilter) ([]EnrollmentView, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	switch filter {
	case StatusCompleted:
		query = query.Where("completed = ?", true)
	case StatusInProgress:
		query = query.Where("completed = ?", false)
	}

	var enrollments []models.Enrollment
	if err := query.Find(&enrollments).Error; err != nil {
		return nil, internal("list enrollments", err)
	}

	names, err := s.courseNames(ctx, enrollments)
	if err != nil {
		return nil, err
	}

	views := make([]EnrollmentView, len(enrollments))
	for i, e := range enrollments {
		views[i] = EnrollmentView{Enrollment: e, CourseName: names[e.CourseID]}
	}
	return views, nil
}

// Summarize aggregates the user's enrollments. The average is rounded to two
// decimals and is 0 when there are none.
func (s *EnrollmentLedger) Summarize(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	var row struct {
		Total     int64
		Completed int64
		Average   float64
	}
	err := s.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed, "+
			"COALESCE(AVG(progress), 0) AS average").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, internal("summarize enrollments", err)
	}

	return &Summary{
		Total:           row.Total,
		Completed:       row.Completed,
		AverageProgress: round2(row.Average),
	}, nil
}

// Orphans lists enrollments whose course no longer exists. Nothing is
// repaired; course deletion does not cascade.
func (s *EnrollmentLedger) Orphans(ctx context.Context) ([]models.Enrollment, error) {
	var orphans []models.Enrollment
	err := s.db.WithContext(ctx).
		Where("course_id NOT IN (?)", s.db.Model(&models.Course{}).Select("id")).
		Find(&orphans).Error
	if err != nil {
		return nil, internal("list orphan enrollments", err)
	}
	return orphans, nil
}

func (s *EnrollmentLedger) courseNames(ctx context.Context, enrollments []models.Enrollment) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(enrollments))
	if len(enrollments) == 0 {
		return names, nil
	}

	ids := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}

	var courses []models.Course
	if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, internal("load course names", err)
	}
	for _, c := range courses {
		names[c.ID] = c.Name
	}
	return names, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
