package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/e-course-backend/services"
)

type EnrollInput struct {
	CourseID string `json:"cursoId" binding:"required"`
}

type ProgressInput struct {
	Progress *float64 `json:"progreso" binding:"required"`
}

type EnrollmentController struct {
	ledger *services.EnrollmentLedger
}

func NewEnrollmentController(ledger *services.EnrollmentLedger) *EnrollmentController {
	return &EnrollmentController{ledger: ledger}
}

// Enroll POST /api/auth/inscripciones
func (ec *EnrollmentController) Enroll(c *gin.Context) {
	_, userID, ok := caller(c, "enroll")
	if !ok {
		return
	}

	var input EnrollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "enroll", err)
		return
	}
	courseID, err := uuid.Parse(input.CourseID)
	if err != nil {
		respondError(c, "enroll", services.ErrInvalidInput.WithMessage("ID de curso inválido.").WithDetail(err))
		return
	}

	enrollment, err := ec.ledger.Enroll(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, "enroll", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Inscripción realizada exitosamente.",
		"inscripcion": enrollment,
	})
}

// GetEnrollment GET /api/auth/inscripciones/:cursoId
func (ec *EnrollmentController) GetEnrollment(c *gin.Context) {
	_, userID, ok := caller(c, "get enrollment")
	if !ok {
		return
	}
	courseID, ok := parseID(c, "get enrollment", "cursoId")
	if !ok {
		return
	}

	enrollment, err := ec.ledger.Get(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, "get enrollment", err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// UpdateProgress PUT /api/auth/inscripciones/:cursoId/progreso
func (ec *EnrollmentController) UpdateProgress(c *gin.Context) {
	_, userID, ok := caller(c, "update progress")
	if !ok {
		return
	}
	courseID, ok := parseID(c, "update progress", "cursoId")
	if !ok {
		return
	}

	var input ProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "update progress", err)
		return
	}

	enrollment, err := ec.ledger.UpdateProgress(c.Request.Context(), userID, courseID, *input.Progress)
	if err != nil {
		respondError(c, "update progress", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Progreso actualizado exitosamente.",
		"inscripcion": enrollment,
	})
}

// GetEnrollments GET /api/auth/inscripciones?estado=completado|en-progreso
func (ec *EnrollmentController) GetEnrollments(c *gin.Context) {
	_, userID, ok := caller(c, "list enrollments")
	if !ok {
		return
	}

	filter, err := services.ParseStatusFilter(c.Query("estado"))
	if err != nil {
		respondError(c, "list enrollments", err)
		return
	}

	enrollments, err := ec.ledger.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, "list enrollments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  enrollments,
		"total": len(enrollments),
	})
}

// GetSummary GET /api/auth/inscripciones/resumen
func (ec *EnrollmentController) GetSummary(c *gin.Context) {
	_, userID, ok := caller(c, "summarize enrollments")
	if !ok {
		return
	}

	summary, err := ec.ledger.Summarize(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "summarize enrollments", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetOrphanEnrollments GET /api/auth/admin/inscripciones/huerfanas
func (ec *EnrollmentController) GetOrphanEnrollments(c *gin.Context) {
	orphans, err := ec.ledger.Orphans(c.Request.Context())
	if err != nil {
		respondError(c, "list orphan enrollments", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  orphans,
		"total": len(orphans),
	})
}
