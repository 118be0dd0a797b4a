package controllers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/e-course-backend/middleware"
	"github.com/vnkhanh/e-course-backend/models"
	"github.com/vnkhanh/e-course-backend/services"
	"github.com/vnkhanh/e-course-backend/utils"
)

// respondError logs the full failure and sends only the client message.
func respondError(c *gin.Context, op string, err error) {
	appErr := services.AsError(err)
	status := appErr.Kind.HTTPStatus()

	attrs := []any{"op", op, "kind", appErr.Kind, "code", appErr.Code, "status", status, "error", err}
	if status >= 500 {
		slog.Error("request failed", attrs...)
	} else {
		slog.Warn("request rejected", attrs...)
	}

	c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
}

func bindError(c *gin.Context, op string, err error) {
	respondError(c, op, services.ErrInvalidInput.WithDetail(err))
}

// parseID reads a uuid path parameter; a malformed value is a validation failure.
func parseID(c *gin.Context, op, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		respondError(c, op, services.ErrInvalidInput.WithMessage("ID inválido.").WithDetail(err))
		return uuid.Nil, false
	}
	return id, true
}

// caller returns the authenticated identity and its parsed user id.
func caller(c *gin.Context, op string) (*utils.Identity, uuid.UUID, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, op, services.ErrTokenMissing)
		return nil, uuid.Nil, false
	}
	userID, err := uuid.Parse(identity.UserID)
	if err != nil {
		respondError(c, op, services.ErrTokenInvalid.WithDetail(err))
		return nil, uuid.Nil, false
	}
	return identity, userID, true
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":     u.ID,
		"nombre": u.Name,
		"email":  u.Email,
		"rol":    u.Role,
	}
}

// courseJSON projects the creator as nombre + email instead of its id.
func courseJSON(course *models.Course) gin.H {
	return gin.H{
		"id":          course.ID,
		"nombre":      course.Name,
		"slug":        course.Slug,
		"descripcion": course.Description,
		"duracion":    course.Duration,
		"categoria":   course.Category,
		"creadoPor": gin.H{
			"nombre": course.Creator.Name,
			"email":  course.Creator.Email,
		},
		"createdAt": course.CreatedAt,
		"updatedAt": course.UpdatedAt,
	}
}
