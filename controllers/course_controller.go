package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/e-course-backend/services"
)

type CourseInput struct {
	Name        *string  `json:"nombre"`
	Description *string  `json:"descripcion"`
	Duration    *float64 `json:"duracion"`
	Category    *string  `json:"categoria"`
}

func (in CourseInput) toService() services.CourseInput {
	return services.CourseInput{
		Name:        in.Name,
		Description: in.Description,
		Duration:    in.Duration,
		Category:    in.Category,
	}
}

type CourseController struct {
	catalog *services.CourseCatalog
}

func NewCourseController(catalog *services.CourseCatalog) *CourseController {
	return &CourseController{catalog: catalog}
}

// GetCourses GET /api/auth/cursos
func (cc *CourseController) GetCourses(c *gin.Context) {
	courses, err := cc.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, "list courses", err)
		return
	}

	data := make([]gin.H, len(courses))
	for i := range courses {
		data[i] = courseJSON(&courses[i])
	}
	c.JSON(http.StatusOK, data)
}

// GetCourseDetail GET /api/auth/cursos/:id
func (cc *CourseController) GetCourseDetail(c *gin.Context) {
	id, ok := parseID(c, "get course", "id")
	if !ok {
		return
	}

	course, err := cc.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "get course", err)
		return
	}
	c.JSON(http.StatusOK, courseJSON(course))
}

// CreateCourse POST /api/auth/cursos
func (cc *CourseController) CreateCourse(c *gin.Context) {
	_, userID, ok := caller(c, "create course")
	if !ok {
		return
	}

	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "create course", err)
		return
	}

	course, err := cc.catalog.Create(c.Request.Context(), userID, input.toService())
	if err != nil {
		respondError(c, "create course", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Curso creado exitosamente.",
		"curso":   courseJSON(course),
	})
}

// UpdateCourse PUT /api/auth/cursos/:id
func (cc *CourseController) UpdateCourse(c *gin.Context) {
	id, ok := parseID(c, "update course", "id")
	if !ok {
		return
	}

	var input CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "update course", err)
		return
	}

	course, err := cc.catalog.Update(c.Request.Context(), id, input.toService())
	if err != nil {
		respondError(c, "update course", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Curso actualizado exitosamente.",
		"curso":   courseJSON(course),
	})
}

// DeleteCourse DELETE /api/auth/cursos/:id
func (cc *CourseController) DeleteCourse(c *gin.Context) {
	id, ok := parseID(c, "delete course", "id")
	if !ok {
		return
	}

	course, err := cc.catalog.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, "delete course", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Curso eliminado exitosamente.",
		"curso":   courseJSON(course),
	})
}
