package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-course-backend/config"
	"github.com/vnkhanh/e-course-backend/controllers"
	"github.com/vnkhanh/e-course-backend/middleware"
	"github.com/vnkhanh/e-course-backend/models"
	"github.com/vnkhanh/e-course-backend/services"
	"github.com/vnkhanh/e-course-backend/utils"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, cfg *config.Config, tokens *utils.TokenManager) *gin.Engine {
	identity := services.NewIdentityStore(db, cfg.BcryptCost, cfg.AdminEmails)
	catalog := services.NewCourseCatalog(db)
	ledger := services.NewEnrollmentLedger(db)
	issuer := services.NewCertificateIssuer(ledger, catalog)

	authCtrl := controllers.NewAuthController(identity, tokens)
	courseCtrl := controllers.NewCourseController(catalog)
	enrollCtrl := controllers.NewEnrollmentController(ledger)
	certCtrl := controllers.NewCertificateController(issuer)
	healthCtrl := controllers.NewHealthController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", healthCtrl.HealthCheck)

	requireAuth := middleware.AuthMiddleware(tokens)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
		auth.GET("/protected", requireAuth, authCtrl.Protected)

		// Listing is public, writes need a token
		auth.GET("/cursos", courseCtrl.GetCourses)
		auth.GET("/cursos/:id", courseCtrl.GetCourseDetail)
		auth.POST("/cursos", requireAuth, courseCtrl.CreateCourse)
		auth.PUT("/cursos/:id", requireAuth, courseCtrl.UpdateCourse)
		auth.DELETE("/cursos/:id", requireAuth, courseCtrl.DeleteCourse)
	}

	user := auth.Group("")
	{
		user.Use(requireAuth)

		user.POST("/inscripciones", enrollCtrl.Enroll)
		user.GET("/inscripciones", enrollCtrl.GetEnrollments)
		user.GET("/inscripciones/resumen", enrollCtrl.GetSummary)
		user.GET("/inscripciones/:cursoId", enrollCtrl.GetEnrollment)
		user.PUT("/inscripciones/:cursoId/progreso", enrollCtrl.UpdateProgress)

		user.GET("/certificado/:cursoId", certCtrl.GetCertificate)
	}

	admin := auth.Group("/admin")
	{
		admin.Use(requireAuth, middleware.RequireRoles(string(models.RoleAdmin)))

		admin.GET("/inscripciones/huerfanas", enrollCtrl.GetOrphanEnrollments)
	}

	return r
}
