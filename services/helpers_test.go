package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-course-backend/config"
	"github.com/vnkhanh/e-course-backend/models"
	"github.com/vnkhanh/e-course-backend/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitDB(config.DBConfig{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newIdentityStore(db *gorm.DB, admins ...string) *services.IdentityStore {
	return services.NewIdentityStore(db, bcrypt.MinCost, admins)
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user, err := newIdentityStore(db).Register(context.Background(), name, email, "password123")
	require.NoError(t, err)
	return user
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func courseInput(name string) services.CourseInput {
	return services.CourseInput{
		Name:        strPtr(name),
		Description: strPtr("Curso de prueba"),
		Duration:    floatPtr(10),
	}
}

func createCourse(t *testing.T, db *gorm.DB, creator *models.User, name string) *models.Course {
	t.Helper()
	course, err := services.NewCourseCatalog(db).Create(context.Background(), creator.ID, courseInput(name))
	require.NoError(t, err)
	return course
}
