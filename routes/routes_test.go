package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnkhanh/e-course-backend/config"
	"github.com/vnkhanh/e-course-backend/routes"
	"github.com/vnkhanh/e-course-backend/services"
	"github.com/vnkhanh/e-course-backend/utils"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DB: config.DBConfig{
			Driver:   config.DriverSQLite,
			Path:     filepath.Join(t.TempDir(), "api.db"),
			LogLevel: "silent",
		},
		JWTSecret:   "routes-test-secret",
		JWTTTL:      time.Hour,
		BcryptCost:  bcrypt.MinCost,
		AdminEmails: []string{"admin@example.com"},
	}
	db, err := config.InitDB(cfg.DB)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	require.NoError(t, err)

	return &testServer{t: t, router: routes.SetupRouter(gin.New(), db, cfg, tokens)}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *testServer) registerAndLogin(name, email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"nombre": name, "email": email, "password": "secreto123"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "secreto123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	login := decode[struct {
		Token string `json:"token"`
	}](s.t, w)
	require.NotEmpty(s.t, login.Token)
	return login.Token
}

type courseBody struct {
	ID        string `json:"id"`
	Name      string `json:"nombre"`
	Category  string `json:"categoria"`
	CreatedBy struct {
		Name  string `json:"nombre"`
		Email string `json:"email"`
	} `json:"creadoPor"`
}

type enrollmentBody struct {
	CourseID   string  `json:"curso"`
	Progress   float64 `json:"progreso"`
	Completed  bool    `json:"completado"`
	CourseName string  `json:"cursoNombre"`
}

func TestCompletionFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin("Ana", "ana@example.com")

	w := s.do(http.MethodPost, "/api/auth/cursos", token, gin.H{
		"nombre": "Intro", "descripcion": "Primeros pasos", "duracion": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Course courseBody `json:"curso"`
	}](t, w).Course
	assert.Equal(t, "Intro", created.Name)
	assert.Equal(t, "Otros", created.Category)
	courseID := created.ID

	w = s.do(http.MethodPost, "/api/auth/inscripciones", token, gin.H{"cursoId": courseID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	enrolled := decode[struct {
		Enrollment enrollmentBody `json:"inscripcion"`
	}](t, w).Enrollment
	assert.Equal(t, courseID, enrolled.CourseID)
	assert.Zero(t, enrolled.Progress)
	assert.False(t, enrolled.Completed)

	w = s.do(http.MethodGet, "/api/auth/certificado/"+courseID, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not_completed", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPut, "/api/auth/inscripciones/"+courseID+"/progreso", token, gin.H{"progreso": 100})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct {
		Enrollment enrollmentBody `json:"inscripcion"`
	}](t, w).Enrollment
	assert.Equal(t, 100.0, updated.Progress)
	assert.True(t, updated.Completed)

	w = s.do(http.MethodGet, "/api/auth/certificado/"+courseID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "certificado-Intro.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = s.do(http.MethodPost, "/api/auth/inscripciones", token, gin.H{"cursoId": courseID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already_enrolled", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/auth/inscripciones", "", gin.H{"cursoId": courseID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/auth/cursos", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	courses := decode[[]courseBody](t, w)
	require.Len(t, courses, 1)
	assert.Equal(t, "Ana", courses[0].CreatedBy.Name)
	assert.Equal(t, "ana@example.com", courses[0].CreatedBy.Email)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestEnrollmentListingAndSummary(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin("Ana", "ana@example.com")

	var ids []string
	for _, name := range []string{"Intro", "Liderazgo"} {
		w := s.do(http.MethodPost, "/api/auth/cursos", token, gin.H{
			"nombre": name, "descripcion": "d", "duracion": 2, "categoria": "Liderazgo",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decode[struct {
			Course courseBody `json:"curso"`
		}](t, w).Course.ID)

		w = s.do(http.MethodPost, "/api/auth/inscripciones", token, gin.H{"cursoId": ids[len(ids)-1]})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(http.MethodPut, "/api/auth/inscripciones/"+ids[0]+"/progreso", token, gin.H{"progreso": 100})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodPut, "/api/auth/inscripciones/"+ids[1]+"/progreso", token, gin.H{"progreso": 33.34})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/api/auth/inscripciones/"+ids[1]+"/progreso", token, gin.H{"progreso": 101})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_range", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/auth/inscripciones?estado=completado", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Data  []enrollmentBody `json:"data"`
		Total int              `json:"total"`
	}](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Intro", list.Data[0].CourseName)

	w = s.do(http.MethodGet, "/api/auth/inscripciones?estado=pendiente", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/auth/inscripciones/resumen", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[services.Summary](t, w)
	assert.Equal(t, int64(2), summary.Total)
	assert.Equal(t, int64(1), summary.Completed)
	assert.Equal(t, 66.67, summary.AverageProgress)
}

func TestCourseErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin("Ana", "ana@example.com")

	w := s.do(http.MethodPost, "/api/auth/cursos", token, gin.H{"nombre": "Intro", "descripcion": "d", "duracion": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/auth/cursos", token, gin.H{"nombre": "Intro", "descripcion": "d", "duracion": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "duplicate_name", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/auth/cursos/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/auth/cursos/6f1c2d7a-4d8e-4a51-9f1d-2b3c4d5e6f70", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/auth/inscripciones", token, gin.H{"cursoId": "6f1c2d7a-4d8e-4a51-9f1d-2b3c4d5e6f70"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "course_not_found", decode[errorBody](t, w).Code)
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin("Ana", "ana@example.com")

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"nombre": "Otra", "email": "ana@example.com", "password": "secreto123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "duplicate_email", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "incorrecta"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_credentials", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/auth/protected", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_missing", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/auth/protected", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOrphanReport(t *testing.T) {
	s := newTestServer(t)
	userToken := s.registerAndLogin("Ana", "ana@example.com")
	adminToken := s.registerAndLogin("Root", "admin@example.com")

	w := s.do(http.MethodPost, "/api/auth/cursos", userToken, gin.H{"nombre": "Intro", "descripcion": "d", "duracion": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	courseID := decode[struct {
		Course courseBody `json:"curso"`
	}](t, w).Course.ID

	w = s.do(http.MethodPost, "/api/auth/inscripciones", userToken, gin.H{"cursoId": courseID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodDelete, "/api/auth/cursos/"+courseID, userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/auth/admin/inscripciones/huerfanas", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/auth/admin/inscripciones/huerfanas", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), courseID))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
