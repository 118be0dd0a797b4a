package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/e-course-backend/models"
)

const minPasswordLength = 6

// IdentityStore owns user records and password verification.
type IdentityStore struct {
	db          *gorm.DB
	bcryptCost  int
	adminEmails map[string]bool
}

func NewIdentityStore(db *gorm.DB, bcryptCost int, adminEmails []string) *IdentityStore {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = true
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &IdentityStore{db: db, bcryptCost: bcryptCost, adminEmails: admins}
}

// Register creates a user with a bcrypt hash of password.
func (s *IdentityStore) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrInvalidInput.WithMessage("Nombre, email y contraseña son obligatorios.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidInput.WithMessage("El correo electrónico no es válido.")
	}
	if len(password) < minPasswordLength {
		return nil, ErrInvalidInput.WithMessage("La contraseña debe tener al menos 6 caracteres.")
	}

	// The unique index still catches a concurrent insert.
	if _, err := s.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, internal("hash password", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if s.adminEmails[email] {
		user.Role = models.RoleAdmin
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail.WithDetail(err)
		}
		return nil, internal("create user", err)
	}
	return user, nil
}

func (s *IdentityStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internal("find user by email", err)
	}
	return &user, nil
}

func (s *IdentityStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internal("find user by id", err)
	}
	return &user, nil
}

// VerifyCredential reports whether plaintext matches the user's stored hash.
func (s *IdentityStore) VerifyCredential(user *models.User, plaintext string) bool {
	if user == nil || user.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plaintext)) == nil
}

// Authenticate looks the user up by email and checks the password. Unknown
// email and wrong password fail the same way.
func (s *IdentityStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.VerifyCredential(user, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
