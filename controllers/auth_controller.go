package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/e-course-backend/middleware"
	"github.com/vnkhanh/e-course-backend/services"
	"github.com/vnkhanh/e-course-backend/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Name     string `json:"nombre" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	identity *services.IdentityStore
	tokens   *utils.TokenManager
}

func NewAuthController(identity *services.IdentityStore, tokens *utils.TokenManager) *AuthController {
	return &AuthController{identity: identity, tokens: tokens}
}

// ====== HANDLERS ======

// Register POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "register", err)
		return
	}

	if _, err := ac.identity.Register(c.Request.Context(), input.Name, input.Email, input.Password); err != nil {
		respondError(c, "register", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Usuario registrado exitosamente."})
}

// Login POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, "login", err)
		return
	}

	user, err := ac.identity.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, "login", err)
		return
	}

	token, err := ac.tokens.GenerateToken(utils.Identity{
		UserID: user.ID.String(),
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		respondError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userJSON(user),
	})
}

// Protected GET /api/auth/protected
func (ac *AuthController) Protected(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, "protected", services.ErrTokenMissing)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Ruta protegida accedida correctamente",
		"user":    identity,
	})
}
