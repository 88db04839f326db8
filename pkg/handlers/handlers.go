package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffeo/camareros-api-go/pkg/auth"
	"github.com/staffeo/camareros-api-go/pkg/database"
	"github.com/staffeo/camareros-api-go/pkg/suggest"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB        *gorm.DB
	Logger    *zap.Logger
	Suggester *suggest.Service

	validate *validator.Validate
}

// NewHandler wires a handler with its validator.
func NewHandler(db *gorm.DB, logger *zap.Logger, suggester *suggest.Service) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		DB:        db,
		Logger:    logger,
		Suggester: suggester,
		validate:  validator.New(),
	}
}

// AuthMiddleware verifies the JWT token and stores the caller identity
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Set("rol", claims.Rol)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set
func (h *Handler) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		rol := c.GetString("rol")
		if !allowed[rol] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Login authenticates a user and issues a role-bearing JWT
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user database.Usuario
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.CreateToken(user.Username, user.Rol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer", "rol": user.Rol})
}

// CreateUsuario creates a coordinator (or admin) account
func (h *Handler) CreateUsuario(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Rol      string `json:"rol"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Rol == "" {
		req.Rol = auth.RolCoordinador
	}
	if req.Rol != auth.RolAdmin && req.Rol != auth.RolCoordinador {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rol must be admin or coordinador"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	user := database.Usuario{Username: req.Username, PasswordHash: hash, Rol: req.Rol}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username, "rol": user.Rol})
}

// RecordUsage bumps the caller's daily counters with a single upsert
func (h *Handler) RecordUsage(c *gin.Context, sugerencias, candidatos, asignaciones int) {
	username := c.GetString("username")
	if username == "" {
		return
	}

	today := time.Now().Format("2006-01-02")

	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "username"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"sugerencias":          gorm.Expr("sugerencias + ?", sugerencias),
			"candidatos_evaluados": gorm.Expr("candidatos_evaluados + ?", candidatos),
			"asignaciones":         gorm.Expr("asignaciones + ?", asignaciones),
		}),
	}).Create(&database.UsoDiario{
		Username:            username,
		Date:                today,
		Sugerencias:         sugerencias,
		CandidatosEvaluados: candidatos,
		Asignaciones:        asignaciones,
	})
}

// GetMyUsage returns the authenticated caller's usage history
func (h *Handler) GetMyUsage(c *gin.Context) {
	username := c.GetString("username")
	h.usageFor(c, username)
}

// GetUserUsage returns usage stats for any user (admin only)
func (h *Handler) GetUserUsage(c *gin.Context) {
	h.usageFor(c, c.Param("username"))
}

func (h *Handler) usageFor(c *gin.Context, username string) {
	var usage []database.UsoDiario
	if err := h.DB.Where("username = ?", username).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	var totalSugerencias, totalCandidatos, totalAsignaciones int64
	for _, u := range usage {
		totalSugerencias += int64(u.Sugerencias)
		totalCandidatos += int64(u.CandidatosEvaluados)
		totalAsignaciones += int64(u.Asignaciones)
	}

	c.JSON(http.StatusOK, gin.H{
		"username":      username,
		"usage_history": usage,
		"totals": gin.H{
			"sugerencias":          totalSugerencias,
			"candidatos_evaluados": totalCandidatos,
			"asignaciones":         totalAsignaciones,
		},
	})
}
