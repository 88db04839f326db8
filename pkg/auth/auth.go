package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/staffeo/camareros-api-go/pkg/config"
	"github.com/staffeo/camareros-api-go/pkg/database"
)

var jwtAlgorithm = jwt.SigningMethodHS256

// Roles recognized by the API.
const (
	RolAdmin       = "admin"
	RolCoordinador = "coordinador"
)

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	Rol      string `json:"rol"`
	jwt.RegisteredClaims
}

// Read lazily so .env loading in main is honored.
func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token carrying the user's role
func CreateToken(username, rol string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		Username: username,
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(jwtSecret())
}

// VerifyToken verifies a JWT token
func VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// EnsureAdminExists checks if any user exists, if not create an admin
// from the configured credentials.
func EnsureAdminExists(db *gorm.DB, cfg config.Config) error {
	var count int64
	db.Model(&database.Usuario{}).Count(&count)

	if count == 0 {
		hash, err := HashPassword(cfg.AdminPassword)
		if err != nil {
			return err
		}

		user := database.Usuario{
			Username:     cfg.AdminUsername,
			PasswordHash: hash,
			Rol:          RolAdmin,
		}

		err = db.Create(&user).Error
		if err == nil {
			println("Default admin user created: " + cfg.AdminUsername)
		}
		return err
	}
	return nil
}
