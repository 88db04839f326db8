package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/staffeo/camareros-api-go/pkg/config"
	"github.com/staffeo/camareros-api-go/pkg/models"
)

// Usuario represents the usuarios table (JWT principals)
type Usuario struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Rol          string    `gorm:"not null;default:coordinador" json:"rol"` // admin | coordinador
	CreatedAt    time.Time `json:"created_at"`
}

// UsoDiario represents per-user per-day usage counters
type UsoDiario struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	Username            string `gorm:"uniqueIndex:idx_user_date;not null" json:"username"`
	Date                string `gorm:"uniqueIndex:idx_user_date;not null" json:"date"`
	Sugerencias         int    `gorm:"default:0" json:"sugerencias"`
	CandidatosEvaluados int    `gorm:"default:0" json:"candidatos_evaluados"`
	Asignaciones        int    `gorm:"default:0" json:"asignaciones"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB(cfg config.Config) *gorm.DB {
	var db *gorm.DB
	var err error

	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DataPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(
		&Usuario{},
		&UsoDiario{},
		&models.Camarero{},
		&models.Pedido{},
		&models.Turno{},
		&models.AsignacionCamarero{},
		&models.Disponibilidad{},
		&models.Valoracion{},
		&models.ReglaAsignacion{},
		&models.Notificacion{},
	)

	return db
}
