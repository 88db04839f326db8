package models

import (
	"strings"
	"time"
)

// Assignment states. A rejected assignment is deleted outright, so
// there is no estado for rejection.
const (
	EstadoPendiente  = "pendiente"
	EstadoEnviada    = "enviada"
	EstadoConfirmada = "confirmada"
	EstadoAlta       = "alta"
)

// DateLayout is the storage format for event and assignment dates.
const DateLayout = "2006-01-02"

// HoraLayout is the storage format for entry/exit times.
const HoraLayout = "15:04"

// Camarero represents a waitstaff profile
type Camarero struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Codigo           string    `gorm:"unique;not null" json:"codigo"`
	Nombre           string    `gorm:"not null" json:"nombre"`
	Especialidad     string    `json:"especialidad"`
	AniosExperiencia int       `json:"anios_experiencia"`
	Habilidades      string    `json:"habilidades"` // comma-separated set
	Idiomas          string    `json:"idiomas"`     // comma-separated set
	ValoracionMedia  float64   `json:"valoracion_media"`
	RadioTrabajoKm   float64   `json:"radio_trabajo_km"`
	Latitud          *float64  `json:"latitud"`
	Longitud         *float64  `json:"longitud"`
	// No gorm default: a zero-valued bool would be dropped from the
	// insert and silently replaced by the column default. Creation
	// paths default the flag themselves.
	Disponible bool      `json:"disponible"`
	EnReserva  bool      `gorm:"default:false" json:"en_reserva"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Pedido represents a catering job that needs staffing
type Pedido struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	Cliente               string    `gorm:"index;not null" json:"cliente"`
	Fecha                 string    `gorm:"index;not null" json:"fecha"` // YYYY-MM-DD
	HoraEntrada           string    `json:"hora_entrada"`                // HH:MM
	HoraSalida            string    `json:"hora_salida"`                 // HH:MM
	Lugar                 string    `json:"lugar"`
	Latitud               *float64  `json:"latitud"`
	Longitud              *float64  `json:"longitud"`
	EspecialidadRequerida string    `json:"especialidad_requerida"`
	HabilidadesRequeridas string    `json:"habilidades_requeridas"`
	IdiomasRequeridos     string    `json:"idiomas_requeridos"`
	NumCamareros          int       `json:"num_camareros"`
	Estado                string    `gorm:"default:abierto" json:"estado"`
	Turnos                []Turno   `json:"turnos,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Turno is an optional per-shift headcount within a pedido
type Turno struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	PedidoID     uint   `gorm:"index;not null" json:"pedido_id"`
	HoraInicio   string `json:"hora_inicio"`
	HoraFin      string `json:"hora_fin"`
	NumCamareros int    `json:"num_camareros"`
}

// AsignacionCamarero links a camarero to a pedido for a date/time window
type AsignacionCamarero struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PedidoID    uint      `gorm:"index;not null" json:"pedido_id"`
	CamareroID  uint      `gorm:"index;not null" json:"camarero_id"`
	Fecha       string    `gorm:"index" json:"fecha"`
	HoraEntrada string    `json:"hora_entrada"`
	HoraSalida  string    `json:"hora_salida"`
	Estado      string    `gorm:"default:pendiente" json:"estado"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Disponibilidad is a per-date or recurring availability override.
// Regla, when set, holds an RRULE (RFC 5545) for recurring overrides;
// otherwise Fecha names a single date.
type Disponibilidad struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CamareroID uint      `gorm:"index;not null" json:"camarero_id"`
	Fecha      string    `json:"fecha,omitempty"`
	Regla      string    `json:"regla,omitempty"`
	Estado     string    `gorm:"not null" json:"estado"` // disponible | no_disponible | parcial | vacaciones | baja
	HoraDesde  string    `json:"hora_desde,omitempty"`   // partial-day window
	HoraHasta  string    `json:"hora_hasta,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Availability override states.
const (
	DispoDisponible   = "disponible"
	DispoNoDisponible = "no_disponible"
	DispoParcial      = "parcial"
	DispoVacaciones   = "vacaciones"
	DispoBaja         = "baja"
)

// Valoracion is a rating tied to a camarero and a pedido
type Valoracion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CamareroID uint      `gorm:"index;not null" json:"camarero_id"`
	PedidoID   uint      `gorm:"index" json:"pedido_id"`
	Puntuacion float64   `gorm:"not null" json:"puntuacion"`
	Fecha      string    `json:"fecha,omitempty"` // event date, YYYY-MM-DD
	Comentario string    `json:"comentario,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReglaAsignacion is a configured constraint or preference applied when
// ranking candidates. Mandatory rules exclude; optional rules only
// adjust the score by Puntos.
type ReglaAsignacion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nombre      string    `gorm:"not null" json:"nombre" validate:"required"`
	Tipo        string    `gorm:"not null" json:"tipo" validate:"required,oneof=valoracion_minima distancia_maxima descanso_minimo max_eventos_mes experiencia_minima"`
	Valor       float64   `json:"valor" validate:"gte=0"`
	Prioridad   int       `gorm:"default:0" json:"prioridad"`
	Obligatoria bool      `gorm:"default:false" json:"obligatoria"`
	Puntos      int       `json:"puntos"`
	Activa      bool      `json:"activa"` // no gorm default, see Camarero.Disponible
	CreatedAt   time.Time `json:"created_at"`
}

// Rule types understood by the scorer.
const (
	ReglaValoracionMinima  = "valoracion_minima"
	ReglaDistanciaMaxima   = "distancia_maxima"
	ReglaDescansoMinimo    = "descanso_minimo"
	ReglaMaxEventosMes     = "max_eventos_mes"
	ReglaExperienciaMinima = "experiencia_minima"
)

// Notificacion is an in-app notification addressed to a camarero
type Notificacion struct {
	ID           string    `gorm:"primaryKey" json:"id"` // uuid
	CamareroID   uint      `gorm:"index;not null" json:"camarero_id"`
	PedidoID     uint      `json:"pedido_id"`
	AsignacionID uint      `json:"asignacion_id"`
	Tipo         string    `json:"tipo"`
	Mensaje      string    `json:"mensaje"`
	Leida        bool      `gorm:"default:false" json:"leida"`
	CreatedAt    time.Time `json:"created_at"`
}

// SplitSet parses a comma-separated attribute list into a set with
// normalized (trimmed, lowercased) members.
func SplitSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			set[part] = true
		}
	}
	return set
}

// HasAll reports whether every member of required is present in have.
// Both are comma-separated lists; an empty requirement always passes.
func HasAll(have, required string) bool {
	haveSet := SplitSet(have)
	for req := range SplitSet(required) {
		if !haveSet[req] {
			return false
		}
	}
	return true
}

// ValidTransition reports whether an assignment may move from one
// estado to another: pendiente → enviada → confirmada | alta.
func ValidTransition(from, to string) bool {
	switch from {
	case EstadoPendiente:
		return to == EstadoEnviada
	case EstadoEnviada:
		return to == EstadoConfirmada || to == EstadoAlta
	}
	return false
}
