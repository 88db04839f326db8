package suggest

import (
	"context"
	"errors"

	"github.com/staffeo/camareros-api-go/pkg/models"
)

// Sentinel errors surfaced by the suggestion service.
var (
	ErrPedidoNotFound   = errors.New("pedido not found")
	ErrCamareroNotFound = errors.New("camarero not found")
	ErrPedidoCompleto   = errors.New("pedido already fully staffed")

	// ErrUpstream marks failures of the external ranking collaborator.
	ErrUpstream = errors.New("ranking upstream failure")
)

// NearbyConflict is an assignment within the 48h window around the
// target event (same day excluded).
type NearbyConflict struct {
	Fecha          string `json:"fecha"`
	DiasDiferencia int    `json:"dias_diferencia"`
	PedidoID       uint   `json:"pedido_id"`
}

// SameDayConflict is an existing assignment on the exact event date,
// reported regardless of the rest-rule outcome.
type SameDayConflict struct {
	PedidoID    uint   `json:"pedido_id"`
	HoraEntrada string `json:"hora_entrada"`
	HoraSalida  string `json:"hora_salida"`
}

// Candidate is an eligible camarero enriched with derived features.
type Candidate struct {
	Camarero            models.Camarero   `json:"camarero"`
	AverageRating       float64           `json:"valoracion_media"`
	RecentPerformance   *float64          `json:"rendimiento_reciente"`
	PriorJobsWithClient int               `json:"trabajos_previos_cliente"`
	MonthEventCount     int               `json:"eventos_mes"`
	NearbyConflicts     []NearbyConflict  `json:"conflictos_cercanos"`
	SameDayConflicts    []SameDayConflict `json:"conflictos_mismo_dia"`
	DistanceKm          *float64          `json:"distancia_km"`
}

// Suggestion is one ranked candidate as returned by a Ranker.
type Suggestion struct {
	CamareroID    uint     `json:"camarero_id"`
	Puntuacion    int      `json:"puntuacion"` // 0-100
	Recomendacion string   `json:"recomendacion"`
	Fortalezas    []string `json:"fortalezas"`
	Advertencias  []string `json:"advertencias"`
	Justificacion string   `json:"justificacion"`
}

// Ranker scores and orders enriched candidates for a pedido. The
// returned list is capped at limit. Implementations must not invent
// candidate ids, but callers still defensively join the result against
// the eligible set before display.
type Ranker interface {
	Rank(ctx context.Context, pedido models.Pedido, candidates []Candidate, rules []models.ReglaAsignacion, limit int) ([]Suggestion, error)
}

// Result is the full outcome of one suggestion request.
type Result struct {
	Pedido          models.Pedido `json:"evento"`
	TotalCandidatos int           `json:"total_candidatos"`
	Sugerencias     []Suggestion  `json:"sugerencias"`
	Resumen         string        `json:"resumen"`
	Alertas         []string      `json:"alertas"`
}
