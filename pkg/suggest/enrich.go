package suggest

import (
	"sort"

	"github.com/staffeo/camareros-api-go/pkg/geo"
	"github.com/staffeo/camareros-api-go/pkg/models"
)

// recentWindow is how many of the latest ratings feed the
// recent-performance trend.
const recentWindow = 5

// nearbyDays is the half-width of the nearby-conflict window (48h
// either side, same day excluded).
const nearbyDays = 2

// EnrichInput bundles everything needed to derive one candidate's
// features. Asignaciones and Valoraciones must be scoped to the
// camarero; Pedidos maps pedido id -> pedido for client lookups.
type EnrichInput struct {
	Camarero     models.Camarero
	Pedido       models.Pedido
	Asignaciones []models.AsignacionCamarero
	Valoraciones []models.Valoracion
	Pedidos      map[uint]models.Pedido
}

// Enrich computes the derived features for one eligible candidate.
// Read-only: nothing is persisted.
func Enrich(in EnrichInput) Candidate {
	cand := Candidate{
		Camarero:      in.Camarero,
		AverageRating: averageRating(in.Camarero, in.Valoraciones),
		DistanceKm: geo.Between(
			in.Pedido.Latitud, in.Pedido.Longitud,
			in.Camarero.Latitud, in.Camarero.Longitud),
	}

	cand.RecentPerformance = recentPerformance(in.Valoraciones)

	eventDate, dateErr := ParseFecha(in.Pedido.Fecha)
	eventMonth := in.Pedido.Fecha
	if len(eventMonth) >= 7 {
		eventMonth = eventMonth[:7] // YYYY-MM
	}

	for _, asg := range in.Asignaciones {
		if asg.PedidoID != in.Pedido.ID {
			if prior, ok := in.Pedidos[asg.PedidoID]; ok && prior.Cliente == in.Pedido.Cliente {
				cand.PriorJobsWithClient++
			}
		}

		if len(asg.Fecha) >= 7 && asg.Fecha[:7] == eventMonth &&
			(asg.Estado == models.EstadoConfirmada || asg.Estado == models.EstadoAlta) {
			cand.MonthEventCount++
		}

		if asg.Fecha == in.Pedido.Fecha {
			if asg.PedidoID != in.Pedido.ID {
				cand.SameDayConflicts = append(cand.SameDayConflicts, SameDayConflict{
					PedidoID:    asg.PedidoID,
					HoraEntrada: asg.HoraEntrada,
					HoraSalida:  asg.HoraSalida,
				})
			}
			continue
		}

		if dateErr != nil {
			continue
		}
		if asgDate, err := ParseFecha(asg.Fecha); err == nil {
			diff := int(asgDate.Sub(eventDate).Hours() / 24)
			if diff >= -nearbyDays && diff <= nearbyDays {
				cand.NearbyConflicts = append(cand.NearbyConflicts, NearbyConflict{
					Fecha:          asg.Fecha,
					DiasDiferencia: diff,
					PedidoID:       asg.PedidoID,
				})
			}
		}
	}

	return cand
}

// averageRating means all of the camarero's ratings, falling back to
// the profile's stored average when none exist.
func averageRating(c models.Camarero, ratings []models.Valoracion) float64 {
	if len(ratings) == 0 {
		return c.ValoracionMedia
	}
	var sum float64
	for _, r := range ratings {
		sum += r.Puntuacion
	}
	return sum / float64(len(ratings))
}

// recentPerformance means the latest ratings by event date. Nil when
// the camarero has no ratings at all.
func recentPerformance(ratings []models.Valoracion) *float64 {
	if len(ratings) == 0 {
		return nil
	}

	sorted := make([]models.Valoracion, len(ratings))
	copy(sorted, ratings)
	// ISO dates sort lexicographically; undated ratings sink last.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fecha > sorted[j].Fecha
	})

	n := len(sorted)
	if n > recentWindow {
		n = recentWindow
	}

	var sum float64
	for _, r := range sorted[:n] {
		sum += r.Puntuacion
	}
	mean := sum / float64(n)
	return &mean
}
