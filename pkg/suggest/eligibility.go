package suggest

import (
	"fmt"
	"strings"
	"time"

	"github.com/staffeo/camareros-api-go/pkg/config"
	"github.com/staffeo/camareros-api-go/pkg/models"
)

// Filter decides whether a camarero may be proposed for a pedido.
type Filter struct {
	RestHours float64
}

// NewFilter creates a filter with the given minimum rest gap in hours.
// Zero or negative falls back to the default.
func NewFilter(restHours float64) *Filter {
	if restHours <= 0 {
		restHours = config.DefaultRestHours
	}
	return &Filter{RestHours: restHours}
}

// Verdict is the outcome of one eligibility check.
type Verdict struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Check evaluates every eligibility rule for one candidate. existing
// must hold all of the camarero's assignments; overrides all of their
// availability overrides. All failing rules are reported, not just the
// first one.
func (f *Filter) Check(c models.Camarero, p models.Pedido, existing []models.AsignacionCamarero, overrides []models.Disponibilidad) Verdict {
	var reasons []string

	if !c.Disponible {
		reasons = append(reasons, "no disponible")
	}
	if c.EnReserva {
		reasons = append(reasons, "en reserva")
	}

	if fecha, err := ParseFecha(p.Fecha); err == nil {
		reasons = append(reasons, f.overrideReasons(p, fecha, overrides)...)
	}

	for _, asg := range existing {
		if asg.PedidoID == p.ID {
			reasons = append(reasons, "ya asignado a este pedido")
			break
		}
	}

	reasons = append(reasons, f.restConflicts(p, existing)...)

	req := strings.ToLower(strings.TrimSpace(p.EspecialidadRequerida))
	if req != "" && req != "general" {
		if !strings.EqualFold(strings.TrimSpace(c.Especialidad), req) {
			reasons = append(reasons, fmt.Sprintf("especialidad %q requerida", req))
		}
	}

	if !models.HasAll(c.Habilidades, p.HabilidadesRequeridas) {
		reasons = append(reasons, "no cumple las habilidades requeridas")
	}
	if !models.HasAll(c.Idiomas, p.IdiomasRequeridos) {
		reasons = append(reasons, "no cumple los idiomas requeridos")
	}

	return Verdict{Eligible: len(reasons) == 0, Reasons: reasons}
}

func (f *Filter) overrideReasons(p models.Pedido, fecha time.Time, overrides []models.Disponibilidad) []string {
	var reasons []string
	for _, ov := range overrides {
		if !OverrideCoversDate(ov, fecha) {
			continue
		}
		if blocked, reason := OverrideBlocks(ov, p); blocked {
			reasons = append(reasons, reason)
		}
	}
	return reasons
}

// restConflicts applies the rest-period rule: for every existing
// same-date assignment on a different pedido, the candidate is out
// when the signed gap between the new window and the existing one is
// under the threshold in both directions (overlaps produce negative
// gaps and always fail). Gaps are measured at minute precision.
func (f *Filter) restConflicts(p models.Pedido, existing []models.AsignacionCamarero) []string {
	var reasons []string
	for _, asg := range existing {
		if asg.PedidoID == p.ID || asg.Fecha != p.Fecha {
			continue
		}

		diff1 := GapHours(p.HoraEntrada, asg.HoraSalida)
		diff2 := GapHours(asg.HoraEntrada, p.HoraSalida)

		if diff1 < f.RestHours && diff2 < f.RestHours {
			reasons = append(reasons, fmt.Sprintf(
				"descanso insuficiente: servicio %s-%s el mismo día (mínimo %.0fh)",
				asg.HoraEntrada, asg.HoraSalida, f.RestHours))
		}
	}
	return reasons
}
