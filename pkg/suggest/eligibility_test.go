package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staffeo/camareros-api-go/pkg/models"
)

func testPedido() models.Pedido {
	return models.Pedido{
		ID:          1,
		Cliente:     "Hotel Palace",
		Fecha:       "2026-03-15",
		HoraEntrada: "18:00",
		HoraSalida:  "23:00",
	}
}

func testCamarero() models.Camarero {
	return models.Camarero{
		ID:           10,
		Codigo:       "CAM-010",
		Nombre:       "Lucía",
		Especialidad: "sala",
		Habilidades:  "coctelería, bandeja",
		Idiomas:      "español, inglés",
		Disponible:   true,
	}
}

func TestCheck_UnavailableAlwaysExcluded(t *testing.T) {
	f := NewFilter(6)
	c := testCamarero()
	c.Disponible = false

	verdict := f.Check(c, testPedido(), nil, nil)
	assert.False(t, verdict.Eligible)
	assert.Contains(t, verdict.Reasons, "no disponible")
}

func TestCheck_EnReservaExcluded(t *testing.T) {
	f := NewFilter(6)
	c := testCamarero()
	c.EnReserva = true

	verdict := f.Check(c, testPedido(), nil, nil)
	assert.False(t, verdict.Eligible)
}

func TestCheck_AlreadyAssignedToPedido(t *testing.T) {
	f := NewFilter(6)
	existing := []models.AsignacionCamarero{
		{PedidoID: 1, CamareroID: 10, Fecha: "2026-03-15"},
	}

	verdict := f.Check(testCamarero(), testPedido(), existing, nil)
	assert.False(t, verdict.Eligible)
	assert.Contains(t, verdict.Reasons, "ya asignado a este pedido")
}

func TestCheck_RestPeriodRule(t *testing.T) {
	f := NewFilter(6)

	tests := []struct {
		name     string
		entrada  string
		salida   string
		eligible bool
	}{
		// Existing 14:00-17:00; new event 18:00-23:00 leaves a 1h
		// gap, under the 6h minimum.
		{"one hour gap", "14:00", "17:00", false},
		// Morning shift ending 11:00 leaves 7h before the 18:00 start.
		{"seven hour gap", "08:00", "11:00", true},
		// Overlapping window.
		{"overlap", "17:00", "20:00", false},
		// Minute precision: 11:55 end leaves 6h05m.
		{"just over threshold", "09:00", "11:55", true},
		{"just under threshold", "09:00", "12:05", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := []models.AsignacionCamarero{
				{PedidoID: 99, CamareroID: 10, Fecha: "2026-03-15", HoraEntrada: tt.entrada, HoraSalida: tt.salida},
			}
			verdict := f.Check(testCamarero(), testPedido(), existing, nil)
			assert.Equal(t, tt.eligible, verdict.Eligible, "reasons: %v", verdict.Reasons)
		})
	}
}

func TestCheck_RestRuleIgnoresOtherDates(t *testing.T) {
	f := NewFilter(6)
	existing := []models.AsignacionCamarero{
		{PedidoID: 99, CamareroID: 10, Fecha: "2026-03-14", HoraEntrada: "17:00", HoraSalida: "23:30"},
	}

	verdict := f.Check(testCamarero(), testPedido(), existing, nil)
	assert.True(t, verdict.Eligible)
}

func TestCheck_RequiredSkill(t *testing.T) {
	f := NewFilter(6)
	p := testPedido()
	p.HabilidadesRequeridas = "coctelería"

	// Candidate A has the skill
	a := testCamarero()
	verdict := f.Check(a, p, nil, nil)
	assert.True(t, verdict.Eligible)

	// Candidate B lacks it, regardless of rating
	b := testCamarero()
	b.ID = 11
	b.Habilidades = "bandeja"
	b.ValoracionMedia = 5.0
	verdict = f.Check(b, p, nil, nil)
	assert.False(t, verdict.Eligible)
	assert.Contains(t, verdict.Reasons, "no cumple las habilidades requeridas")
}

func TestCheck_RequiredLanguages(t *testing.T) {
	f := NewFilter(6)
	p := testPedido()
	p.IdiomasRequeridos = "inglés, francés"

	verdict := f.Check(testCamarero(), p, nil, nil)
	assert.False(t, verdict.Eligible)
}

func TestCheck_Specialty(t *testing.T) {
	f := NewFilter(6)

	p := testPedido()
	p.EspecialidadRequerida = "coctelería"
	verdict := f.Check(testCamarero(), p, nil, nil) // especialidad sala
	assert.False(t, verdict.Eligible)

	// "general" matches anyone
	p.EspecialidadRequerida = "general"
	verdict = f.Check(testCamarero(), p, nil, nil)
	assert.True(t, verdict.Eligible)

	// exact match, case-insensitive
	p.EspecialidadRequerida = "Sala"
	verdict = f.Check(testCamarero(), p, nil, nil)
	assert.True(t, verdict.Eligible)
}

func TestCheck_AvailabilityOverrides(t *testing.T) {
	f := NewFilter(6)

	t.Run("vacation on event date", func(t *testing.T) {
		overrides := []models.Disponibilidad{
			{CamareroID: 10, Fecha: "2026-03-15", Estado: models.DispoVacaciones},
		}
		verdict := f.Check(testCamarero(), testPedido(), nil, overrides)
		assert.False(t, verdict.Eligible)
	})

	t.Run("vacation on another date", func(t *testing.T) {
		overrides := []models.Disponibilidad{
			{CamareroID: 10, Fecha: "2026-03-20", Estado: models.DispoVacaciones},
		}
		verdict := f.Check(testCamarero(), testPedido(), nil, overrides)
		assert.True(t, verdict.Eligible)
	})

	t.Run("recurring sunday block", func(t *testing.T) {
		// 2026-03-15 is a Sunday
		overrides := []models.Disponibilidad{
			{CamareroID: 10, Regla: "FREQ=WEEKLY;BYDAY=SU", Estado: models.DispoNoDisponible},
		}
		verdict := f.Check(testCamarero(), testPedido(), nil, overrides)
		assert.False(t, verdict.Eligible)
	})

	t.Run("recurring block holds for long-past dates", func(t *testing.T) {
		// Expansion must not depend on when the check runs: a weekly
		// rule covers Sundays years back too. 2020-03-15 was a Sunday.
		p := testPedido()
		p.Fecha = "2020-03-15"
		overrides := []models.Disponibilidad{
			{CamareroID: 10, Regla: "FREQ=WEEKLY;BYDAY=SU", Estado: models.DispoNoDisponible},
		}
		verdict := f.Check(testCamarero(), p, nil, overrides)
		assert.False(t, verdict.Eligible)
	})

	t.Run("recurring rule skips other weekdays", func(t *testing.T) {
		// 2026-03-14 is a Saturday
		p := testPedido()
		p.Fecha = "2026-03-14"
		overrides := []models.Disponibilidad{
			{CamareroID: 10, Regla: "FREQ=WEEKLY;BYDAY=SU", Estado: models.DispoNoDisponible},
		}
		verdict := f.Check(testCamarero(), p, nil, overrides)
		assert.True(t, verdict.Eligible)
	})

	t.Run("partial day covering the event", func(t *testing.T) {
		overrides := []models.Disponibilidad{
			{CamareroID: 10, Fecha: "2026-03-15", Estado: models.DispoParcial, HoraDesde: "16:00", HoraHasta: "23:30"},
		}
		verdict := f.Check(testCamarero(), testPedido(), nil, overrides)
		assert.True(t, verdict.Eligible)
	})

	t.Run("partial day missing the event", func(t *testing.T) {
		overrides := []models.Disponibilidad{
			{CamareroID: 10, Fecha: "2026-03-15", Estado: models.DispoParcial, HoraDesde: "09:00", HoraHasta: "20:00"},
		}
		verdict := f.Check(testCamarero(), testPedido(), nil, overrides)
		assert.False(t, verdict.Eligible)
	})
}
