package suggest

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/staffeo/camareros-api-go/pkg/models"
)

// recurrenceEpoch anchors RRULE expansion. Without an explicit
// DTSTART, rrule-go would default to time.Now(), making a recurring
// override miss any event date before the moment it is checked.
var recurrenceEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// OverrideCoversDate reports whether an availability override applies
// on the given date. Single-date overrides match on Fecha; recurring
// overrides expand their RRULE over the date's day window.
func OverrideCoversDate(d models.Disponibilidad, date time.Time) bool {
	if d.Fecha != "" {
		return d.Fecha == date.Format(models.DateLayout)
	}

	if d.Regla == "" {
		return false
	}

	rule, err := rrule.StrToRRule(d.Regla)
	if err != nil {
		return false
	}
	rule.DTStart(recurrenceEpoch)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	return len(rule.Between(dayStart, dayEnd, true)) > 0
}

// OverrideBlocks reports whether an override covering the event date
// prevents working the pedido's time window, with a human-readable
// reason. Estados no_disponible, vacaciones and baja always block;
// parcial blocks only when the pedido's window falls outside the
// declared partial-day hours.
func OverrideBlocks(d models.Disponibilidad, p models.Pedido) (bool, string) {
	switch d.Estado {
	case models.DispoNoDisponible:
		return true, "marcado como no disponible ese día"
	case models.DispoVacaciones:
		return true, "de vacaciones ese día"
	case models.DispoBaja:
		return true, "de baja ese día"
	case models.DispoParcial:
		desde, errD := ParseHora(d.HoraDesde)
		hasta, errH := ParseHora(d.HoraHasta)
		entrada, errE := ParseHora(p.HoraEntrada)
		salida, errS := ParseHora(p.HoraSalida)
		if errD != nil || errH != nil || errE != nil || errS != nil {
			return false, ""
		}
		if entrada < desde || salida > hasta {
			return true, "disponibilidad parcial no cubre el horario del evento"
		}
	}
	return false, ""
}
