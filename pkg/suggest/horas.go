package suggest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/staffeo/camareros-api-go/pkg/models"
)

// ParseHora converts an HH:MM string into fractional hours since
// midnight. Minutes are honored: "18:30" parses to 18.5.
func ParseHora(hora string) (float64, error) {
	parts := strings.SplitN(strings.TrimSpace(hora), ":", 2)
	if len(parts) == 0 || parts[0] == "" {
		return 0, fmt.Errorf("empty hora")
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hora %q", hora)
	}

	m := 0
	if len(parts) == 2 && parts[1] != "" {
		m, err = strconv.Atoi(parts[1])
		if err != nil || m < 0 || m > 59 {
			return 0, fmt.Errorf("invalid hora %q", hora)
		}
	}

	return float64(h) + float64(m)/60.0, nil
}

// GapHours returns the signed gap a-b in hours between two HH:MM times
// on the same day. Negative means a falls before b. Unparseable input
// yields 0, which callers treat as "no measurable gap" (the
// conservative direction for rest checks).
func GapHours(a, b string) float64 {
	ha, errA := ParseHora(a)
	hb, errB := ParseHora(b)
	if errA != nil || errB != nil {
		return 0
	}
	return ha - hb
}

// ParseFecha parses a YYYY-MM-DD date.
func ParseFecha(fecha string) (time.Time, error) {
	return time.Parse(models.DateLayout, fecha)
}
