package suggest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/staffeo/camareros-api-go/pkg/models"
)

// RuleScorer is the deterministic ranking delegate. It applies the
// configured ReglaAsignacion rows directly: mandatory rule violations
// exclude a candidate, optional rules add or subtract their Puntos.
// Used whenever no LLM delegate is configured.
type RuleScorer struct {
	Logger *zap.Logger
}

// NewRuleScorer creates a scorer. A nil logger is replaced by a nop.
func NewRuleScorer(logger *zap.Logger) *RuleScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleScorer{Logger: logger}
}

type scored struct {
	suggestion Suggestion
	rating     float64
}

// Rank scores each candidate from its enriched features plus the rule
// set and returns the top candidates in descending score order. Ties
// break on rating, then on camarero id, so output is deterministic.
func (s *RuleScorer) Rank(ctx context.Context, pedido models.Pedido, candidates []Candidate, rules []models.ReglaAsignacion, limit int) ([]Suggestion, error) {
	results := make([]scored, 0, len(candidates))

	for _, cand := range candidates {
		sug, excluded := s.score(cand, rules)
		if excluded {
			s.Logger.Debug("candidate excluded by mandatory rule",
				zap.Uint("camarero_id", cand.Camarero.ID),
				zap.Uint("pedido_id", pedido.ID))
			continue
		}
		results = append(results, scored{suggestion: sug, rating: cand.AverageRating})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.suggestion.Puntuacion != b.suggestion.Puntuacion {
			return a.suggestion.Puntuacion > b.suggestion.Puntuacion
		}
		if a.rating != b.rating {
			return a.rating > b.rating
		}
		return a.suggestion.CamareroID < b.suggestion.CamareroID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	suggestions := make([]Suggestion, len(results))
	for i, r := range results {
		suggestions[i] = r.suggestion
	}
	return suggestions, nil
}

// score builds one suggestion. The bool result is true when a
// mandatory rule excludes the candidate.
func (s *RuleScorer) score(cand Candidate, rules []models.ReglaAsignacion) (Suggestion, bool) {
	score := 50.0
	var fortalezas, advertencias, notas []string

	// Base features
	score += cand.AverageRating * 6 // 0-5 rating contributes up to 30

	if cand.PriorJobsWithClient > 0 {
		bonus := cand.PriorJobsWithClient
		if bonus > 3 {
			bonus = 3
		}
		score += float64(bonus * 3)
		fortalezas = append(fortalezas, fmt.Sprintf("ha trabajado %d veces con este cliente", cand.PriorJobsWithClient))
	}

	if cand.AverageRating >= 4.5 {
		fortalezas = append(fortalezas, "valoración media alta")
	}
	if cand.Camarero.AniosExperiencia >= 5 {
		fortalezas = append(fortalezas, fmt.Sprintf("%d años de experiencia", cand.Camarero.AniosExperiencia))
	}
	if cand.RecentPerformance != nil && *cand.RecentPerformance < 3.5 {
		score -= 5
		advertencias = append(advertencias, "rendimiento reciente en descenso")
	}

	if cand.DistanceKm != nil {
		penalty := *cand.DistanceKm * 0.5
		if penalty > 15 {
			penalty = 15
		}
		score -= penalty
		if cand.Camarero.RadioTrabajoKm > 0 && *cand.DistanceKm > cand.Camarero.RadioTrabajoKm {
			score -= 10
			advertencias = append(advertencias, fmt.Sprintf("el evento está a %.0f km, fuera de su radio de trabajo", *cand.DistanceKm))
		}
	}

	loadPenalty := float64(cand.MonthEventCount * 2)
	if loadPenalty > 10 {
		loadPenalty = 10
	}
	score -= loadPenalty

	if n := len(cand.NearbyConflicts); n > 0 {
		penalty := float64(n * 5)
		if penalty > 10 {
			penalty = 10
		}
		score -= penalty
		advertencias = append(advertencias, fmt.Sprintf("%d servicio(s) en las 48h cercanas", n))
	}

	// Configured rules
	for _, rule := range rules {
		if !rule.Activa {
			continue
		}
		violated := ruleViolated(rule, cand)
		if violated && rule.Obligatoria {
			return Suggestion{}, true
		}
		if rule.Puntos == 0 {
			continue
		}
		if violated {
			score -= float64(rule.Puntos)
			notas = append(notas, fmt.Sprintf("incumple %q (-%d)", rule.Nombre, rule.Puntos))
		} else {
			score += float64(rule.Puntos)
			notas = append(notas, fmt.Sprintf("cumple %q (+%d)", rule.Nombre, rule.Puntos))
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	justificacion := fmt.Sprintf("Puntuación basada en valoración %.1f, %d trabajos previos con el cliente y %d eventos este mes.",
		cand.AverageRating, cand.PriorJobsWithClient, cand.MonthEventCount)
	if len(notas) > 0 {
		justificacion += " Reglas: " + strings.Join(notas, ", ") + "."
	}

	return Suggestion{
		CamareroID:    cand.Camarero.ID,
		Puntuacion:    int(score),
		Recomendacion: tier(score),
		Fortalezas:    fortalezas,
		Advertencias:  advertencias,
		Justificacion: justificacion,
	}, false
}

// ruleViolated evaluates one rule against a candidate's features.
// Unknown rule types and unmeasurable features (missing distance)
// never count as violations.
func ruleViolated(rule models.ReglaAsignacion, cand Candidate) bool {
	switch rule.Tipo {
	case models.ReglaValoracionMinima:
		return cand.AverageRating < rule.Valor
	case models.ReglaDistanciaMaxima:
		return cand.DistanceKm != nil && *cand.DistanceKm > rule.Valor
	case models.ReglaMaxEventosMes:
		return float64(cand.MonthEventCount) >= rule.Valor
	case models.ReglaExperienciaMinima:
		return float64(cand.Camarero.AniosExperiencia) < rule.Valor
	case models.ReglaDescansoMinimo:
		// Enforced by the eligibility filter before ranking; a
		// candidate reaching the scorer already satisfies it.
		return false
	}
	return false
}

func tier(score float64) string {
	switch {
	case score >= 75:
		return "muy recomendado"
	case score >= 50:
		return "recomendado"
	default:
		return "aceptable"
	}
}
