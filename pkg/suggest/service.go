package suggest

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffeo/camareros-api-go/pkg/models"
)

// Notifier delivers the "you have been assigned" notification. The
// writeback does not retry failures; it only logs them.
type Notifier interface {
	NotifyAssignment(ctx context.Context, asg models.AsignacionCamarero, camarero models.Camarero, pedido models.Pedido) error
}

// Service runs the suggestion pipeline and the assignment writeback.
type Service struct {
	DB       *gorm.DB
	Filter   *Filter
	Ranker   Ranker
	Notifier Notifier
	Logger   *zap.Logger
}

// NewService wires the pipeline.
func NewService(db *gorm.DB, filter *Filter, ranker Ranker, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{DB: db, Filter: filter, Ranker: ranker, Notifier: notifier, Logger: logger}
}

// Suggest loads everything for the pedido, filters candidates, enriches
// the eligible ones and asks the ranking delegate for an ordered list.
// No eligible candidates is a valid outcome, not an error.
func (s *Service) Suggest(ctx context.Context, pedidoID uint, limite int) (*Result, error) {
	if limite <= 0 {
		limite = 5
	}

	var pedido models.Pedido
	if err := s.DB.WithContext(ctx).Preload("Turnos").First(&pedido, pedidoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPedidoNotFound
		}
		return nil, fmt.Errorf("load pedido: %w", err)
	}

	var camareros []models.Camarero
	if err := s.DB.WithContext(ctx).Find(&camareros).Error; err != nil {
		return nil, fmt.Errorf("load camareros: %w", err)
	}

	var asignaciones []models.AsignacionCamarero
	if err := s.DB.WithContext(ctx).Find(&asignaciones).Error; err != nil {
		return nil, fmt.Errorf("load asignaciones: %w", err)
	}
	asgByCamarero := make(map[uint][]models.AsignacionCamarero)
	for _, a := range asignaciones {
		asgByCamarero[a.CamareroID] = append(asgByCamarero[a.CamareroID], a)
	}

	var overrides []models.Disponibilidad
	if err := s.DB.WithContext(ctx).Find(&overrides).Error; err != nil {
		return nil, fmt.Errorf("load disponibilidades: %w", err)
	}
	ovByCamarero := make(map[uint][]models.Disponibilidad)
	for _, ov := range overrides {
		ovByCamarero[ov.CamareroID] = append(ovByCamarero[ov.CamareroID], ov)
	}

	// Eligibility pass
	var eligible []models.Camarero
	rejected := 0
	for _, c := range camareros {
		verdict := s.Filter.Check(c, pedido, asgByCamarero[c.ID], ovByCamarero[c.ID])
		if verdict.Eligible {
			eligible = append(eligible, c)
		} else {
			rejected++
		}
	}

	result := &Result{
		Pedido:          pedido,
		TotalCandidatos: len(eligible),
		Sugerencias:     []Suggestion{},
		Alertas:         []string{},
	}

	if len(eligible) == 0 {
		result.Resumen = fmt.Sprintf(
			"Ningún camarero cumple los criterios para este evento (%d evaluados, %d descartados).",
			len(camareros), rejected)
		return result, nil
	}

	// Enrichment pass
	var valoraciones []models.Valoracion
	if err := s.DB.WithContext(ctx).Find(&valoraciones).Error; err != nil {
		return nil, fmt.Errorf("load valoraciones: %w", err)
	}
	valByCamarero := make(map[uint][]models.Valoracion)
	for _, v := range valoraciones {
		valByCamarero[v.CamareroID] = append(valByCamarero[v.CamareroID], v)
	}

	var pedidos []models.Pedido
	if err := s.DB.WithContext(ctx).Find(&pedidos).Error; err != nil {
		return nil, fmt.Errorf("load pedidos: %w", err)
	}
	pedidosByID := make(map[uint]models.Pedido, len(pedidos))
	for _, p := range pedidos {
		pedidosByID[p.ID] = p
	}

	candidates := make([]Candidate, 0, len(eligible))
	for _, c := range eligible {
		candidates = append(candidates, Enrich(EnrichInput{
			Camarero:     c,
			Pedido:       pedido,
			Asignaciones: asgByCamarero[c.ID],
			Valoraciones: valByCamarero[c.ID],
			Pedidos:      pedidosByID,
		}))
	}

	// Default presentation order before any external ranking
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AverageRating > candidates[j].AverageRating
	})

	var rules []models.ReglaAsignacion
	if err := s.DB.WithContext(ctx).Where("activa = ?", true).Order("prioridad desc").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("load reglas: %w", err)
	}

	suggestions, err := s.Ranker.Rank(ctx, pedido, candidates, rules, limite)
	if err != nil {
		return nil, err
	}

	// Defensive join: never surface an id the filter did not approve.
	eligibleIDs := make(map[uint]bool, len(eligible))
	for _, c := range eligible {
		eligibleIDs[c.ID] = true
	}
	for _, sug := range suggestions {
		if !eligibleIDs[sug.CamareroID] {
			result.Alertas = append(result.Alertas,
				fmt.Sprintf("el ranking devolvió el camarero %d, que no es elegible; descartado", sug.CamareroID))
			continue
		}
		result.Sugerencias = append(result.Sugerencias, sug)
	}

	result.Resumen = fmt.Sprintf(
		"%d candidatos elegibles de %d evaluados; %d sugerencias generadas.",
		len(eligible), len(camareros), len(result.Sugerencias))
	return result, nil
}

// Assign creates a pending assignment for the chosen camarero, copying
// the pedido's date and time window, then emits a notification. The
// create runs under a row lock on the pedido and is rejected when the
// headcount is already filled, so concurrent coordinators cannot
// over-book a slot. Repeated sequential calls for the same camarero
// still create distinct rows; callers must prevent double submission.
func (s *Service) Assign(ctx context.Context, pedidoID, camareroID uint) (*models.AsignacionCamarero, error) {
	var camarero models.Camarero
	if err := s.DB.WithContext(ctx).First(&camarero, camareroID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCamareroNotFound
		}
		return nil, fmt.Errorf("load camarero: %w", err)
	}

	var pedido models.Pedido
	asignacion := models.AsignacionCamarero{
		PedidoID:   pedidoID,
		CamareroID: camareroID,
		Estado:     models.EstadoPendiente,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", pedidoID)
		// SQLite serializes writers on its own; the row lock matters
		// for Postgres.
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&pedido).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPedidoNotFound
			}
			return fmt.Errorf("load pedido: %w", err)
		}

		if pedido.NumCamareros > 0 {
			var count int64
			if err := tx.Model(&models.AsignacionCamarero{}).Where("pedido_id = ?", pedidoID).Count(&count).Error; err != nil {
				return fmt.Errorf("count asignaciones: %w", err)
			}
			if count >= int64(pedido.NumCamareros) {
				return ErrPedidoCompleto
			}
		}

		asignacion.Fecha = pedido.Fecha
		asignacion.HoraEntrada = pedido.HoraEntrada
		asignacion.HoraSalida = pedido.HoraSalida

		return tx.Create(&asignacion).Error
	})
	if err != nil {
		return nil, err
	}

	// Notification is outside the transaction on purpose: a failed
	// notification leaves the assignment in place, logged, no retry.
	if s.Notifier != nil {
		if err := s.Notifier.NotifyAssignment(ctx, asignacion, camarero, pedido); err != nil {
			s.Logger.Error("assignment created but notification failed",
				zap.Uint("asignacion_id", asignacion.ID),
				zap.Uint("camarero_id", camareroID),
				zap.Error(err))
		}
	}

	return &asignacion, nil
}
