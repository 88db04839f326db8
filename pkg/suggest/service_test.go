package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/staffeo/camareros-api-go/pkg/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Camarero{},
		&models.Pedido{},
		&models.Turno{},
		&models.AsignacionCamarero{},
		&models.Disponibilidad{},
		&models.Valoracion{},
		&models.ReglaAsignacion{},
		&models.Notificacion{},
	))
	return db
}

type recordingNotifier struct {
	calls []models.AsignacionCamarero
	err   error
}

func (n *recordingNotifier) NotifyAssignment(ctx context.Context, asg models.AsignacionCamarero, camarero models.Camarero, pedido models.Pedido) error {
	n.calls = append(n.calls, asg)
	return n.err
}

type stubRanker struct {
	suggestions []Suggestion
	err         error
}

func (r *stubRanker) Rank(ctx context.Context, pedido models.Pedido, candidates []Candidate, rules []models.ReglaAsignacion, limit int) ([]Suggestion, error) {
	return r.suggestions, r.err
}

func seedPedido(t *testing.T, db *gorm.DB) models.Pedido {
	t.Helper()
	pedido := models.Pedido{
		Cliente:      "Hotel Palace",
		Fecha:        "2026-03-15",
		HoraEntrada:  "18:00",
		HoraSalida:   "23:00",
		Lugar:        "Madrid",
		NumCamareros: 2,
	}
	require.NoError(t, db.Create(&pedido).Error)
	return pedido
}

func TestSuggest_PedidoNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, NewFilter(6), NewRuleScorer(nil), nil, nil)

	_, err := svc.Suggest(context.Background(), 999, 5)
	assert.True(t, errors.Is(err, ErrPedidoNotFound))
}

func TestSuggest_NoEligibleCandidates(t *testing.T) {
	db := newTestDB(t)
	pedido := seedPedido(t, db)

	require.NoError(t, db.Create(&models.Camarero{
		Codigo: "CAM-001", Nombre: "Ana", Disponible: false,
	}).Error)

	svc := NewService(db, NewFilter(6), NewRuleScorer(nil), nil, nil)
	result, err := svc.Suggest(context.Background(), pedido.ID, 5)
	require.NoError(t, err)

	assert.Empty(t, result.Sugerencias)
	assert.Equal(t, 0, result.TotalCandidatos)
	assert.Contains(t, result.Resumen, "Ningún camarero")
}

func TestSuggest_FullPipeline(t *testing.T) {
	db := newTestDB(t)
	pedido := models.Pedido{
		Cliente:               "Hotel Palace",
		Fecha:                 "2026-03-15",
		HoraEntrada:           "18:00",
		HoraSalida:            "23:00",
		HabilidadesRequeridas: "coctelería",
		NumCamareros:          2,
	}
	require.NoError(t, db.Create(&pedido).Error)

	// A: has the skill, available, rated
	a := models.Camarero{Codigo: "CAM-001", Nombre: "Ana", Habilidades: "coctelería", Disponible: true, ValoracionMedia: 4.5}
	require.NoError(t, db.Create(&a).Error)
	// B: lacks the skill
	b := models.Camarero{Codigo: "CAM-002", Nombre: "Bruno", Habilidades: "bandeja", Disponible: true, ValoracionMedia: 5.0}
	require.NoError(t, db.Create(&b).Error)
	// C: rest conflict same day
	c := models.Camarero{Codigo: "CAM-003", Nombre: "Carla", Habilidades: "coctelería", Disponible: true}
	require.NoError(t, db.Create(&c).Error)
	require.NoError(t, db.Create(&models.AsignacionCamarero{
		PedidoID: 999, CamareroID: c.ID, Fecha: "2026-03-15", HoraEntrada: "14:00", HoraSalida: "17:00",
	}).Error)

	svc := NewService(db, NewFilter(6), NewRuleScorer(nil), nil, nil)
	result, err := svc.Suggest(context.Background(), pedido.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalCandidatos)
	require.Len(t, result.Sugerencias, 1)
	assert.Equal(t, a.ID, result.Sugerencias[0].CamareroID)
	assert.Empty(t, result.Alertas)
}

func TestSuggest_DefensiveJoinDropsUnknownIDs(t *testing.T) {
	db := newTestDB(t)
	pedido := seedPedido(t, db)

	cam := models.Camarero{Codigo: "CAM-001", Nombre: "Ana", Disponible: true}
	require.NoError(t, db.Create(&cam).Error)

	ranker := &stubRanker{suggestions: []Suggestion{
		{CamareroID: cam.ID, Puntuacion: 80},
		{CamareroID: 4242, Puntuacion: 95}, // invented by the delegate
	}}

	svc := NewService(db, NewFilter(6), ranker, nil, nil)
	result, err := svc.Suggest(context.Background(), pedido.ID, 5)
	require.NoError(t, err)

	require.Len(t, result.Sugerencias, 1)
	assert.Equal(t, cam.ID, result.Sugerencias[0].CamareroID)
	require.Len(t, result.Alertas, 1)
	assert.Contains(t, result.Alertas[0], "4242")
}

func TestSuggest_UpstreamErrorPropagates(t *testing.T) {
	db := newTestDB(t)
	pedido := seedPedido(t, db)
	require.NoError(t, db.Create(&models.Camarero{Codigo: "CAM-001", Nombre: "Ana", Disponible: true}).Error)

	ranker := &stubRanker{err: fmt.Errorf("%w: boom", ErrUpstream)}
	svc := NewService(db, NewFilter(6), ranker, nil, nil)

	_, err := svc.Suggest(context.Background(), pedido.ID, 5)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestAssign_CreatesPendingAndNotifies(t *testing.T) {
	db := newTestDB(t)
	pedido := seedPedido(t, db)
	cam := models.Camarero{Codigo: "CAM-001", Nombre: "Ana", Disponible: true}
	require.NoError(t, db.Create(&cam).Error)

	notifier := &recordingNotifier{}
	svc := NewService(db, NewFilter(6), NewRuleScorer(nil), notifier, nil)

	asg, err := svc.Assign(context.Background(), pedido.ID, cam.ID)
	require.NoError(t, err)

	assert.Equal(t, models.EstadoPendiente, asg.Estado)
	assert.Equal(t, "2026-03-15", asg.Fecha)
	assert.Equal(t, "18:00", asg.HoraEntrada)
	assert.Equal(t, "23:00", asg.HoraSalida)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, asg.ID, notifier.calls[0].ID)
}

func TestAssign_DuplicateCallsCreateDistinctRows(t *testing.T) {
	db := newTestDB(t)
	pedido := seedPedido(t, db) // headcount 2
	cam := models.Camarero{Codigo: "CAM-001", Nombre: "Ana", Disponible: true}
	require.NoError(t, db.Create(&cam).Error)

	svc := NewService(db, NewFilter(6), NewRuleScorer(nil), nil, nil)

	first, err := svc.Assign(context.Background(), pedido.ID, cam.ID)
	require.NoError(t, err)
	second, err := svc.Assign(context.Background(), pedido.ID, cam.ID)
	require.NoError(t, err)

	// Documented gap: no dedup of sequential duplicate submissions.
	assert.NotEqual(t, first.ID, second.ID)

	var count int64
	db.Model(&models.AsignacionCamarero{}).Where("pedido_id = ?", pedido.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestAssign_RejectsWhenFullyStaffed(t *testing.T) {
	db := newTestDB(t)
	pedido := seedPedido(t, db) // headcount 2
	cam := models.Camarero{Codigo: "CAM-001", Nombre: "Ana", Disponible: true}
	require.NoError(t, db.Create(&cam).Error)

	svc := NewService(db, NewFilter(6), NewRuleScorer(nil), nil, nil)
	_, err := svc.Assign(context.Background(), pedido.ID, cam.ID)
	require.NoError(t, err)
	_, err = svc.Assign(context.Background(), pedido.ID, cam.ID)
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), pedido.ID, cam.ID)
	assert.True(t, errors.Is(err, ErrPedidoCompleto))
}

func TestAssign_NotificationFailureDoesNotUndoAssignment(t *testing.T) {
	db := newTestDB(t)
	pedido := seedPedido(t, db)
	cam := models.Camarero{Codigo: "CAM-001", Nombre: "Ana", Disponible: true}
	require.NoError(t, db.Create(&cam).Error)

	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := NewService(db, NewFilter(6), NewRuleScorer(nil), notifier, nil)

	asg, err := svc.Assign(context.Background(), pedido.ID, cam.ID)
	require.NoError(t, err)

	var stored models.AsignacionCamarero
	require.NoError(t, db.First(&stored, asg.ID).Error)
	assert.Equal(t, models.EstadoPendiente, stored.Estado)
}

func TestAssign_UnknownReferences(t *testing.T) {
	db := newTestDB(t)
	pedido := seedPedido(t, db)
	cam := models.Camarero{Codigo: "CAM-001", Nombre: "Ana", Disponible: true}
	require.NoError(t, db.Create(&cam).Error)

	svc := NewService(db, NewFilter(6), NewRuleScorer(nil), nil, nil)

	_, err := svc.Assign(context.Background(), 999, cam.ID)
	assert.True(t, errors.Is(err, ErrPedidoNotFound))

	_, err = svc.Assign(context.Background(), pedido.ID, 999)
	assert.True(t, errors.Is(err, ErrCamareroNotFound))
}
