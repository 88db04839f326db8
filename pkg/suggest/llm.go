package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/staffeo/camareros-api-go/pkg/ai"
	"github.com/staffeo/camareros-api-go/pkg/models"
)

// chatClient is the slice of the AI client the ranker needs.
type chatClient interface {
	Chat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error)
}

// LLMRanker delegates scoring to an external language model. The model
// receives the event, the enriched candidate list and the active rules,
// and must answer with a strict JSON ranking. The core never re-derives
// the score, but the service defensively joins the returned ids against
// the eligible set.
type LLMRanker struct {
	client chatClient
	logger *zap.Logger
}

// NewLLMRanker creates a ranker over a chat client.
func NewLLMRanker(client chatClient, logger *zap.Logger) *LLMRanker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMRanker{client: client, logger: logger}
}

const rankingSystemPrompt = `Eres un coordinador experto de personal de hostelería.
Recibes un evento, una lista de candidatos con sus características y las reglas de asignación configuradas.
Devuelve SOLO un array JSON, sin texto adicional, donde cada elemento tiene esta forma:
{"camarero_id": <id>, "puntuacion": <0-100>, "recomendacion": "<muy recomendado|recomendado|aceptable>", "fortalezas": ["..."], "advertencias": ["..."], "justificacion": "..."}
Las reglas marcadas como obligatorias no pueden incumplirse: excluye del ranking a quien las incumpla.
Nunca sugieras personal sin disponibilidad, con conflictos de horario graves o con menos descanso del mínimo configurado.`

// Rank builds the prompt, calls the model and parses its JSON answer.
// Any transport failure or malformed answer is an upstream error.
func (r *LLMRanker) Rank(ctx context.Context, pedido models.Pedido, candidates []Candidate, rules []models.ReglaAsignacion, limit int) ([]Suggestion, error) {
	payload := struct {
		Evento     models.Pedido            `json:"evento"`
		Candidatos []Candidate              `json:"candidatos"`
		Reglas     []models.ReglaAsignacion `json:"reglas"`
		Limite     int                      `json:"limite"`
	}{pedido, candidates, rules, limit}

	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal prompt: %v", ErrUpstream, err)
	}

	prompt := fmt.Sprintf("Clasifica a los %d mejores candidatos para este evento:\n\n%s", limit, body)

	resp, err := r.client.Chat(ctx, ai.ChatRequest{
		SystemPrompt: rankingSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	suggestions, err := parseRanking(resp.Content)
	if err != nil {
		r.logger.Warn("unparseable ranking response", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// parseRanking extracts the JSON array from the model output, which
// may arrive wrapped in a markdown code fence, and bounds the scores.
func parseRanking(content string) ([]Suggestion, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("malformed ranking JSON: %w", err)
	}

	for i := range suggestions {
		if suggestions[i].Puntuacion < 0 {
			suggestions[i].Puntuacion = 0
		}
		if suggestions[i].Puntuacion > 100 {
			suggestions[i].Puntuacion = 100
		}
	}
	return suggestions, nil
}
