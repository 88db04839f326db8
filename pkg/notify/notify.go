package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/staffeo/camareros-api-go/pkg/config"
	"github.com/staffeo/camareros-api-go/pkg/models"
)

// Notifier persists in-app notifications and optionally forwards them
// to a configured webhook, signing the payload with HMAC-SHA256.
type Notifier struct {
	DB            *gorm.DB
	Logger        *zap.Logger
	WebhookURL    string
	WebhookSecret string

	httpClient *http.Client
}

// New creates a notifier. Webhook delivery is disabled when no URL is
// configured.
func New(db *gorm.DB, logger *zap.Logger, cfg config.Config) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		DB:            db,
		Logger:        logger,
		WebhookURL:    cfg.WebhookURL,
		WebhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyAssignment records a notification for the camarero describing
// the job. The returned error covers only the database write; webhook
// delivery failures are logged and swallowed (no retry).
func (n *Notifier) NotifyAssignment(ctx context.Context, asg models.AsignacionCamarero, camarero models.Camarero, pedido models.Pedido) error {
	notificacion := models.Notificacion{
		ID:           uuid.NewString(),
		CamareroID:   camarero.ID,
		PedidoID:     pedido.ID,
		AsignacionID: asg.ID,
		Tipo:         "asignacion",
		Mensaje: fmt.Sprintf("Nuevo servicio para %s el %s de %s a %s en %s",
			pedido.Cliente, asg.Fecha, asg.HoraEntrada, asg.HoraSalida, pedido.Lugar),
	}

	if err := n.DB.WithContext(ctx).Create(&notificacion).Error; err != nil {
		return fmt.Errorf("create notificacion: %w", err)
	}

	if n.WebhookURL != "" {
		if err := n.deliver(ctx, notificacion); err != nil {
			n.Logger.Warn("webhook delivery failed",
				zap.String("notificacion_id", notificacion.ID),
				zap.Error(err))
		}
	}

	return nil
}

func (n *Notifier) deliver(ctx context.Context, notificacion models.Notificacion) error {
	payload, err := json.Marshal(notificacion)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.WebhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", Sign(payload, n.WebhookSecret))

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook answered status %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 signature of a payload.
func Sign(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a payload against a signature in constant
// time.
func VerifySignature(payload []byte, secret, signature string) bool {
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// SetHTTPClient allows overriding the HTTP client for testing
func (n *Notifier) SetHTTPClient(client *http.Client) {
	n.httpClient = client
}
