package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"fuelease-be/internal/logger"
	"fuelease-be/internal/metrics"
	"fuelease-be/internal/order"
	"fuelease-be/internal/payment"
	"fuelease-be/internal/utils"

	"go.uber.org/zap"
)

const (
	EventChargeSuccess = "charge.success"

	maxPayloadBytes = 1 << 20
)

// Outcomes recorded per notification.
const (
	outcomeApplied          = "applied"
	outcomeDuplicate        = "duplicate"
	outcomeIgnored          = "ignored"
	outcomeMalformed        = "malformed"
	outcomeForeignReference = "foreign_reference"
	outcomeUnknownReference = "unknown_reference"
	outcomeError            = "error"
	outcomeUnknownProvider  = "unknown_provider"
)

// Notification is the Paystack push body.
type Notification struct {
	Event string           `json:"event"`
	Data  NotificationData `json:"data"`
}

// NotificationData reads only the reference; other data fields are ignored
// whatever their JSON type.
type NotificationData struct {
	Reference string `json:"reference"`
}

type Acknowledgement struct {
	Status string `json:"status"`
}

var ack = Acknowledgement{Status: "success"}

type Handler struct {
	OrderSvc order.Service
	Audit    payment.Repository
	metrics  *metrics.Metrics
}

func NewWebhookHandler(orderSvc order.Service, audit payment.Repository, m *metrics.Metrics) *Handler {
	return &Handler{
		OrderSvc: orderSvc,
		Audit:    audit,
		metrics:  m,
	}
}

// PaymentWebhookHandler always answers 200; the gateway treats anything
// else as a retry signal.
func (h *Handler) PaymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		logger.FromCtx(r.Context()).Warn("failed to read webhook body",
			zap.String("provider", provider),
			zap.Error(err),
		)
		h.metrics.WebhookReceived(provider, outcomeMalformed)
		utils.WriteJSON(w, http.StatusOK, ack)
		return
	}

	utils.WriteJSON(w, http.StatusOK, h.HandleNotification(r.Context(), provider, body))
}

// HandleNotification applies a push notification. Nothing it encounters is
// reported back to the caller as an error.
func (h *Handler) HandleNotification(ctx context.Context, provider string, raw []byte) Acknowledgement {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "webhook"),
		zap.String("provider", provider),
	)

	if provider != payment.ProviderPaystack {
		log.Warn("webhook for unsupported provider ignored")
		h.metrics.WebhookReceived(provider, outcomeUnknownProvider)
		return ack
	}

	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		log.Warn("unparseable webhook payload", zap.Error(err))
		h.metrics.WebhookReceived(provider, outcomeMalformed)
		return ack
	}
	log = log.With(zap.String("event", n.Event), zap.String("reference", n.Data.Reference))

	webhookID := h.saveAudit(ctx, log, provider, n, raw)

	outcome, err := h.apply(ctx, n)
	h.metrics.WebhookReceived(provider, outcome)

	switch {
	case err != nil:
		log.Error("failed to apply webhook", zap.Error(err))
		h.finish(ctx, log, webhookID, outcome, err.Error())
	case outcome == outcomeForeignReference || outcome == outcomeUnknownReference:
		log.Info("webhook not applied", zap.String("outcome", outcome))
		h.finish(ctx, log, webhookID, outcome, "reference does not match an order")
	default:
		log.Info("webhook processed", zap.String("outcome", outcome))
		h.finish(ctx, log, webhookID, outcome, "")
	}

	return ack
}

func (h *Handler) apply(ctx context.Context, n Notification) (string, error) {
	if n.Event != EventChargeSuccess {
		return outcomeIgnored, nil
	}

	if !order.HasReferencePrefix(n.Data.Reference) {
		return outcomeForeignReference, nil
	}

	_, changed, err := h.OrderSvc.ConfirmPayment(ctx, n.Data.Reference, order.SourceWebhook)
	if errors.Is(err, order.ErrOrderNotFound) {
		return outcomeUnknownReference, nil
	}
	if err != nil {
		return outcomeError, err
	}

	if !changed {
		return outcomeDuplicate, nil
	}
	return outcomeApplied, nil
}

func (h *Handler) saveAudit(ctx context.Context, log *zap.Logger, provider string, n Notification, raw []byte) int64 {
	if h.Audit == nil {
		return 0
	}

	id, err := h.Audit.SaveWebhook(ctx, payment.WebhookRecord{
		Provider:  provider,
		Event:     n.Event,
		Reference: n.Data.Reference,
		Payload:   json.RawMessage(raw),
	})
	if err != nil {
		log.Warn("failed to save webhook audit record", zap.Error(err))
		return 0
	}
	return id
}

func (h *Handler) finish(ctx context.Context, log *zap.Logger, webhookID int64, outcome, processErr string) {
	if h.Audit == nil || webhookID == 0 {
		return
	}
	if err := h.Audit.FinishWebhook(ctx, webhookID, outcome, processErr); err != nil {
		log.Warn("failed to update webhook audit record", zap.Int64("webhook_id", webhookID), zap.Error(err))
	}
}
