package payment

import (
	"context"
	"database/sql"
	"encoding/json"
)

// WebhookRecord is one raw push notification as received from a provider.
type WebhookRecord struct {
	Provider  string
	Event     string
	Reference string
	Payload   json.RawMessage
}

// Repository keeps the audit trail of gateway push notifications.
type Repository interface {
	SaveWebhook(ctx context.Context, rec WebhookRecord) (webhookID int64, err error)

	// FinishWebhook stamps the record with how it was handled. processErr is
	// empty when the notification was applied, replayed or ignored.
	FinishWebhook(ctx context.Context, webhookID int64, outcome, processErr string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveWebhook(ctx context.Context, rec WebhookRecord) (int64, error) {
	const q = `
	INSERT INTO payment_webhooks (provider, event_type, reference, payload)
	VALUES ($1, $2, NULLIF($3, ''), $4)
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(ctx, q,
		rec.Provider,
		rec.Event,
		rec.Reference,
		[]byte(rec.Payload),
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *repository) FinishWebhook(ctx context.Context, webhookID int64, outcome, processErr string) error {
	const q = `
	UPDATE payment_webhooks
	SET processed_at = now(),
	    outcome = $2,
	    process_error = NULLIF($3, '')
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID, outcome, processErr)
	return err
}
