package order

import (
	"context"
	"time"

	"fuelease-be/internal/logger"
	"fuelease-be/internal/payment"

	"go.uber.org/zap"
)

type WorkerConfig struct {
	Interval time.Duration
	// After is how long an order must sit unconfirmed before it is polled.
	After time.Duration
	// Window bounds how old an order may be and still be polled.
	Window time.Duration
	Batch  int
}

// ReconciliationWorker polls the gateway for orders whose webhook never
// arrived and the client never verified. It only ever confirms; an order the
// gateway does not report as paid is left untouched.
type ReconciliationWorker struct {
	repo    Repository
	svc     Service
	gateway payment.Gateway
	cfg     WorkerConfig
	now     func() time.Time
}

func NewReconciliationWorker(
	repo Repository,
	svc Service,
	gateway payment.Gateway,
	cfg WorkerConfig,
) *ReconciliationWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}

	return &ReconciliationWorker{
		repo:    repo,
		svc:     svc,
		gateway: gateway,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (w *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	log := logger.L().With(zap.String("component", "reconciliation_worker"))
	log.Info("reconciliation worker started", zap.Duration("interval", w.cfg.Interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("reconciliation worker stopped")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil {
				log.Error("reconciliation pass failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single pass and returns how many orders it confirmed.
func (w *ReconciliationWorker) RunOnce(ctx context.Context) (int, error) {
	log := logger.L().With(zap.String("component", "reconciliation_worker"))

	now := w.now()
	orders, err := w.repo.ListAwaitingConfirmation(
		ctx,
		now.Add(-w.cfg.Window),
		now.Add(-w.cfg.After),
		w.cfg.Batch,
	)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	for _, o := range orders {
		if ctx.Err() != nil {
			return confirmed, ctx.Err()
		}
		if o.PaystackReference == nil {
			continue
		}
		reference := *o.PaystackReference
		octx := logger.WithOrderID(ctx, o.ID)

		data, ok := w.gateway.Verify(octx, reference).Ok()
		if !ok || !data.Succeeded() {
			continue
		}

		if _, _, err := w.svc.ConfirmPayment(octx, reference, SourceReconcile); err != nil {
			log.Warn("failed to confirm order",
				zap.Int64("order_id", o.ID),
				zap.String("reference", reference),
				zap.Error(err),
			)
			continue
		}
		confirmed++
	}

	if confirmed > 0 {
		log.Info("reconciliation pass confirmed orders",
			zap.Int("checked", len(orders)),
			zap.Int("confirmed", confirmed),
		)
	}

	return confirmed, nil
}
