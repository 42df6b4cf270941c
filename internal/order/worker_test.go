package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"fuelease-be/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateOrder(ctx context.Context, input CreateOrderInput, userID *int64) (*CreateOrderResult, error) {
	args := m.Called(ctx, input, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreateOrderResult), args.Error(1)
}

func (m *MockService) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockService) ListOrders(ctx context.Context, skip, limit int) ([]*Order, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockService) VerifyPayment(ctx context.Context, reference string) VerifyResult {
	return m.Called(ctx, reference).Get(0).(VerifyResult)
}

func (m *MockService) ConfirmPayment(ctx context.Context, reference string, source ConfirmSource) (int64, bool, error) {
	args := m.Called(ctx, reference, source)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func ref(s string) *string { return &s }

func TestReconciliationWorker_RunOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := WorkerConfig{Interval: time.Minute, After: 5 * time.Minute, Window: 24 * time.Hour, Batch: 10}

	t.Run("ConfirmsOnlyPaidOrders", func(t *testing.T) {
		repo := new(MockRepository)
		svc := new(MockService)
		gw := new(MockGateway)
		ctx := context.Background()

		w := NewReconciliationWorker(repo, svc, gw, cfg)
		w.now = func() time.Time { return now }

		repo.On("ListAwaitingConfirmation", ctx, now.Add(-24*time.Hour), now.Add(-5*time.Minute), 10).
			Return([]*Order{
				{ID: 1, PaystackReference: ref("FUE_1_aaaaaaaa")},
				{ID: 2, PaystackReference: ref("FUE_2_bbbbbbbb")},
				{ID: 3, PaystackReference: ref("FUE_3_cccccccc")},
				{ID: 4},
			}, nil)

		gw.On("Verify", orderCtx(1), "FUE_1_aaaaaaaa").Return(payment.Success(payment.VerifyData{Status: "success"}))
		gw.On("Verify", orderCtx(2), "FUE_2_bbbbbbbb").Return(payment.Success(payment.VerifyData{Status: "abandoned"}))
		gw.On("Verify", orderCtx(3), "FUE_3_cccccccc").Return(payment.Failure[payment.VerifyData](payment.ErrGatewayUnavailable))

		svc.On("ConfirmPayment", orderCtx(1), "FUE_1_aaaaaaaa", SourceReconcile).Return(int64(1), true, nil)

		confirmed, err := w.RunOnce(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, confirmed)
		svc.AssertNumberOfCalls(t, "ConfirmPayment", 1)
		gw.AssertNumberOfCalls(t, "Verify", 3)
	})

	t.Run("ConfirmErrorSkipsOrder", func(t *testing.T) {
		repo := new(MockRepository)
		svc := new(MockService)
		gw := new(MockGateway)
		ctx := context.Background()

		w := NewReconciliationWorker(repo, svc, gw, cfg)
		w.now = func() time.Time { return now }

		repo.On("ListAwaitingConfirmation", ctx, mock.Anything, mock.Anything, 10).
			Return([]*Order{{ID: 1, PaystackReference: ref("FUE_1_aaaaaaaa")}}, nil)
		gw.On("Verify", orderCtx(1), "FUE_1_aaaaaaaa").Return(payment.Success(payment.VerifyData{Status: "success"}))
		svc.On("ConfirmPayment", orderCtx(1), "FUE_1_aaaaaaaa", SourceReconcile).Return(int64(0), false, errors.New("db down"))

		confirmed, err := w.RunOnce(ctx)

		require.NoError(t, err)
		assert.Zero(t, confirmed)
	})

	t.Run("ListError", func(t *testing.T) {
		repo := new(MockRepository)
		w := NewReconciliationWorker(repo, new(MockService), new(MockGateway), cfg)

		repo.On("ListAwaitingConfirmation", mock.Anything, mock.Anything, mock.Anything, 10).
			Return(nil, errors.New("db down"))

		_, err := w.RunOnce(context.Background())
		assert.EqualError(t, err, "db down")
	})
}

func TestReconciliationWorker_Defaults(t *testing.T) {
	w := NewReconciliationWorker(nil, nil, nil, WorkerConfig{})

	assert.Equal(t, time.Minute, w.cfg.Interval)
	assert.Equal(t, 50, w.cfg.Batch)
}

func TestReconciliationWorker_RunStopsOnCancel(t *testing.T) {
	polled := make(chan struct{}, 1)
	repo := new(MockRepository)
	repo.On("ListAwaitingConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case polled <- struct{}{}:
			default:
			}
		}).
		Return([]*Order{}, nil)

	w := NewReconciliationWorker(repo, new(MockService), new(MockGateway), WorkerConfig{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("worker never polled")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
