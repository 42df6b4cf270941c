package order

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"fuelease-be/internal/events"
	"fuelease-be/internal/logger"
	"fuelease-be/internal/metrics"
	"fuelease-be/internal/payment"

	"go.uber.org/zap"
)

type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput, userID *int64) (*CreateOrderResult, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	ListOrders(ctx context.Context, skip, limit int) ([]*Order, error)

	// VerifyPayment never returns an error; every failure is reported as
	// VerifyFailed with no state change.
	VerifyPayment(ctx context.Context, reference string) VerifyResult

	// ConfirmPayment applies the confirmed/successful transition for a
	// reference. It is idempotent; changed is false on replays.
	ConfirmPayment(ctx context.Context, reference string, source ConfirmSource) (orderID int64, changed bool, err error)
}

type service struct {
	repo      Repository
	gateway   payment.Gateway
	publisher events.Publisher
	metrics   *metrics.Metrics

	newReference func(orderID int64) string
	now          func() time.Time
}

func NewService(
	repo Repository,
	gateway payment.Gateway,
	publisher events.Publisher,
	m *metrics.Metrics,
) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &service{
		repo:         repo,
		gateway:      gateway,
		publisher:    publisher,
		metrics:      m,
		newReference: NewReference,
		now:          time.Now,
	}
}

func (s *service) CreateOrder(
	ctx context.Context,
	input CreateOrderInput,
	userID *int64,
) (*CreateOrderResult, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.String("fuel_type", input.FuelType),
		zap.Int("quantity", input.Quantity),
	)

	order, err := buildOrder(input, userID)
	if err != nil {
		log.Info("order input rejected", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Create(ctx, order); err != nil {
		log.Error("failed to persist order", zap.Error(err))
		return nil, fmt.Errorf("create order: %w", err)
	}
	ctx = logger.WithOrderID(ctx, order.ID)
	log = log.With(zap.Int64("order_id", order.ID))

	reference := s.newReference(order.ID)
	email := PlaceholderEmail(order.ID)
	if order.Email != nil {
		email = *order.Email
	}

	res := s.gateway.Initialize(ctx, payment.InitializeRequest{
		Email:     email,
		Amount:    order.TotalAmount,
		Reference: reference,
		Metadata: payment.Metadata{
			"order_id":         order.ID,
			"fuel_type":        string(order.FuelType),
			"quantity":         order.Quantity,
			"delivery_address": order.DeliveryAddress,
		},
	})

	data, ok := res.Ok()
	if !ok {
		log.Warn("payment initialization failed, removing order", zap.Error(res.Reason()))
		s.compensate(ctx, order.ID)
		s.metrics.PaymentInitFailed()
		return nil, &PaymentInitError{Reason: res.Reason()}
	}

	if data.Reference != "" {
		reference = data.Reference
	}

	if err := s.repo.AttachPayment(ctx, order.ID, reference, data.AccessCode); err != nil {
		log.Error("failed to attach payment reference, removing order", zap.Error(err))
		s.compensate(ctx, order.ID)
		return nil, fmt.Errorf("attach payment reference: %w", err)
	}

	order.PaystackReference = &reference
	if data.AccessCode != "" {
		accessCode := data.AccessCode
		order.PaystackAccessCode = &accessCode
	}
	order.UpdatedAt = s.now()

	s.metrics.OrderCreated(string(order.FuelType))
	log.Info("order created", zap.String("reference", reference))

	return &CreateOrderResult{
		Order:      order,
		PaymentURL: data.AuthorizationURL,
	}, nil
}

// compensate deletes the order even if the request context is already gone.
func (s *service) compensate(ctx context.Context, orderID int64) {
	if err := s.repo.Delete(context.WithoutCancel(ctx), orderID); err != nil {
		logger.FromCtx(ctx).Error("compensating delete failed",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
	}
}

func buildOrder(input CreateOrderInput, userID *int64) (*Order, error) {
	phone := strings.TrimSpace(input.PhoneNumber)
	if phone == "" {
		return nil, &ValidationError{Field: "phone_number", Message: "phone number is required"}
	}

	address := strings.TrimSpace(input.DeliveryAddress)
	if address == "" {
		return nil, &ValidationError{Field: "delivery_address", Message: "delivery address is required"}
	}

	deliveryTime := strings.TrimSpace(input.DeliveryTime)
	if deliveryTime == "" {
		return nil, &ValidationError{Field: "delivery_time", Message: "delivery time is required"}
	}

	var email *string
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		addr, err := mail.ParseAddress(strings.TrimSpace(*input.Email))
		if err != nil {
			return nil, &ValidationError{Field: "email", Message: "invalid email address", Err: err}
		}
		email = &addr.Address
	}

	fuelType, err := ParseFuelType(input.FuelType)
	if err != nil {
		return nil, err
	}

	price, total, err := TotalAmount(fuelType, input.Quantity)
	if err != nil {
		return nil, err
	}

	return &Order{
		UserID:          userID,
		PhoneNumber:     phone,
		Email:           email,
		DeliveryAddress: address,
		FuelType:        fuelType,
		Quantity:        input.Quantity,
		PricePerLiter:   price,
		TotalAmount:     total,
		DeliveryTime:    deliveryTime,
		OrderStatus:     StatusPending,
		PaymentStatus:   PaymentPending,
	}, nil
}

func (s *service) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) ListOrders(ctx context.Context, skip, limit int) ([]*Order, error) {
	skip, limit = normalizePage(skip, limit)
	return s.repo.List(ctx, skip, limit)
}

func (s *service) VerifyPayment(ctx context.Context, reference string) VerifyResult {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "VerifyPayment"),
		zap.String("reference", reference),
	)

	failed := VerifyResult{Status: VerifyFailed}

	if strings.TrimSpace(reference) == "" {
		return failed
	}

	data, ok := s.gateway.Verify(ctx, reference).Ok()
	if !ok {
		log.Info("payment verification failed at gateway")
		return failed
	}

	if !data.Succeeded() {
		log.Info("transaction not successful", zap.String("gateway_status", data.Status))
		return failed
	}

	orderID, _, err := s.ConfirmPayment(ctx, reference, SourceVerify)
	if err != nil {
		if !errors.Is(err, ErrOrderNotFound) {
			log.Error("failed to confirm order", zap.Error(err))
		}
		return failed
	}

	return VerifyResult{Status: VerifySuccess, OrderID: &orderID}
}

func (s *service) ConfirmPayment(ctx context.Context, reference string, source ConfirmSource) (int64, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmPayment"),
		zap.String("reference", reference),
		zap.String("source", string(source)),
	)

	orderID, changed, err := s.repo.ConfirmByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Info("no order for reference")
		}
		return 0, false, err
	}

	if !changed {
		log.Debug("order already confirmed", zap.Int64("order_id", orderID))
		return orderID, false, nil
	}

	s.metrics.OrderConfirmed(string(source))
	log.Info("order confirmed", zap.Int64("order_id", orderID))

	err = s.publisher.PublishOrderConfirmed(ctx, events.OrderConfirmed{
		Event:       events.EventOrderConfirmed,
		OrderID:     orderID,
		Reference:   reference,
		Source:      string(source),
		ConfirmedAt: s.now().UTC(),
	})
	if err != nil {
		log.Warn("failed to publish order confirmed event", zap.Error(err))
	}

	return orderID, true, nil
}
