package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	orderIDKey
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithOrderID tags everything logged below ctx, including gateway calls, with
// the order being worked on.
func WithOrderID(ctx context.Context, orderID int64) context.Context {
	return context.WithValue(ctx, orderIDKey, orderID)
}

func OrderIDFrom(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(orderIDKey).(int64)
	return v, ok
}

// FromCtx returns the global logger tagged with the request and order ids
// carried by ctx.
func FromCtx(ctx context.Context) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if reqID := RequestIDFrom(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if orderID, ok := OrderIDFrom(ctx); ok {
		fields = append(fields, zap.Int64("order_id", orderID))
	}

	if len(fields) == 0 {
		return L()
	}
	return L().With(fields...)
}
