package transport

import (
	"errors"
	"net/http"

	"fuelease-be/internal/logger"
	"fuelease-be/internal/order"
	"fuelease-be/internal/user"
	"fuelease-be/internal/utils"

	"go.uber.org/zap"
)

// writeError maps domain errors to HTTP status codes. Anything unmapped is
// logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr  *order.ValidationError
		paymentInitErr *order.PaymentInitError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.WriteJSONError(w, validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &paymentInitErr):
		logger.FromCtx(r.Context()).Warn("payment initialization failed", zap.Error(paymentInitErr.Reason))
		utils.WriteJSONError(w, paymentInitErr.Error(), http.StatusBadRequest)
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteJSONError(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, user.ErrInvalidCredentials):
		utils.WriteJSONError(w, "Incorrect email or password", http.StatusUnauthorized)
	case errors.Is(err, user.ErrInactiveUser):
		utils.WriteJSONError(w, "Inactive user", http.StatusBadRequest)
	default:
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func badRequest(field, message string) error {
	return &order.ValidationError{Field: field, Message: message}
}
