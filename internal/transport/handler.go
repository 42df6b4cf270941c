package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fuelease-be/internal/middleware"
	"fuelease-be/internal/order"
	"fuelease-be/internal/payment"
	"fuelease-be/internal/user"
	"fuelease-be/internal/utils"

	"github.com/shopspring/decimal"
)

const (
	maxBodyBytes  = 64 << 10
	healthTimeout = 2 * time.Second
)

var testAmount = decimal.NewFromInt(10)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	Orders        order.Service
	Users         user.Service
	TokenTTL      time.Duration
	Gateway       payment.Gateway
	DB            Pinger
	Currency      string
	SecureCookies bool
	now           func() time.Time
}

func (h *Handler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return badRequest("body", "invalid request body")
	}
	return nil
}

// ----------------- Orders -----------------

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input order.CreateOrderInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.Orders.CreateOrder(r.Context(), input, utils.UserIDPtrFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, order.ToOrderWithPaymentResponse(res))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseInt64(r.PathValue("id"))
	if err != nil {
		writeError(w, r, badRequest("order_id", "order id must be an integer"))
		return
	}

	o, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, order.ToOrderResponse(o))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	skip, err := utils.QueryInt(r, "skip", 0)
	if err != nil {
		writeError(w, r, badRequest("skip", "skip must be an integer"))
		return
	}
	limit, err := utils.QueryInt(r, "limit", order.DefaultPageSize)
	if err != nil {
		writeError(w, r, badRequest("limit", "limit must be an integer"))
		return
	}

	orders, err := h.Orders.ListOrders(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, order.ToOrderResponses(orders))
}

func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.Orders.VerifyPayment(r.Context(), r.PathValue("reference")))
}

// ----------------- Catalog / diagnostics -----------------

func (h *Handler) FuelPrices(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"currency":     h.Currency,
		"last_updated": h.clock().UTC().Format(time.RFC3339),
	}
	for _, p := range order.PriceList(h.Currency) {
		body[string(p.FuelType)] = p.PricePerLiter.InexactFloat64()
	}

	utils.WriteJSON(w, http.StatusOK, body)
}

// TestPaystack initializes a small throwaway transaction to check the
// configured keys. Its reference never carries the order prefix.
func (h *Handler) TestPaystack(w http.ResponseWriter, r *http.Request) {
	res := h.Gateway.Initialize(r.Context(), payment.InitializeRequest{
		Email:     "test@example.com",
		Amount:    testAmount,
		Reference: order.TestReference(),
		Metadata:  payment.Metadata{"test": true},
	})

	data, ok := res.Ok()
	if !ok {
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "error",
			"message": "Paystack connection failed. Check your API keys.",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"message":  "Paystack connection successful",
		"response": data,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.DB.PingContext(ctx); err != nil {
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DB_UNAVAILABLE"})
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// ----------------- Auth -----------------

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input user.LoginInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	token, u, err := h.Users.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSON(w, http.StatusOK, user.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.TokenTTL.Seconds()),
		User:        user.ToUserResponse(u),
	})
}
