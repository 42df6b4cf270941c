package transport

import (
	"net/http"

	"fuelease-be/internal/logger"
	"fuelease-be/internal/metrics"
	"fuelease-be/internal/middleware"
	"fuelease-be/internal/payment/webhook"

	"github.com/prometheus/client_golang/prometheus"
)

type RouterDeps struct {
	Handler  *Handler
	Webhook  *webhook.Handler
	Tokens   middleware.TokenParser
	Limiter  *middleware.RateLimiter
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter splits routes into three groups:
//   - /webhook/: no auth, no rate limit. The gateway must always get a 200.
//   - /verify-payment/: rate limited, no auth. Failures are reported in the body.
//   - everything else: optional auth, then rate limiting.
func NewRouter(d RouterDeps) http.Handler {
	h := d.Handler

	api := http.NewServeMux()
	api.HandleFunc("POST /orders", h.CreateOrder)
	api.HandleFunc("GET /orders", h.ListOrders)
	api.HandleFunc("GET /orders/{id}", h.GetOrder)
	api.HandleFunc("POST /auth/login", h.Login)
	api.HandleFunc("GET /fuel-prices", h.FuelPrices)
	api.HandleFunc("GET /test-paystack", h.TestPaystack)
	api.HandleFunc("GET /health", h.Health)
	if d.Gatherer != nil {
		api.Handle("GET /metrics", metrics.Handler(d.Gatherer))
	}

	verify := http.NewServeMux()
	verify.HandleFunc("GET /verify-payment/{reference}", h.VerifyPayment)

	hooks := http.NewServeMux()
	hooks.HandleFunc("POST /webhook/{provider}", d.Webhook.PaymentWebhookHandler)

	// MetricsMiddleware wraps each inner mux so r.Pattern is the matched route.
	withMetrics := middleware.MetricsMiddleware(d.Metrics)

	root := http.NewServeMux()
	root.Handle("/webhook/", withMetrics(hooks))
	root.Handle("/verify-payment/", rateLimited(d.Limiter, withMetrics(verify)))
	root.Handle("/", middleware.AuthMiddleware(d.Tokens)(rateLimited(d.Limiter, withMetrics(api))))

	var handler http.Handler = root
	handler = middleware.CORS(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	return handler
}

func rateLimited(l *middleware.RateLimiter, next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return l.Middleware(next)
}
