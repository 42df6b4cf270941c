package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fuelease-be/internal/logger"
	"fuelease-be/internal/metrics"

	"go.uber.org/zap"
)

const (
	defaultBaseURL   = "https://api.paystack.co"
	defaultTimeout   = 30 * time.Second
	defaultCurrency  = "GHS"
	maxResponseBytes = 1 << 20
)

type PaystackConfig struct {
	SecretKey string
	BaseURL   string
	Currency  string
	Timeout   time.Duration
}

type paystackGateway struct {
	secretKey  string
	baseURL    string
	currency   string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// ----------------- Constructor -----------------

func NewPaystackGateway(cfg PaystackConfig, m *metrics.Metrics) Gateway {
	if cfg.SecretKey == "" {
		logger.L().Warn("Paystack secret key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}

	return &paystackGateway{
		secretKey: cfg.SecretKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		currency:  cfg.Currency,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		metrics: m,
	}
}

// ----------------- Initialize -----------------

func (p *paystackGateway) Initialize(ctx context.Context, req InitializeRequest) Result[InitializeData] {
	log := logger.FromCtx(ctx).With(
		zap.String("reference", req.Reference),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("currency", p.currency),
	)
	started := time.Now()

	metadata := req.Metadata
	if metadata == nil {
		metadata = Metadata{}
	}

	body := map[string]any{
		"email":     req.Email,
		"amount":    ToMinorUnits(req.Amount),
		"reference": req.Reference,
		"metadata":  metadata,
		"currency":  p.currency,
	}

	log.Info("Initializing Paystack transaction")

	res := call[InitializeData](ctx, p, http.MethodPost, "/transaction/initialize", body, log)
	if data, ok := res.Ok(); ok && (data.AuthorizationURL == "" || data.AccessCode == "") {
		log.Error("Paystack response is missing authorization data")
		res = Failure[InitializeData](fmt.Errorf("%w: missing authorization_url or access_code", ErrMalformedResponse))
	}

	p.metrics.ObserveGateway("initialize", !res.Failed(), started)

	if data, ok := res.Ok(); ok {
		log.Info("Paystack transaction initialized", zap.String("access_code", data.AccessCode))
	}
	return res
}

// ----------------- Verify -----------------

func (p *paystackGateway) Verify(ctx context.Context, reference string) Result[VerifyData] {
	log := logger.FromCtx(ctx).With(zap.String("reference", reference))
	started := time.Now()

	res := call[VerifyData](ctx, p, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, log)
	p.metrics.ObserveGateway("verify", !res.Failed(), started)

	if data, ok := res.Ok(); ok {
		log.Info("Paystack transaction verified",
			zap.String("status", data.Status),
			zap.String("gateway_response", data.GatewayResponse),
		)
	}
	return res
}

// call performs one authenticated request. Success requires a 2xx status AND
// a truthy "status" flag in the body; everything else is a Failure.
func call[T any](
	ctx context.Context,
	p *paystackGateway,
	method, path string,
	payload any,
	log *zap.Logger,
) Result[T] {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			log.Error("Failed to marshal Paystack request", zap.Error(err))
			return Failure[T](fmt.Errorf("%w: encode request: %v", ErrGatewayRejected, err))
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return Failure[T](fmt.Errorf("%w: build request: %v", ErrGatewayUnavailable, err))
	}

	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Error("Paystack request failed", zap.Error(err))
		return Failure[T](fmt.Errorf("%w: %v", ErrGatewayUnavailable, err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return Failure[T](fmt.Errorf("%w: read response: %v", ErrGatewayUnavailable, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("Paystack returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return Failure[T](fmt.Errorf("%w: http status %d", ErrGatewayRejected, resp.StatusCode))
	}

	var env envelope[T]
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		log.Error("Failed decoding Paystack response", zap.Error(err))
		return Failure[T](fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}

	if !env.Status {
		log.Error("Paystack reported failure", zap.String("message", env.Message))
		return Failure[T](fmt.Errorf("%w: %s", ErrGatewayRejected, env.Message))
	}

	return Success(env.Data)
}
