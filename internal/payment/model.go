package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProviderPaystack = "paystack"

	TransactionSuccess = "success"
)

type Metadata map[string]any

type InitializeRequest struct {
	Email     string
	Amount    decimal.Decimal
	Reference string
	Metadata  Metadata
}

type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyData struct {
	Status          string     `json:"status"`
	Reference       string     `json:"reference"`
	Amount          int64      `json:"amount"`
	Currency        string     `json:"currency"`
	GatewayResponse string     `json:"gateway_response"`
	PaidAt          *time.Time `json:"paid_at"`
}

// Succeeded reports whether the provider considers the charge complete.
func (v VerifyData) Succeeded() bool {
	return v.Status == TransactionSuccess
}

// envelope is the common shape of every Paystack API response.
type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ToMinorUnits converts a major-unit amount to the provider's integer
// representation (pesewas/kobo), rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
