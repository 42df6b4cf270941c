package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type FuelType string

const (
	FuelRegular FuelType = "regular"
	FuelPremium FuelType = "premium"
	FuelDiesel  FuelType = "diesel"
)

type OrderStatus string

// Only pending and confirmed are driven by this service. The delivery
// statuses are stored and returned as-is.
const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusEnRoute    OrderStatus = "en_route"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentSuccessful PaymentStatus = "successful"
	PaymentFailed     PaymentStatus = "failed"
)

type Order struct {
	ID                 int64
	UserID             *int64
	PhoneNumber        string
	Email              *string
	DeliveryAddress    string
	FuelType           FuelType
	Quantity           int
	PricePerLiter      decimal.Decimal
	TotalAmount        decimal.Decimal
	DeliveryTime       string
	OrderStatus        OrderStatus
	PaymentStatus      PaymentStatus
	PaystackReference  *string
	PaystackAccessCode *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type CreateOrderInput struct {
	PhoneNumber     string  `json:"phone_number"`
	Email           *string `json:"email,omitempty"`
	DeliveryAddress string  `json:"delivery_address"`
	FuelType        string  `json:"fuel_type"`
	Quantity        int     `json:"quantity"`
	DeliveryTime    string  `json:"delivery_time"`
}

type CreateOrderResult struct {
	Order      *Order
	PaymentURL string
}

type VerifyStatus string

const (
	VerifySuccess VerifyStatus = "success"
	VerifyFailed  VerifyStatus = "failed"
)

type VerifyResult struct {
	Status  VerifyStatus `json:"status"`
	OrderID *int64       `json:"order_id,omitempty"`
}

// ConfirmSource labels which reconciliation path confirmed an order.
type ConfirmSource string

const (
	SourceWebhook   ConfirmSource = "webhook"
	SourceVerify    ConfirmSource = "verify"
	SourceReconcile ConfirmSource = "reconcile"
)
