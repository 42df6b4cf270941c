package order

import "time"

type OrderResponse struct {
	ID                int64         `json:"id"`
	UserID            *int64        `json:"user_id"`
	PhoneNumber       string        `json:"phone_number"`
	Email             *string       `json:"email"`
	DeliveryAddress   string        `json:"delivery_address"`
	FuelType          FuelType      `json:"fuel_type"`
	Quantity          int           `json:"quantity"`
	PricePerLiter     float64       `json:"price_per_liter"`
	TotalAmount       float64       `json:"total_amount"`
	DeliveryTime      string        `json:"delivery_time"`
	OrderStatus       OrderStatus   `json:"order_status"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	PaystackReference *string       `json:"paystack_reference"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

type OrderWithPaymentResponse struct {
	Order      *OrderResponse `json:"order"`
	PaymentURL string         `json:"payment_url"`
}

// ToOrderResponse drops the access code, which only the checkout page needs.
func ToOrderResponse(o *Order) *OrderResponse {
	if o == nil {
		return nil
	}

	return &OrderResponse{
		ID:                o.ID,
		UserID:            o.UserID,
		PhoneNumber:       o.PhoneNumber,
		Email:             o.Email,
		DeliveryAddress:   o.DeliveryAddress,
		FuelType:          o.FuelType,
		Quantity:          o.Quantity,
		PricePerLiter:     o.PricePerLiter.InexactFloat64(),
		TotalAmount:       o.TotalAmount.InexactFloat64(),
		DeliveryTime:      o.DeliveryTime,
		OrderStatus:       o.OrderStatus,
		PaymentStatus:     o.PaymentStatus,
		PaystackReference: o.PaystackReference,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func ToOrderResponses(orders []*Order) []*OrderResponse {
	out := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

func ToOrderWithPaymentResponse(res *CreateOrderResult) *OrderWithPaymentResponse {
	if res == nil {
		return nil
	}
	return &OrderWithPaymentResponse{
		Order:      ToOrderResponse(res.Order),
		PaymentURL: res.PaymentURL,
	}
}
