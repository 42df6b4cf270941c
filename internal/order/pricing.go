package order

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps one order at a single road tanker load, in liters.
const MaxQuantity = 50000

var priceTable = map[FuelType]decimal.Decimal{
	FuelRegular: decimal.RequireFromString("12.50"),
	FuelPremium: decimal.RequireFromString("14.80"),
	FuelDiesel:  decimal.RequireFromString("13.20"),
}

// FuelTypes is the display order used by the price list.
var FuelTypes = []FuelType{FuelRegular, FuelPremium, FuelDiesel}

func ParseFuelType(s string) (FuelType, error) {
	ft := FuelType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := priceTable[ft]; !ok {
		return "", &ValidationError{
			Field:   "fuel_type",
			Message: fmt.Sprintf("unsupported fuel type %q, expected one of regular, premium, diesel", s),
			Err:     ErrInvalidFuelType,
		}
	}
	return ft, nil
}

// PricePerLiter returns the server-held unit price in GHS.
func PricePerLiter(ft FuelType) (decimal.Decimal, error) {
	price, ok := priceTable[ft]
	if !ok {
		return decimal.Zero, &ValidationError{
			Field:   "fuel_type",
			Message: fmt.Sprintf("no price configured for fuel type %q", ft),
			Err:     ErrInvalidFuelType,
		}
	}
	return price, nil
}

func TotalAmount(ft FuelType, quantity int) (price, total decimal.Decimal, err error) {
	if quantity <= 0 {
		return decimal.Zero, decimal.Zero, newValidationError("quantity", ErrInvalidQuantity)
	}
	if quantity > MaxQuantity {
		return decimal.Zero, decimal.Zero, &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("quantity must not exceed %d liters", MaxQuantity),
			Err:     ErrQuantityTooLarge,
		}
	}
	price, err = PricePerLiter(ft)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return price, price.Mul(decimal.NewFromInt(int64(quantity))), nil
}

type FuelPrice struct {
	FuelType      FuelType        `json:"fuel_type"`
	PricePerLiter decimal.Decimal `json:"price_per_liter"`
	Currency      string          `json:"currency"`
}

func PriceList(currency string) []FuelPrice {
	out := make([]FuelPrice, 0, len(FuelTypes))
	for _, ft := range FuelTypes {
		out = append(out, FuelPrice{FuelType: ft, PricePerLiter: priceTable[ft], Currency: currency})
	}
	return out
}
