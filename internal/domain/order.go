// Package domain holds the order, signature and verification rules of the checkout flow.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmountExponent bounds the decimal exponent of an amount in either direction.
// Wider exponents are never real prices and expand to enormous digit strings.
const MaxAmountExponent = 18

// AmountInRange reports whether the exponent of d is within MaxAmountExponent.
func AmountInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -MaxAmountExponent && exp <= MaxAmountExponent
}

// Money is an amount in the currency's smallest unit (paise for INR).
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney parses a numeric amount. Fractional amounts are kept as given;
// the provider decides whether it accepts them.
func NewMoney(amount, currency string) (Money, error) {
	if amount == "" {
		return Money{}, NewMissingRequiredFieldError("amount")
	}
	if currency == "" {
		return Money{}, NewMissingRequiredFieldError("currency")
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, NewInvalidAmountError(amount)
	}
	if !AmountInRange(value) || value.IsNegative() {
		return Money{}, NewInvalidAmountError(amount)
	}

	return Money{Amount: value, Currency: currency}, nil
}

// Order is a provider-side payment intent. Payload is the provider's response as received.
type Order struct {
	ID        string
	Amount    decimal.Decimal
	Currency  string
	Receipt   string
	CreatedAt time.Time
	Payload   map[string]any
}

func NewOrder(id string, amount Money, receipt string, payload map[string]any) (*Order, error) {
	if id == "" {
		return nil, NewMissingRequiredFieldError("order ID")
	}

	return &Order{
		ID:        id,
		Amount:    amount.Amount,
		Currency:  amount.Currency,
		Receipt:   receipt,
		CreatedAt: time.Now(),
		Payload:   payload,
	}, nil
}
