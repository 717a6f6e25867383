package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DanielPopoola/notes-checkout/internal/config"
	"github.com/DanielPopoola/notes-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrMalformedOrder = errors.New("malformed order response")

// decodeOrder reads the configured fields out of the provider payload.
// A field that is absent or of the wrong type fails the whole order.
func decodeOrder(fields config.OrderFields, payload map[string]any, receipt string) (*domain.Order, error) {
	id, ok := payload[fields.ID].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: field %q must be a non-empty string", ErrMalformedOrder, fields.ID)
	}

	amount, err := decimalField(payload, fields.Amount)
	if err != nil {
		return nil, err
	}

	currency, ok := payload[fields.Currency].(string)
	if !ok || currency == "" {
		return nil, fmt.Errorf("%w: field %q must be a non-empty string", ErrMalformedOrder, fields.Currency)
	}

	return domain.NewOrder(id, domain.Money{Amount: amount, Currency: currency}, receipt, payload)
}

func decimalField(payload map[string]any, name string) (decimal.Decimal, error) {
	var raw string
	switch v := payload[name].(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = v
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: field %q must be numeric", ErrMalformedOrder, name)
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: field %q: %v", ErrMalformedOrder, name, err)
	}
	if !domain.AmountInRange(value) {
		return decimal.Decimal{}, fmt.Errorf("%w: field %q out of range", ErrMalformedOrder, name)
	}
	return value, nil
}
