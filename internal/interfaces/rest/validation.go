package rest

import (
	"bytes"
	"encoding/json"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/domain"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"
)

// Rule is one validator tag and the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// FieldRules is the rule chain for one body field. Every failing rule is reported.
type FieldRules struct {
	Field string
	Rules []Rule
}

var CreateOrderRules = []FieldRules{
	{Field: "amount", Rules: []Rule{
		{Tag: "numeric", Message: "Amount must be a number"},
		{Tag: "required", Message: "Amount is required"},
	}},
}

var VerifyPaymentRules = []FieldRules{
	{Field: "razorpay_payment_id", Rules: []Rule{
		{Tag: "required", Message: "razorpay_payment_id is required"},
	}},
	{Field: "razorpay_signature", Rules: []Rule{
		{Tag: "required", Message: "razorpay_signature is required"},
	}},
	{Field: "email", Rules: []Rule{
		{Tag: "email", Message: "A valid email is required"},
		{Tag: "required", Message: "Email is required"},
	}},
}

// OrderIDRules is appended to VerifyPaymentRules when orders are looked up by id.
var OrderIDRules = FieldRules{Field: "razorpay_order_id", Rules: []Rule{
	{Tag: "required", Message: "razorpay_order_id is required"},
}}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Check runs every rule against body in declaration order and returns the failures.
func (v *Validator) Check(body Body, fields []FieldRules) []application.FieldError {
	var failures []application.FieldError

	for _, field := range fields {
		value, text := fieldValue(body[field.Field])
		for _, rule := range field.Rules {
			if err := v.validate.Var(text, rule.Tag); err == nil {
				continue
			}
			failures = append(failures, application.FieldError{
				Type:     "field",
				Value:    value,
				Msg:      rule.Message,
				Path:     field.Field,
				Location: "body",
			})
		}
	}

	return failures
}

// fieldValue returns the decoded value for error reports and the text the rules run on.
// Absent and null fields are empty; numbers are normalised so 5e2 reads as 500.
func fieldValue(raw json.RawMessage) (any, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw), string(raw)
		}
		return s, s
	case '{', '[':
		var v any
		_ = json.Unmarshal(raw, &v)
		return v, string(raw)
	case 't', 'f':
		return string(raw) == "true", string(raw)
	}

	// Exponent literals are expanded only inside the amount range; anything
	// else keeps its raw text, which the numeric rule rejects.
	num := json.Number(raw)
	if d, err := decimal.NewFromString(num.String()); err == nil && domain.AmountInRange(d) {
		return num, d.String()
	}
	return num, num.String()
}
