package domain_test

import (
	"testing"

	"github.com/DanielPopoola/notes-checkout/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	got := domain.Sign("order_1", "pay_1", "secret")

	assert.Len(t, got, 64)
	assert.Equal(t, got, domain.Sign("order_1", "pay_1", "secret"))
	assert.NotEqual(t, got, domain.Sign("order_1", "pay_2", "secret"))
	assert.NotEqual(t, got, domain.Sign("order_1", "pay_1", "other"))
}

func TestVerifySignature_Reflexive(t *testing.T) {
	cases := []struct {
		orderID, paymentID, secret string
	}{
		{"order_O1", "pay_P1", "secret"},
		{"", "", ""},
		{"order_Lw7x|pipe", "pay_ünïcode", "k3y with spaces"},
		{"O1", "P1", "a-very-long-secret-value-used-for-signing-orders-0123456789"},
	}

	for _, tc := range cases {
		sig := domain.Sign(tc.orderID, tc.paymentID, tc.secret)
		assert.True(t, domain.VerifySignature(tc.orderID, tc.paymentID, sig, tc.secret))
	}
}

func TestVerifySignature_SingleCharacterMutation(t *testing.T) {
	sig := domain.Sign("order_O1", "pay_P1", "secret")

	for i := range sig {
		for _, c := range "0123456789abcdefX" {
			if byte(c) == sig[i] {
				continue
			}
			mutated := sig[:i] + string(c) + sig[i+1:]
			assert.False(t, domain.VerifySignature("order_O1", "pay_P1", mutated, "secret"),
				"mutation at %d to %q must not verify", i, c)
		}
	}
}

func TestVerifySignature_RejectsCaseAndLengthChanges(t *testing.T) {
	sig := domain.Sign("order_O1", "pay_P1", "secret")

	assert.False(t, domain.VerifySignature("order_O1", "pay_P1", "", "secret"))
	assert.False(t, domain.VerifySignature("order_O1", "pay_P1", sig[:63], "secret"))
	assert.False(t, domain.VerifySignature("order_O1", "pay_P1", sig+"0", "secret"))
}
