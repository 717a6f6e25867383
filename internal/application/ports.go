package application

import (
	"context"

	"github.com/DanielPopoola/notes-checkout/internal/domain"
)

// PaymentGateway is the port for the external payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount domain.Money, receipt string) (*domain.Order, error)
}

// Notifier delivers the confirmation email for a verified payment.
type Notifier interface {
	SendConfirmation(ctx context.Context, recipient, paymentID string) error
}

// OrderCorrelator links a verification request to the order it pays for.
type OrderCorrelator interface {
	Remember(ctx context.Context, order *domain.Order) error
	// Resolve returns the order id a verification must be checked against.
	// requestedID is the id supplied by the client, empty when it sent none.
	Resolve(ctx context.Context, requestedID string) (string, error)
}
