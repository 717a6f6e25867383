package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/notes-checkout/internal/application/services"
	"github.com/DanielPopoola/notes-checkout/internal/domain"
	"github.com/DanielPopoola/notes-checkout/internal/interfaces/rest"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, cmd services.CreateOrderCommand) (*domain.Order, error)
}

type PaymentVerifier interface {
	Verify(ctx context.Context, cmd services.VerifyPaymentCommand) (*domain.Verification, error)
}

type Handlers struct {
	orders         OrderCreator
	verifier       PaymentVerifier
	validator      *rest.Validator
	requireOrderID bool
	logger         *slog.Logger
}

// NewHandlers wires the HTTP surface. With requireOrderID set, verify-payment
// must name the order it pays for.
func NewHandlers(
	orders OrderCreator,
	verifier PaymentVerifier,
	requireOrderID bool,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		orders:         orders,
		verifier:       verifier,
		validator:      rest.NewValidator(),
		requireOrderID: requireOrderID,
		logger:         logger,
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /create-order", h.CreateOrder)
	mux.HandleFunc("POST /verify-payment", h.VerifyPayment)
	mux.HandleFunc("GET /health", h.Health)
}

func (h *Handlers) verifyRules() []rest.FieldRules {
	if !h.requireOrderID {
		return rest.VerifyPaymentRules
	}
	return append(append([]rest.FieldRules{}, rest.VerifyPaymentRules...), rest.OrderIDRules)
}

