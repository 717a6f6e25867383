package services

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/domain"
)

type OrderService struct {
	gateway    application.PaymentGateway
	correlator application.OrderCorrelator
	currency   string
	receipt    string
	logger     *slog.Logger
}

func NewOrderService(
	gateway application.PaymentGateway,
	correlator application.OrderCorrelator,
	currency string,
	receipt string,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		gateway:    gateway,
		correlator: correlator,
		currency:   currency,
		receipt:    receipt,
		logger:     logger,
	}
}

// CreateOrder opens an order with the provider and makes it the one the next
// verification is checked against. Provider failures are not retried.
func (s *OrderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	money, err := domain.NewMoney(cmd.Amount, s.currency)
	if err != nil {
		return nil, application.NewValidationError([]application.FieldError{{
			Type:     "field",
			Value:    cmd.Amount,
			Msg:      err.Error(),
			Path:     "amount",
			Location: "body",
		}})
	}

	order, err := s.gateway.CreateOrder(ctx, money, s.receipt)
	if err != nil {
		s.logger.Error("error creating order",
			"amount", money.Amount.String(),
			"currency", money.Currency,
			"error_category", application.CategorizeError(err),
			"error", err)
		return nil, application.NewGatewayError(err)
	}

	if err := s.correlator.Remember(ctx, order); err != nil {
		s.logger.Error("failed to remember order", "order_id", order.ID, "error", err)
		return nil, application.NewInternalError(err)
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"amount", order.Amount.String(),
		"currency", order.Currency)

	return order, nil
}
