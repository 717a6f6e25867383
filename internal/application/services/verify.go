package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/domain"
)

type VerificationService struct {
	correlator application.OrderCorrelator
	notifier   application.Notifier
	secret     string
	logger     *slog.Logger
}

func NewVerificationService(
	correlator application.OrderCorrelator,
	notifier application.Notifier,
	secret string,
	logger *slog.Logger,
) *VerificationService {
	return &VerificationService{
		correlator: correlator,
		notifier:   notifier,
		secret:     secret,
		logger:     logger,
	}
}

// Verify checks the payer's signature against the correlated order and, on a
// match, emails the confirmation. The returned verification carries the terminal
// state even when an error is returned.
func (s *VerificationService) Verify(ctx context.Context, cmd VerifyPaymentCommand) (*domain.Verification, error) {
	v := domain.NewVerification(cmd.PaymentID, cmd.Signature, cmd.Email)
	if err := v.MarkValidated(); err != nil {
		return v, application.NewInternalError(err)
	}

	orderID, err := s.correlator.Resolve(ctx, cmd.OrderID)
	if err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
		return v, application.NewInternalError(err)
	}
	if orderID == "" {
		s.logger.Warn("no order to verify against",
			"payment_id", cmd.PaymentID,
			"requested_order_id", cmd.OrderID)
	}

	ok, err := v.CheckSignature(orderID, s.secret)
	if err != nil {
		return v, application.NewInternalError(err)
	}
	if !ok {
		s.logger.Warn("payment signature mismatch",
			"payment_id", cmd.PaymentID,
			"order_id", orderID)
		return v, application.NewSignatureMismatchError()
	}

	if err := s.notifier.SendConfirmation(ctx, cmd.Email, cmd.PaymentID); err != nil {
		_ = v.MarkEmailFailed()
		s.logger.Error("error sending email",
			"payment_id", cmd.PaymentID,
			"order_id", orderID,
			"error_category", application.CategorizeError(err),
			"error", err)
		return v, application.NewDeliveryError(err)
	}

	if err := v.MarkEmailSent(); err != nil {
		return v, application.NewInternalError(err)
	}

	s.logger.Info("payment verified",
		"payment_id", cmd.PaymentID,
		"order_id", orderID,
		"status", v.Status)

	return v, nil
}
