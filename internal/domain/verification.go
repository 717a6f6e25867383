package domain

import (
	"slices"
	"time"
)

// VerificationStatus is the position of a verify-payment request in its lifecycle
type VerificationStatus string

const (
	StatusReceived          VerificationStatus = "RECEIVED"
	StatusValidated         VerificationStatus = "VALIDATED"
	StatusValidationFailed  VerificationStatus = "VALIDATION_FAILED"
	StatusSignatureOK       VerificationStatus = "SIGNATURE_OK"
	StatusSignatureMismatch VerificationStatus = "SIGNATURE_MISMATCH"
	StatusEmailSent         VerificationStatus = "EMAIL_SENT"
	StatusEmailFailed       VerificationStatus = "EMAIL_FAILED"
)

// Verification tracks one payment callback from receipt to its terminal state.
type Verification struct {
	PaymentID string
	OrderID   string
	Signature string
	Email     string
	Status    VerificationStatus

	ReceivedAt  time.Time
	CompletedAt *time.Time
}

func NewVerification(paymentID, signature, email string) *Verification {
	return &Verification{
		PaymentID:  paymentID,
		Signature:  signature,
		Email:      email,
		Status:     StatusReceived,
		ReceivedAt: time.Now(),
	}
}

func (v *Verification) MarkValidated() error {
	return v.transition(StatusValidated)
}

func (v *Verification) FailValidation() error {
	return v.transition(StatusValidationFailed)
}

// CheckSignature recomputes the expected signature for orderID and records the outcome.
// An empty orderID never matches.
func (v *Verification) CheckSignature(orderID, secret string) (bool, error) {
	v.OrderID = orderID

	target := StatusSignatureMismatch
	if orderID != "" && VerifySignature(orderID, v.PaymentID, v.Signature, secret) {
		target = StatusSignatureOK
	}

	if err := v.transition(target); err != nil {
		return false, err
	}
	return target == StatusSignatureOK, nil
}

func (v *Verification) MarkEmailSent() error {
	return v.transition(StatusEmailSent)
}

func (v *Verification) MarkEmailFailed() error {
	return v.transition(StatusEmailFailed)
}

func (v *Verification) IsTerminal() bool {
	switch v.Status {
	case StatusValidationFailed, StatusSignatureMismatch, StatusEmailSent, StatusEmailFailed:
		return true
	default:
		return false
	}
}

func (v *Verification) transition(target VerificationStatus) error {
	if err := v.canTransitionTo(target); err != nil {
		return err
	}
	v.Status = target
	if v.IsTerminal() {
		now := time.Now()
		v.CompletedAt = &now
	}
	return nil
}

func (v *Verification) canTransitionTo(target VerificationStatus) error {
	switch v.Status {
	case StatusReceived:
		return v.allow(target, StatusValidated, StatusValidationFailed)
	case StatusValidated:
		return v.allow(target, StatusSignatureOK, StatusSignatureMismatch)
	case StatusSignatureOK:
		return v.allow(target, StatusEmailSent, StatusEmailFailed)
	}
	return ErrInvalidTransition
}

func (v *Verification) allow(target VerificationStatus, allowed ...VerificationStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return ErrInvalidTransition
}
