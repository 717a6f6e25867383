package handlers

import (
	"net/http"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/application/services"
	"github.com/DanielPopoola/notes-checkout/internal/domain"
	"github.com/DanielPopoola/notes-checkout/internal/interfaces/rest"
)

const verifiedMessage = "Payment verified successfully"

func (h *Handlers) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	body, err := rest.DecodeBody(w, r)
	if err != nil {
		h.logger.Warn("malformed request body", "path", r.URL.Path, "error", err)
		rest.WriteError(w, malformedBodyError(), h.logger)
		return
	}

	cmd := services.VerifyPaymentCommand{
		OrderID:   body.String("razorpay_order_id"),
		PaymentID: body.String("razorpay_payment_id"),
		Signature: body.String("razorpay_signature"),
		Email:     body.String("email"),
	}

	if failures := h.validator.Check(body, h.verifyRules()); len(failures) > 0 {
		v := domain.NewVerification(cmd.PaymentID, cmd.Signature, cmd.Email)
		_ = v.FailValidation()
		h.logger.Warn("verify-payment rejected",
			"payment_id", cmd.PaymentID,
			"status", v.Status,
			"failures", len(failures))
		rest.WriteError(w, application.NewValidationError(failures), h.logger)
		return
	}

	if _, err := h.verifier.Verify(r.Context(), cmd); err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ResultResponse{Success: true, Message: verifiedMessage})
}
