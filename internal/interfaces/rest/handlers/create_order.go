package handlers

import (
	"net/http"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/application/services"
	"github.com/DanielPopoola/notes-checkout/internal/interfaces/rest"
)

// CreateOrder answers with the provider's order object as it was returned.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := rest.DecodeBody(w, r)
	if err != nil {
		h.logger.Warn("malformed request body", "path", r.URL.Path, "error", err)
		rest.WriteError(w, malformedBodyError(), h.logger)
		return
	}

	if failures := h.validator.Check(body, rest.CreateOrderRules); len(failures) > 0 {
		rest.WriteError(w, application.NewValidationError(failures), h.logger)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), services.CreateOrderCommand{
		Amount: body.String("amount"),
	})
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, order.Payload)
}

func malformedBodyError() error {
	return application.NewValidationError([]application.FieldError{{
		Type:     "body",
		Msg:      "Request body must be a JSON object",
		Location: "body",
	}})
}
