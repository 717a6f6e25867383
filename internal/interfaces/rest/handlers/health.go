package handlers

import (
	"net/http"

	"github.com/DanielPopoola/notes-checkout/internal/interfaces/rest"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	rest.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
