package gateway

import "encoding/json"

type OrderRequest struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	Receipt  string      `json:"receipt"`
}

// ErrorResponse is the provider's error envelope.
type ErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Reason      string `json:"reason,omitempty"`
	} `json:"error"`
}
