package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/config"
	"github.com/DanielPopoola/notes-checkout/internal/domain"
)

var _ application.PaymentGateway = (*RazorpayClient)(nil)

type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	timeout    time.Duration
	fields     config.OrderFields
	httpClient *http.Client
}

func NewRazorpayClient(cfg config.GatewayConfig) *RazorpayClient {
	return &RazorpayClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		timeout:   cfg.Timeout,
		fields:    cfg.Fields,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateOrder opens an order for amount. The call is bounded by the configured timeout.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount domain.Money, receipt string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := OrderRequest{
		Amount:   json.Number(amount.Amount.String()),
		Currency: amount.Currency,
		Receipt:  receipt,
	}

	url := fmt.Sprintf("%s/v1/orders", c.baseURL)
	payload, err := sendRequest[OrderRequest, map[string]any](c, ctx, http.MethodPost, url, &req)
	if err != nil {
		return nil, err
	}

	return decodeOrder(c.fields, *payload, receipt)
}

func sendRequest[Req any, Resp any](c *RazorpayClient, ctx context.Context, method, url string, reqBody *Req) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Code == "" {
			return nil, &application.GatewayError{
				Code:       "unexpected_response",
				Message:    strings.TrimSpace(string(body)),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, &application.GatewayError{
			Code:       errResp.Error.Code,
			Message:    errResp.Error.Description,
			StatusCode: resp.StatusCode,
		}
	}

	var gatewayResp Resp
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&gatewayResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &gatewayResp, nil
}
