package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wneessen/go-mail"
)

// TestClient wraps HTTP calls to the checkout service
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (c *TestClient) post(t *testing.T, path string, payload any) *Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}
}

func (c *TestClient) CreateOrder(t *testing.T, amount any) *Response {
	return c.post(t, "/create-order", map[string]any{"amount": amount})
}

func (c *TestClient) VerifyPayment(t *testing.T, paymentID, signature, email string) *Response {
	return c.post(t, "/verify-payment", map[string]string{
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
		"email":               email,
	})
}

// captureSender records messages instead of dialing an SMTP relay.
type captureSender struct {
	mu       sync.Mutex
	messages []*mail.Msg
	err      error
}

func (s *captureSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, messages...)
	return nil
}

func (s *captureSender) Sent() []*mail.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*mail.Msg(nil), s.messages...)
}

type TestRedis struct {
	Container testcontainers.Container
	Addr      string
}

func SetupTestRedis(t *testing.T) *TestRedis {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return &TestRedis{
		Container: container,
		Addr:      fmt.Sprintf("%s:%d", host, port.Int()),
	}
}

func (r *TestRedis) Cleanup(t *testing.T) {
	require.NoError(t, r.Container.Terminate(context.Background()))
}
