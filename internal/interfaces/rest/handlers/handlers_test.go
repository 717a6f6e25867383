package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/DanielPopoola/notes-checkout/internal/application"
	"github.com/DanielPopoola/notes-checkout/internal/application/mocks"
	"github.com/DanielPopoola/notes-checkout/internal/application/services"
	"github.com/DanielPopoola/notes-checkout/internal/domain"
	"github.com/DanielPopoola/notes-checkout/internal/infrastructure/persistence/memory"
	"github.com/DanielPopoola/notes-checkout/internal/interfaces/rest"
	"github.com/DanielPopoola/notes-checkout/internal/interfaces/rest/handlers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	secret  = "test-secret"
	receipt = "Swagatam Railway Study Center"
)

type testServer struct {
	mux      *http.ServeMux
	gateway  *mocks.MockPaymentGateway
	notifier *mocks.MockNotifier
}

func newTestServer(t *testing.T, correlator application.OrderCorrelator, requireOrderID bool) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gateway := mocks.NewMockPaymentGateway(t)
	notifier := mocks.NewMockNotifier(t)

	h := handlers.NewHandlers(
		services.NewOrderService(gateway, correlator, "INR", receipt, logger),
		services.NewVerificationService(correlator, notifier, secret, logger),
		requireOrderID,
		logger,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	return &testServer{mux: mux, gateway: gateway, notifier: notifier}
}

func (s *testServer) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func providerOrder(id string, amount int64) *domain.Order {
	money := domain.Money{Amount: decimal.NewFromInt(amount), Currency: "INR"}
	order, _ := domain.NewOrder(id, money, receipt, map[string]any{
		"id":       id,
		"entity":   "order",
		"amount":   json.Number("500"),
		"currency": "INR",
		"receipt":  receipt,
		"status":   "created",
	})
	return order
}

func verifyBody(orderID, paymentID, signature, email string) string {
	body := map[string]string{
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
		"email":               email,
	}
	if orderID != "" {
		body["razorpay_order_id"] = orderID
	}
	b, _ := json.Marshal(body)
	return string(b)
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) rest.ValidationResponse {
	t.Helper()
	var resp rest.ValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCheckoutFlow(t *testing.T) {
	srv := newTestServer(t, memory.NewLastOrderSlot(), false)

	srv.gateway.EXPECT().
		CreateOrder(mock.Anything, mock.MatchedBy(func(m domain.Money) bool {
			return m.Amount.Equal(decimal.NewFromInt(500))
		}), receipt).
		Return(providerOrder("order_O1", 500), nil).
		Once()
	srv.notifier.EXPECT().
		SendConfirmation(mock.Anything, "payer@example.com", "pay_P1").
		Return(nil).
		Once()

	rec := srv.post(t, "/create-order", `{"amount":500}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var order map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "order_O1", order["id"])
	assert.Equal(t, "created", order["status"])
	assert.EqualValues(t, 500, order["amount"])

	sig := domain.Sign("order_O1", "pay_P1", secret)
	rec = srv.post(t, "/verify-payment", verifyBody("", "pay_P1", sig, "payer@example.com"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Payment verified successfully"}`, rec.Body.String())
}

func TestCreateOrder(t *testing.T) {
	t.Run("missing amount", func(t *testing.T) {
		srv := newTestServer(t, memory.NewLastOrderSlot(), false)

		rec := srv.post(t, "/create-order", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrors(t, rec)
		require.NotEmpty(t, resp.Errors)
		assert.Equal(t, "amount", resp.Errors[0].Path)
	})

	t.Run("non numeric amount", func(t *testing.T) {
		srv := newTestServer(t, memory.NewLastOrderSlot(), false)

		rec := srv.post(t, "/create-order", `{"amount":"five hundred"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrors(t, rec)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "Amount must be a number", resp.Errors[0].Msg)
		assert.Equal(t, "five hundred", resp.Errors[0].Value)
	})

	t.Run("extreme exponent amounts are rejected cheaply", func(t *testing.T) {
		for _, body := range []string{`{"amount":1e-50000000}`, `{"amount":1e100000000}`} {
			srv := newTestServer(t, memory.NewLastOrderSlot(), false)

			var before, after runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&before)

			rec := srv.post(t, "/create-order", body)

			runtime.ReadMemStats(&after)

			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(4<<20), body)
			srv.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		srv := newTestServer(t, memory.NewLastOrderSlot(), false)

		rec := srv.post(t, "/create-order", `{"amount":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeErrors(t, rec).Errors)
	})

	t.Run("gateway failure", func(t *testing.T) {
		srv := newTestServer(t, memory.NewLastOrderSlot(), false)
		srv.gateway.EXPECT().CreateOrder(mock.Anything, mock.Anything, receipt).
			Return(nil, errors.New("connection reset")).Once()

		rec := srv.post(t, "/create-order", `{"amount":500}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error creating order", rec.Body.String())
	})

	t.Run("wrong method", func(t *testing.T) {
		srv := newTestServer(t, memory.NewLastOrderSlot(), false)

		rec := httptest.NewRecorder()
		srv.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/create-order", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestVerifyPayment(t *testing.T) {
	t.Run("invalid email never reaches the notifier", func(t *testing.T) {
		srv := newTestServer(t, memory.NewLastOrderSlot(), false)

		rec := srv.post(t, "/verify-payment", verifyBody("", "pay_P1", "abc", "not-an-email"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrors(t, rec)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "email", resp.Errors[0].Path)
		srv.notifier.AssertNotCalled(t, "SendConfirmation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("signature mismatch", func(t *testing.T) {
		slot := memory.NewLastOrderSlot()
		require.NoError(t, slot.Remember(context.Background(), providerOrder("order_O1", 500)))
		srv := newTestServer(t, slot, false)

		sig := domain.Sign("order_O2", "pay_P1", secret)
		rec := srv.post(t, "/verify-payment", verifyBody("", "pay_P1", sig, "payer@example.com"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp rest.ResultResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})

	t.Run("email failure", func(t *testing.T) {
		slot := memory.NewLastOrderSlot()
		require.NoError(t, slot.Remember(context.Background(), providerOrder("order_O1", 500)))
		srv := newTestServer(t, slot, false)
		srv.notifier.EXPECT().SendConfirmation(mock.Anything, "payer@example.com", "pay_P1").
			Return(errors.New("smtp: 535 authentication failed")).Once()

		sig := domain.Sign("order_O1", "pay_P1", secret)
		rec := srv.post(t, "/verify-payment", verifyBody("", "pay_P1", sig, "payer@example.com"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Error sending confirmation email", rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "success")
	})

	t.Run("keyed orders require the order id", func(t *testing.T) {
		srv := newTestServer(t, memory.NewOrderStore(time.Hour), true)

		sig := domain.Sign("order_O1", "pay_P1", secret)
		rec := srv.post(t, "/verify-payment", verifyBody("", "pay_P1", sig, "payer@example.com"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeErrors(t, rec)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "razorpay_order_id", resp.Errors[0].Path)
	})

	t.Run("keyed orders verify against the named order", func(t *testing.T) {
		store := memory.NewOrderStore(time.Hour)
		require.NoError(t, store.Remember(context.Background(), providerOrder("order_O1", 500)))
		require.NoError(t, store.Remember(context.Background(), providerOrder("order_O2", 500)))
		srv := newTestServer(t, store, true)
		srv.notifier.EXPECT().SendConfirmation(mock.Anything, "payer@example.com", "pay_P1").Return(nil).Once()

		sig := domain.Sign("order_O1", "pay_P1", secret)
		rec := srv.post(t, "/verify-payment", verifyBody("order_O1", "pay_P1", sig, "payer@example.com"))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, memory.NewLastOrderSlot(), false)

	rec := httptest.NewRecorder()
	srv.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
