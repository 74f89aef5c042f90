package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-be/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, userID uint, userEmail string, items []order.CheckoutItemInput, couponCode *string) (*order.CheckoutSessionResult, error) {
	args := m.Called(ctx, userID, userEmail, items, couponCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CheckoutSessionResult), args.Error(1)
}

func (m *MockOrderService) ConfirmOrder(ctx context.Context, userID uint, userEmail, sessionID string) (*order.Order, error) {
	args := m.Called(ctx, userID, userEmail, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrders(ctx context.Context, userID uint) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, userID uint, orderID string, isAdmin bool) (*order.Order, error) {
	args := m.Called(ctx, userID, orderID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) DispatchOrder(ctx context.Context, orderID string, etaDays int) (*order.Order, error) {
	args := m.Called(ctx, orderID, etaDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateFulfillmentStatus(ctx context.Context, orderID string, status order.FulfillmentStatus) (*order.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

const testSecret = "whsec_test"

func sign(t *testing.T, secret, payload string, ts time.Time) string {
	t.Helper()
	unix := fmt.Sprintf("%d", ts.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(unix + "." + payload))
	return fmt.Sprintf("t=%s,v1=%s", unix, hex.EncodeToString(mac.Sum(nil)))
}

func paidEventBody() string {
	return `{
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_paid",
			"payment_status": "paid",
			"customer_details": {"email": "buyer@example.com"},
			"metadata": {"user_id": "42"}
		}}
	}`
}

func postEvent(handler *Handler, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(body))
	req.Header.Set("Stripe-Signature", signature)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestWebhookConfirmsPaidSession(t *testing.T) {
	orders := new(MockOrderService)
	orders.On("ConfirmOrder", mock.Anything, uint(42), "buyer@example.com", "cs_paid").
		Return(&order.Order{ID: "ord-1"}, nil)

	handler := NewHandler(orders, testSecret)
	body := paidEventBody()

	rec := postEvent(handler, body, sign(t, testSecret, body, time.Now()))

	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertExpectations(t)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	orders := new(MockOrderService)
	handler := NewHandler(orders, testSecret)
	body := paidEventBody()

	rec := postEvent(handler, body, sign(t, "whsec_wrong", body, time.Now()))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	orders.AssertNotCalled(t, "ConfirmOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookRejectsStaleTimestamp(t *testing.T) {
	orders := new(MockOrderService)
	handler := NewHandler(orders, testSecret)
	body := paidEventBody()

	rec := postEvent(handler, body, sign(t, testSecret, body, time.Now().Add(-10*time.Minute)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	orders := new(MockOrderService)
	handler := NewHandler(orders, testSecret)
	body := `{"type": "invoice.created", "data": {"object": {"id": "in_1"}}}`

	rec := postEvent(handler, body, sign(t, testSecret, body, time.Now()))

	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertNotCalled(t, "ConfirmOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookIgnoresUnpaidSession(t *testing.T) {
	orders := new(MockOrderService)
	handler := NewHandler(orders, testSecret)
	body := `{
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_unpaid", "payment_status": "unpaid", "metadata": {"user_id": "42"}}}
	}`

	rec := postEvent(handler, body, sign(t, testSecret, body, time.Now()))

	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertNotCalled(t, "ConfirmOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookMissingUserMetadata(t *testing.T) {
	orders := new(MockOrderService)
	handler := NewHandler(orders, testSecret)
	body := `{
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_paid", "payment_status": "paid", "metadata": {}}}
	}`

	rec := postEvent(handler, body, sign(t, testSecret, body, time.Now()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
