package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *stripeGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &stripeGateway{
		apiKey:     "sk_test_123",
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotForm url.Values

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/checkout/sessions", r.URL.Path)

		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sk_test_123", user)

		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_abc","url":"https://checkout.stripe.com/pay/cs_test_abc","payment_status":"unpaid","currency":"sgd"}`))
	})

	session, err := gw.CreateCheckoutSession(context.Background(), CreateSessionParams{
		LineItems: []LineItemParams{
			{Name: "Mechanical Keyboard", UnitAmount: 12900, Quantity: 2, ProductID: "prod-1"},
		},
		DiscountID:    "disc_30",
		SuccessURL:    "https://shop.example/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     "https://shop.example/cancel",
		CustomerEmail: "buyer@example.com",
		Metadata: map[string]string{
			MetaUserID:     "42",
			MetaCouponCode: "WELCOME30",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_abc", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_abc", session.URL)

	assert.Equal(t, "payment", gotForm.Get("mode"))
	assert.Equal(t, "2", gotForm.Get("line_items[0][quantity]"))
	assert.Equal(t, "12900", gotForm.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "Mechanical Keyboard", gotForm.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "prod-1", gotForm.Get("line_items[0][price_data][product_data][metadata][product_id]"))
	assert.Equal(t, "disc_30", gotForm.Get("discounts[0][coupon]"))
	assert.Equal(t, "42", gotForm.Get("metadata[user_id]"))
	assert.Equal(t, "buyer@example.com", gotForm.Get("customer_email"))
}

func TestGetCheckoutSession(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/checkout/sessions/cs_test_abc", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_abc","payment_status":"paid","amount_total":25800,"customer_email":"buyer@example.com","metadata":{"user_id":"42"}}`))
	})

	session, err := gw.GetCheckoutSession(context.Background(), "cs_test_abc")
	require.NoError(t, err)

	assert.Equal(t, PaymentStatusPaid, session.PaymentStatus)
	assert.Equal(t, int64(25800), session.AmountTotal)
	assert.Equal(t, "42", session.Metadata[MetaUserID])
}

func TestListLineItems(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions/cs_test_abc/line_items", r.URL.Path)
		assert.Equal(t, "data.price.product", r.URL.Query().Get("expand[]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"description":"Mechanical Keyboard","quantity":2,"amount_total":25800,
			 "price":{"product":{"id":"prod_x","metadata":{"product_id":"prod-1"}}}},
			{"description":"Shipping","quantity":1,"amount_total":500,
			 "price":{"product":"prod_y"}}
		]}`))
	})

	items, err := gw.ListLineItems(context.Background(), "cs_test_abc")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "prod-1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(25800), items[0].AmountTotal)

	assert.Equal(t, "Shipping", items[1].Description)
	assert.Empty(t, items[1].ProductID)
}

func TestCreatePercentCoupon(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coupons", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "30", r.PostForm.Get("percent_off"))
		assert.Equal(t, "once", r.PostForm.Get("duration"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"coupon_30_once"}`))
	})

	id, err := gw.CreatePercentCoupon(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "coupon_30_once", id)
}

func TestStripeErrorResponse(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid coupon"}}`))
	})

	_, err := gw.CreatePercentCoupon(context.Background(), 120)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid coupon")
}
