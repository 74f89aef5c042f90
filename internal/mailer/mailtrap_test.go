package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *mailtrapClient {
	return &mailtrapClient{
		baseURL:     serverURL,
		token:       "test-token",
		senderEmail: "shop@example.com",
		httpClient:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	var got sendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.SendOrderConfirmation(context.Background(), "buyer@example.com", OrderConfirmationParams{
		Name:    "Ada",
		OrderID: "ord-123",
		Total:   "25.00",
	})

	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", got.To[0].Email)
	assert.Contains(t, got.HTML, "ord-123")
	assert.Contains(t, got.HTML, "25.00")
	assert.Equal(t, "Order Confirmation", got.Category)
}

func TestSend_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["invalid token"]}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	err := client.SendVerificationEmail(context.Background(), "buyer@example.com", "123456")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mailtrap error")
}
