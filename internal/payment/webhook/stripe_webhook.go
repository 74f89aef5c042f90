package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"

	"go.uber.org/zap"
)

// signatureTolerance bounds how old a signed webhook timestamp may be.
const signatureTolerance = 5 * time.Minute

var errBadSignature = errors.New("invalid webhook signature")

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID              string            `json:"id"`
			PaymentStatus   string            `json:"payment_status"`
			CustomerEmail   string            `json:"customer_email"`
			CustomerDetails struct {
				Email string `json:"email"`
			} `json:"customer_details"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

type Handler struct {
	orders order.Service
	secret string
	now    func() time.Time
}

func NewHandler(orders order.Service, secret string) *Handler {
	return &Handler{
		orders: orders,
		secret: secret,
		now:    time.Now,
	}
}

// verifySignature checks the Stripe-Signature header: HMAC-SHA256 over
// "<timestamp>.<payload>" keyed with the webhook secret.
func (h *Handler) verifySignature(header string, payload []byte) error {
	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == "" || len(sigs) == 0 {
		return errBadSignature
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return errBadSignature
	}
	if h.now().Sub(time.Unix(unix, 0)) > signatureTolerance {
		return errBadSignature
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range sigs {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return errBadSignature
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.verifySignature(r.Header.Get("Stripe-Signature"), body); err != nil {
		log.Warn("webhook signature rejected")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var event stripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if event.Type != "checkout.session.completed" {
		w.WriteHeader(http.StatusOK)
		return
	}

	session := event.Data.Object
	log = log.With(zap.String("session_id", session.ID))

	if session.PaymentStatus != payment.PaymentStatusPaid {
		log.Info("ignoring unpaid completed session")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, err := strconv.ParseUint(session.Metadata[payment.MetaUserID], 10, 64)
	if err != nil {
		log.Warn("webhook session missing user metadata")
		http.Error(w, "missing user metadata", http.StatusBadRequest)
		return
	}

	email := session.CustomerEmail
	if email == "" {
		email = session.CustomerDetails.Email
	}

	// Confirmation is idempotent, so a webhook arriving after the client
	// already confirmed the session is a no-op.
	if _, err := h.orders.ConfirmOrder(r.Context(), uint(userID), email, session.ID); err != nil {
		log.Error("webhook order confirmation failed", zap.Error(err))
		http.Error(w, "failed to finalize order", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok")
}
