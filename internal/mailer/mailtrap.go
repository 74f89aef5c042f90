package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const mailtrapSendURL = "https://send.api.mailtrap.io/api/send"

type mailtrapClient struct {
	baseURL     string
	token       string
	senderEmail string
	httpClient  *http.Client
}

func NewMailtrapClient(token, senderEmail string) Mailer {
	if token == "" {
		logger.L().Warn("Mailtrap token is empty")
	}

	return &mailtrapClient{
		baseURL:     mailtrapSendURL,
		token:       token,
		senderEmail: senderEmail,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sendRequest struct {
	From     address   `json:"from"`
	To       []address `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	Category string    `json:"category"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (m *mailtrapClient) send(ctx context.Context, to, subject, html, category string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("to", to),
		zap.String("category", category),
	)

	body, err := json.Marshal(sendRequest{
		From:     address{Email: m.senderEmail, Name: "Storefront"},
		To:       []address{{Email: to}},
		Subject:  subject,
		HTML:     html,
		Category: category,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Error("mailtrap request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read mailtrap response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("mailtrap returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", respBody),
		)
		return fmt.Errorf("mailtrap error: %s", string(respBody))
	}

	log.Info("email sent")
	return nil
}

func (m *mailtrapClient) SendVerificationEmail(ctx context.Context, email, code string) error {
	html := strings.ReplaceAll(verificationTemplate, "{code}", code)
	return m.send(ctx, email, "Verify your email", html, "Email Verification")
}

func (m *mailtrapClient) SendWelcomeCoupon(ctx context.Context, email, name, code string, percent int) error {
	html := strings.NewReplacer(
		"{name}", name,
		"{couponCode}", code,
		"{percent}", fmt.Sprint(percent),
	).Replace(welcomeCouponTemplate)
	return m.send(ctx, email, "Your welcome discount", html, "Welcome Coupon")
}

func (m *mailtrapClient) SendOrderConfirmation(ctx context.Context, email string, params OrderConfirmationParams) error {
	html := strings.NewReplacer(
		"{name}", params.Name,
		"{orderId}", params.OrderID,
		"{total}", params.Total,
	).Replace(orderSuccessTemplate)
	return m.send(ctx, email, "Order confirmed", html, "Order Confirmation")
}

func (m *mailtrapClient) SendOrderDispatched(ctx context.Context, email string, params OrderDispatchedParams) error {
	var items strings.Builder
	for _, it := range params.Items {
		fmt.Fprintf(&items, `<p>%dx %s</p>`, it.Quantity, it.Name)
	}

	html := strings.NewReplacer(
		"{name}", params.Name,
		"{orderId}", params.OrderID,
		"{etaDate}", params.ETADate,
		"{items}", items.String(),
	).Replace(orderDispatchedTemplate)
	return m.send(ctx, email, "Your order is on the way", html, "Order Dispatched")
}
