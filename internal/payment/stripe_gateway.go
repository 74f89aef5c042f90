package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const (
	stripeBaseURL = "https://api.stripe.com/v1"

	// sessionCurrency is the checkout currency for every session.
	sessionCurrency = "sgd"
)

type stripeGateway struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewStripeGateway(apiKey string) Gateway {
	if apiKey == "" {
		logger.L().Warn("Stripe secret key is empty")
	}

	return &stripeGateway{
		apiKey:  apiKey,
		baseURL: stripeBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// do sends a form-encoded request and decodes the JSON response into out.
func (g *stripeGateway) do(ctx context.Context, method, path string, form url.Values, out any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	var body io.Reader
	endpoint := g.baseURL + path
	if form != nil {
		if method == http.MethodGet {
			endpoint += "?" + form.Encode()
		} else {
			body = strings.NewReader(form.Encode())
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	req.SetBasicAuth(g.apiKey, "")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("stripe request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("stripe returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", respBody),
		)
		return fmt.Errorf("stripe error: %s", string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			log.Error("failed decoding stripe response", zap.Error(err))
			return err
		}
	}
	return nil
}

type stripeSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

func (s *stripeSession) toModel() *CheckoutSession {
	return &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: s.PaymentStatus,
		AmountTotal:   s.AmountTotal,
		Currency:      s.Currency,
		CustomerEmail: s.CustomerEmail,
		Metadata:      s.Metadata,
	}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*CheckoutSession, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int("line_items", len(params.LineItems)),
		zap.Bool("discounted", params.DiscountID != ""),
	)

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("customer_email", params.CustomerEmail)

	for i, li := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(li.Quantity))
		form.Set(prefix+"[price_data][currency]", sessionCurrency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(li.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", li.Name)
		if li.Image != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", li.Image)
		}
		if li.ProductID != "" {
			form.Set(prefix+"[price_data][product_data][metadata]["+LineMetaProductID+"]", li.ProductID)
		}
	}

	if params.DiscountID != "" {
		form.Set("discounts[0][coupon]", params.DiscountID)
	}

	for k, v := range params.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	var res stripeSession
	if err := g.do(ctx, http.MethodPost, "/checkout/sessions", form, &res); err != nil {
		return nil, err
	}

	log.Info("stripe checkout session created",
		zap.String("session_id", res.ID),
	)
	return res.toModel(), nil
}

func (g *stripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var res stripeSession
	if err := g.do(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(sessionID), nil, &res); err != nil {
		return nil, err
	}
	return res.toModel(), nil
}

type stripeLineItem struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	AmountTotal int64  `json:"amount_total"`
	Price       struct {
		Product json.RawMessage `json:"product"`
	} `json:"price"`
}

// productID digs the internal product id out of the expanded product's
// metadata. The product field is a bare id string when not expanded; that
// case yields "".
func (li stripeLineItem) productID() string {
	if len(li.Price.Product) == 0 || li.Price.Product[0] != '{' {
		return ""
	}
	var prod struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(li.Price.Product, &prod); err != nil {
		return ""
	}
	return prod.Metadata[LineMetaProductID]
}

func (g *stripeGateway) ListLineItems(ctx context.Context, sessionID string) ([]LineItem, error) {
	form := url.Values{}
	form.Set("limit", "100")
	form.Set("expand[]", "data.price.product")

	var res struct {
		Data []stripeLineItem `json:"data"`
	}
	path := "/checkout/sessions/" + url.PathEscape(sessionID) + "/line_items"
	if err := g.do(ctx, http.MethodGet, path, form, &res); err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(res.Data))
	for _, d := range res.Data {
		items = append(items, LineItem{
			Description: d.Description,
			Quantity:    d.Quantity,
			AmountTotal: d.AmountTotal,
			ProductID:   d.productID(),
		})
	}
	return items, nil
}

func (g *stripeGateway) CreatePercentCoupon(ctx context.Context, percent int) (string, error) {
	form := url.Values{}
	form.Set("percent_off", strconv.Itoa(percent))
	form.Set("duration", "once")

	var res struct {
		ID string `json:"id"`
	}
	if err := g.do(ctx, http.MethodPost, "/coupons", form, &res); err != nil {
		return "", err
	}

	logger.FromCtx(ctx).Info("stripe percent coupon created",
		zap.Int("percent", percent),
		zap.String("coupon_id", res.ID),
	)
	return res.ID, nil
}
