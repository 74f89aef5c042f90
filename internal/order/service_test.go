package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/coupon"
	"storefront-be/internal/mailer"
	"storefront-be/internal/metrics"
	"storefront-be/internal/payment"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindBySessionID(ctx context.Context, sessionID string) (*Order, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, orderID string) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uint) ([]*Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context) ([]*Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, o *Order) error {
	args := m.Called(ctx, tx, o)
	return args.Error(0)
}

func (m *MockRepository) UpdateFulfillment(ctx context.Context, orderID string, status FulfillmentStatus, dispatchedAt, eta *time.Time) (*Order, error) {
	args := m.Called(ctx, orderID, status, dispatchedAt, eta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) GetByIDs(ctx context.Context, ids []string) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) GetList(ctx context.Context, category *string) ([]*product.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) GetFeatured(ctx context.Context) ([]*product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, params product.NewProductParams) (*product.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, params product.UpdateProductParams) (*product.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) ToggleFeatured(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) DecrementStockTx(ctx context.Context, tx *sql.Tx, id string, qty int) (*product.Product, error) {
	args := m.Called(ctx, tx, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetItems(ctx context.Context, userID uint) ([]cart.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) Upsert(ctx context.Context, userID uint, productID string, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, userID uint, productID string, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID uint, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearTx(ctx context.Context, tx *sql.Tx, userID uint) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) IssueWelcomeCoupon(ctx context.Context, userID uint) (*coupon.Coupon, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponService) GetActiveCoupon(ctx context.Context, userID uint) (*coupon.Coupon, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponService) Validate(ctx context.Context, code string, userID uint) (*coupon.Coupon, error) {
	args := m.Called(ctx, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponService) Redeem(ctx context.Context, code string, userID uint) error {
	args := m.Called(ctx, code, userID)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, name, email, password, code string) (*user.User, error) {
	args := m.Called(ctx, name, email, password, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetVerificationCode(ctx context.Context, id uint, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, params payment.CreateSessionParams) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *MockGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

func (m *MockGateway) ListLineItems(ctx context.Context, sessionID string) ([]payment.LineItem, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.LineItem), args.Error(1)
}

func (m *MockGateway) CreatePercentCoupon(ctx context.Context, percent int) (string, error) {
	args := m.Called(ctx, percent)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockMailer) SendWelcomeCoupon(ctx context.Context, email, name, code string, percent int) error {
	args := m.Called(ctx, email, name, code, percent)
	return args.Error(0)
}

func (m *MockMailer) SendOrderConfirmation(ctx context.Context, email string, params mailer.OrderConfirmationParams) error {
	args := m.Called(ctx, email, params)
	return args.Error(0)
}

func (m *MockMailer) SendOrderDispatched(ctx context.Context, email string, params mailer.OrderDispatchedParams) error {
	args := m.Called(ctx, email, params)
	return args.Error(0)
}

type serviceMocks struct {
	repo     *MockRepository
	products *MockProductService
	carts    *MockCartRepository
	coupons  *MockCouponService
	users    *MockUserRepository
	gateway  *MockGateway
	mail     *MockMailer
	sqlMock  sqlmock.Sqlmock
	stats    *metrics.CheckoutMetrics
}

func newTestService(t *testing.T) (Service, *serviceMocks) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	m := &serviceMocks{
		repo:     new(MockRepository),
		products: new(MockProductService),
		carts:    new(MockCartRepository),
		coupons:  new(MockCouponService),
		users:    new(MockUserRepository),
		gateway:  new(MockGateway),
		mail:     new(MockMailer),
		sqlMock:  sqlMock,
		stats:    &metrics.CheckoutMetrics{},
	}

	svc := NewService(Deps{
		Repo:      m.repo,
		DB:        sqlDB,
		Products:  m.products,
		Carts:     m.carts,
		Coupons:   m.coupons,
		Users:     m.users,
		Gateway:   m.gateway,
		Discounts: payment.NewDiscountCache(m.gateway),
		Mailer:    m.mail,
		Config: &config.Config{
			ClientURL:   "https://shop.example",
			ShippingFee: decimal.NewFromFloat(5),
			TaxFee:      decimal.NewFromFloat(2.5),
		},
		Stats: m.stats,
	})
	return svc, m
}

func keyboard() *product.Product {
	return &product.Product{
		ID:    "prod-1",
		Name:  "Mechanical Keyboard",
		Price: decimal.NewFromFloat(129.00),
		Image: "https://img.example/kbd.png",
		Stock: 10,
	}
}

func mousepad() *product.Product {
	return &product.Product{
		ID:    "prod-2",
		Name:  "Mousepad",
		Price: decimal.NewFromFloat(19.50),
		Stock: 5,
	}
}

func TestCheckoutRejectsEmptyItems(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), 42, "buyer@example.com", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCheckout)
}

func TestCheckoutRejectsNonPositiveQuantity(t *testing.T) {
	svc, _ := newTestService(t)

	items := []CheckoutItemInput{{ProductID: "prod-1", Quantity: 0}}
	_, err := svc.Checkout(context.Background(), 42, "buyer@example.com", items, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCheckoutPricesFromCatalog(t *testing.T) {
	svc, m := newTestService(t)

	m.products.On("GetByIDs", mock.Anything, []string{"prod-1", "prod-2"}).
		Return([]*product.Product{keyboard(), mousepad()}, nil)

	var got payment.CreateSessionParams
	m.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got = args.Get(1).(payment.CreateSessionParams)
		}).
		Return(&payment.CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1"}, nil)

	items := []CheckoutItemInput{
		{ProductID: "prod-1", Quantity: 2},
		{ProductID: "prod-2", Quantity: 1},
	}
	res, err := svc.Checkout(context.Background(), 42, "buyer@example.com", items, nil)
	require.NoError(t, err)

	assert.Equal(t, "cs_1", res.SessionID)
	// 2*129.00 + 19.50 + 5.00 shipping + 2.50 tax
	assert.Equal(t, "285.00", res.TotalAmount.StringFixed(2))

	require.Len(t, got.LineItems, 4)
	assert.Equal(t, int64(12900), got.LineItems[0].UnitAmount)
	assert.Equal(t, 2, got.LineItems[0].Quantity)
	assert.Equal(t, "prod-1", got.LineItems[0].ProductID)
	assert.Equal(t, int64(1950), got.LineItems[1].UnitAmount)
	assert.Equal(t, FeeLineShipping, got.LineItems[2].Name)
	assert.Equal(t, int64(500), got.LineItems[2].UnitAmount)
	assert.Equal(t, FeeLineTax, got.LineItems[3].Name)
	assert.Equal(t, int64(250), got.LineItems[3].UnitAmount)

	assert.Empty(t, got.DiscountID)
	assert.Equal(t, "42", got.Metadata[payment.MetaUserID])
	assert.JSONEq(t,
		`[{"id":"prod-1","quantity":2,"price":"129.00"},{"id":"prod-2","quantity":1,"price":"19.50"}]`,
		got.Metadata[payment.MetaProducts])
	assert.Equal(t, "https://shop.example/purchase-success?session_id={CHECKOUT_SESSION_ID}", got.SuccessURL)
	assert.Equal(t, uint64(1), m.stats.SessionsCreated.Load())
}

func TestCheckoutAppliesCouponDiscount(t *testing.T) {
	svc, m := newTestService(t)

	m.products.On("GetByIDs", mock.Anything, []string{"prod-1"}).
		Return([]*product.Product{keyboard()}, nil)
	m.coupons.On("Validate", mock.Anything, "WELCOME-A1B2C3", uint(42)).
		Return(&coupon.Coupon{Code: "WELCOME-A1B2C3", DiscountPercentage: 30}, nil)
	m.gateway.On("CreatePercentCoupon", mock.Anything, 30).Return("disc_30", nil)

	var got payment.CreateSessionParams
	m.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got = args.Get(1).(payment.CreateSessionParams)
		}).
		Return(&payment.CheckoutSession{ID: "cs_2", URL: "https://pay.example/cs_2"}, nil)

	code := "WELCOME-A1B2C3"
	items := []CheckoutItemInput{{ProductID: "prod-1", Quantity: 1}}
	res, err := svc.Checkout(context.Background(), 42, "buyer@example.com", items, &code)
	require.NoError(t, err)

	assert.Equal(t, "disc_30", got.DiscountID)
	assert.Equal(t, "WELCOME-A1B2C3", got.Metadata[payment.MetaCouponCode])
	// (129.00 + 7.50 fees) * 0.7
	assert.Equal(t, "95.55", res.TotalAmount.StringFixed(2))
}

func TestCheckoutIgnoresUnusableCoupon(t *testing.T) {
	svc, m := newTestService(t)

	m.products.On("GetByIDs", mock.Anything, []string{"prod-1"}).
		Return([]*product.Product{keyboard()}, nil)
	m.coupons.On("Validate", mock.Anything, "EXPIRED", uint(42)).
		Return(nil, coupon.ErrCouponNotFound)

	var got payment.CreateSessionParams
	m.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got = args.Get(1).(payment.CreateSessionParams)
		}).
		Return(&payment.CheckoutSession{ID: "cs_3", URL: "https://pay.example/cs_3"}, nil)

	code := "EXPIRED"
	items := []CheckoutItemInput{{ProductID: "prod-1", Quantity: 1}}
	res, err := svc.Checkout(context.Background(), 42, "buyer@example.com", items, &code)
	require.NoError(t, err)

	assert.Empty(t, got.DiscountID)
	assert.NotContains(t, got.Metadata, payment.MetaCouponCode)
	assert.Equal(t, "136.50", res.TotalAmount.StringFixed(2))
}

func TestCheckoutGatewayFailure(t *testing.T) {
	svc, m := newTestService(t)

	m.products.On("GetByIDs", mock.Anything, []string{"prod-1"}).
		Return([]*product.Product{keyboard()}, nil)
	m.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, errors.New("stripe unavailable"))

	items := []CheckoutItemInput{{ProductID: "prod-1", Quantity: 1}}
	_, err := svc.Checkout(context.Background(), 42, "buyer@example.com", items, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment session error")
	assert.Equal(t, uint64(0), m.stats.SessionsCreated.Load())
}

func TestCheckoutMissingProduct(t *testing.T) {
	svc, m := newTestService(t)

	m.products.On("GetByIDs", mock.Anything, []string{"prod-x"}).
		Return(nil, product.ErrProductsNotFound)

	items := []CheckoutItemInput{{ProductID: "prod-x", Quantity: 1}}
	_, err := svc.Checkout(context.Background(), 42, "buyer@example.com", items, nil)
	assert.ErrorIs(t, err, product.ErrProductsNotFound)
}

func paidSession() *payment.CheckoutSession {
	return &payment.CheckoutSession{
		ID:            "cs_paid",
		PaymentStatus: payment.PaymentStatusPaid,
		AmountTotal:   28500,
		CustomerEmail: "buyer@example.com",
		Metadata: map[string]string{
			payment.MetaUserID:   "42",
			payment.MetaProducts: `[{"id":"prod-1","quantity":2,"price":"129.00"},{"id":"prod-2","quantity":1,"price":"19.50"}]`,
		},
	}
}

func paidLineItems() []payment.LineItem {
	return []payment.LineItem{
		{Description: "Mechanical Keyboard", Quantity: 2, AmountTotal: 25800, ProductID: "prod-1"},
		{Description: "Mousepad", Quantity: 1, AmountTotal: 1950}, // positional fallback
		{Description: FeeLineShipping, Quantity: 1, AmountTotal: 500},
		{Description: FeeLineTax, Quantity: 1, AmountTotal: 250},
	}
}

func TestConfirmOrderProviderFailureIsServerError(t *testing.T) {
	svc, m := newTestService(t)

	m.gateway.On("GetCheckoutSession", mock.Anything, "cs_paid").
		Return(nil, errors.New("dial tcp: connection refused"))

	_, err := svc.ConfirmOrder(context.Background(), 42, "buyer@example.com", "cs_paid")
	assert.ErrorIs(t, err, ErrSessionRetrieval)
	assert.NotErrorIs(t, err, ErrPaymentNotCompleted)
}

func TestConfirmOrderRejectsUnpaidSession(t *testing.T) {
	svc, m := newTestService(t)

	m.gateway.On("GetCheckoutSession", mock.Anything, "cs_unpaid").
		Return(&payment.CheckoutSession{ID: "cs_unpaid", PaymentStatus: "unpaid"}, nil)

	_, err := svc.ConfirmOrder(context.Background(), 42, "buyer@example.com", "cs_unpaid")
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
}

func TestConfirmOrderRejectsForeignSession(t *testing.T) {
	svc, m := newTestService(t)

	session := paidSession()
	session.Metadata[payment.MetaUserID] = "7"
	m.gateway.On("GetCheckoutSession", mock.Anything, "cs_paid").Return(session, nil)

	_, err := svc.ConfirmOrder(context.Background(), 42, "buyer@example.com", "cs_paid")
	assert.ErrorIs(t, err, ErrSessionForbidden)
}

func TestConfirmOrderIdempotent(t *testing.T) {
	svc, m := newTestService(t)

	existing := &Order{ID: "ord-1", UserID: 42, StripeSessionID: "cs_paid"}
	m.gateway.On("GetCheckoutSession", mock.Anything, "cs_paid").Return(paidSession(), nil)
	m.repo.On("FindBySessionID", mock.Anything, "cs_paid").Return(existing, nil)

	got, err := svc.ConfirmOrder(context.Background(), 42, "buyer@example.com", "cs_paid")
	require.NoError(t, err)

	assert.Equal(t, existing, got)
	assert.Equal(t, uint64(1), m.stats.DuplicateConfirms.Load())
	m.gateway.AssertNotCalled(t, "ListLineItems", mock.Anything, mock.Anything)
	m.products.AssertNotCalled(t, "DecrementStockTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmOrderHappyPath(t *testing.T) {
	svc, m := newTestService(t)

	m.gateway.On("GetCheckoutSession", mock.Anything, "cs_paid").Return(paidSession(), nil)
	m.repo.On("FindBySessionID", mock.Anything, "cs_paid").Return(nil, nil)
	m.gateway.On("ListLineItems", mock.Anything, "cs_paid").Return(paidLineItems(), nil)

	m.sqlMock.ExpectBegin()
	m.sqlMock.ExpectCommit()

	m.products.On("DecrementStockTx", mock.Anything, mock.Anything, "prod-1", 2).Return(keyboard(), nil)
	m.products.On("DecrementStockTx", mock.Anything, mock.Anything, "prod-2", 1).Return(mousepad(), nil)
	m.repo.On("CreateOrderTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.carts.On("ClearTx", mock.Anything, mock.Anything, uint(42)).Return(nil)

	m.users.On("FindByID", mock.Anything, uint(42)).
		Return(&user.User{ID: 42, Name: "Ari", Email: "buyer@example.com"}, nil)
	m.mail.On("SendOrderConfirmation", mock.Anything, "buyer@example.com", mock.Anything).Return(nil)

	got, err := svc.ConfirmOrder(context.Background(), 42, "buyer@example.com", "cs_paid")
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, uint(42), got.UserID)
	assert.Equal(t, "cs_paid", got.StripeSessionID)
	assert.Equal(t, PaymentMethodCard, got.PaymentMethod)
	assert.Equal(t, FulfillmentPending, got.FulfillmentStatus)
	assert.Equal(t, "285.00", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "5.00", got.ShippingFee.StringFixed(2))
	assert.Equal(t, "2.50", got.TaxFee.StringFixed(2))

	require.Len(t, got.Items, 2)
	assert.Equal(t, "prod-1", got.Items[0].ProductID)
	assert.Equal(t, "129.00", got.Items[0].UnitPrice.StringFixed(2))
	// recovered positionally from the session metadata
	assert.Equal(t, "prod-2", got.Items[1].ProductID)
	assert.Equal(t, "19.50", got.Items[1].UnitPrice.StringFixed(2))

	assert.Equal(t, uint64(1), m.stats.OrdersConfirmed.Load())
	require.NoError(t, m.sqlMock.ExpectationsWereMet())
	m.mail.AssertExpectations(t)
}

func TestConfirmOrderRedeemsCoupon(t *testing.T) {
	svc, m := newTestService(t)

	session := paidSession()
	session.Metadata[payment.MetaCouponCode] = "WELCOME-A1B2C3"
	m.gateway.On("GetCheckoutSession", mock.Anything, "cs_paid").Return(session, nil)
	m.repo.On("FindBySessionID", mock.Anything, "cs_paid").Return(nil, nil)
	m.gateway.On("ListLineItems", mock.Anything, "cs_paid").Return(paidLineItems(), nil)

	m.sqlMock.ExpectBegin()
	m.sqlMock.ExpectCommit()
	m.products.On("DecrementStockTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(keyboard(), nil)
	m.repo.On("CreateOrderTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.carts.On("ClearTx", mock.Anything, mock.Anything, uint(42)).Return(nil)
	m.users.On("FindByID", mock.Anything, uint(42)).
		Return(&user.User{ID: 42, Name: "Ari", Email: "buyer@example.com"}, nil)
	m.mail.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.coupons.On("Redeem", mock.Anything, "WELCOME-A1B2C3", uint(42)).Return(nil)

	_, err := svc.ConfirmOrder(context.Background(), 42, "buyer@example.com", "cs_paid")
	require.NoError(t, err)
	m.coupons.AssertExpectations(t)
}

func TestConfirmOrderInsufficientStock(t *testing.T) {
	svc, m := newTestService(t)

	m.gateway.On("GetCheckoutSession", mock.Anything, "cs_paid").Return(paidSession(), nil)
	m.repo.On("FindBySessionID", mock.Anything, "cs_paid").Return(nil, nil)
	m.gateway.On("ListLineItems", mock.Anything, "cs_paid").Return(paidLineItems(), nil)

	m.sqlMock.ExpectBegin()
	m.sqlMock.ExpectRollback()
	m.products.On("DecrementStockTx", mock.Anything, mock.Anything, "prod-1", 2).Return(nil, nil)

	_, err := svc.ConfirmOrder(context.Background(), 42, "buyer@example.com", "cs_paid")
	require.Error(t, err)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "prod-1", stockErr.ProductID)
	assert.Equal(t, uint64(1), m.stats.StockConflicts.Load())

	require.NoError(t, m.sqlMock.ExpectationsWereMet())
	m.repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything, mock.Anything)
	m.mail.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmOrderResolvesDuplicateRace(t *testing.T) {
	svc, m := newTestService(t)

	winner := &Order{ID: "ord-winner", UserID: 42, StripeSessionID: "cs_paid"}

	m.gateway.On("GetCheckoutSession", mock.Anything, "cs_paid").Return(paidSession(), nil)
	m.repo.On("FindBySessionID", mock.Anything, "cs_paid").Return(nil, nil).Once()
	m.gateway.On("ListLineItems", mock.Anything, "cs_paid").Return(paidLineItems(), nil)

	m.sqlMock.ExpectBegin()
	m.sqlMock.ExpectRollback()
	m.products.On("DecrementStockTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(keyboard(), nil)
	m.repo.On("CreateOrderTx", mock.Anything, mock.Anything, mock.Anything).
		Return(&pq.Error{Code: "23505", Constraint: "orders_stripe_session_id_key"})
	m.repo.On("FindBySessionID", mock.Anything, "cs_paid").Return(winner, nil).Once()

	got, err := svc.ConfirmOrder(context.Background(), 42, "buyer@example.com", "cs_paid")
	require.NoError(t, err)

	assert.Equal(t, winner, got)
	assert.Equal(t, uint64(1), m.stats.DuplicateConfirms.Load())
	assert.Equal(t, uint64(0), m.stats.OrdersConfirmed.Load())
	require.NoError(t, m.sqlMock.ExpectationsWereMet())
}

func TestConfirmOrderNoReconcilableItems(t *testing.T) {
	svc, m := newTestService(t)

	session := paidSession()
	session.Metadata[payment.MetaProducts] = ""
	m.gateway.On("GetCheckoutSession", mock.Anything, "cs_paid").Return(session, nil)
	m.repo.On("FindBySessionID", mock.Anything, "cs_paid").Return(nil, nil)
	m.gateway.On("ListLineItems", mock.Anything, "cs_paid").Return([]payment.LineItem{
		{Description: FeeLineShipping, Quantity: 1, AmountTotal: 500},
		{Description: FeeLineTax, Quantity: 1, AmountTotal: 250},
	}, nil)

	_, err := svc.ConfirmOrder(context.Background(), 42, "buyer@example.com", "cs_paid")
	assert.ErrorIs(t, err, ErrUnreconcilableItems)
}

func TestGetOrderOwnership(t *testing.T) {
	svc, m := newTestService(t)

	m.repo.On("FindByID", mock.Anything, "ord-1").
		Return(&Order{ID: "ord-1", UserID: 7}, nil)

	_, err := svc.GetOrder(context.Background(), 42, "ord-1", false)
	assert.ErrorIs(t, err, ErrOrderForbidden)

	got, err := svc.GetOrder(context.Background(), 42, "ord-1", true)
	require.NoError(t, err)
	assert.Equal(t, "ord-1", got.ID)
}

func TestDispatchOrder(t *testing.T) {
	svc, m := newTestService(t)

	pending := &Order{
		ID:                "ord-1",
		UserID:            42,
		FulfillmentStatus: FulfillmentPending,
		Items:             []OrderItem{{ProductID: "prod-1", Name: "Mechanical Keyboard", Quantity: 2}},
	}
	dispatched := *pending
	dispatched.FulfillmentStatus = FulfillmentDispatched

	m.repo.On("FindByID", mock.Anything, "ord-1").Return(pending, nil)
	m.repo.On("UpdateFulfillment", mock.Anything, "ord-1", FulfillmentDispatched, mock.Anything, mock.Anything).
		Return(&dispatched, nil)
	m.users.On("FindByID", mock.Anything, uint(42)).
		Return(&user.User{ID: 42, Name: "Ari", Email: "buyer@example.com"}, nil)
	m.mail.On("SendOrderDispatched", mock.Anything, "buyer@example.com", mock.Anything).Return(nil)

	got, err := svc.DispatchOrder(context.Background(), "ord-1", 5)
	require.NoError(t, err)

	assert.Equal(t, FulfillmentDispatched, got.FulfillmentStatus)
	m.mail.AssertExpectations(t)
}

func TestDispatchOrderDefaultETA(t *testing.T) {
	svc, m := newTestService(t)

	pending := &Order{ID: "ord-1", UserID: 42, FulfillmentStatus: FulfillmentPending}
	dispatched := *pending
	dispatched.FulfillmentStatus = FulfillmentDispatched

	m.repo.On("FindByID", mock.Anything, "ord-1").Return(pending, nil)
	// Omitted ETA defaults to a week out.
	m.repo.On("UpdateFulfillment", mock.Anything, "ord-1", FulfillmentDispatched, mock.Anything,
		mock.MatchedBy(func(eta *time.Time) bool {
			want := time.Now().AddDate(0, 0, 7)
			return eta != nil && eta.Sub(want).Abs() < time.Minute
		})).
		Return(&dispatched, nil)
	m.users.On("FindByID", mock.Anything, uint(42)).
		Return(&user.User{ID: 42, Name: "Ari", Email: "buyer@example.com"}, nil)
	m.mail.On("SendOrderDispatched", mock.Anything, "buyer@example.com", mock.Anything).Return(nil)

	_, err := svc.DispatchOrder(context.Background(), "ord-1", 0)
	require.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestDispatchOrderAlreadyDispatched(t *testing.T) {
	svc, m := newTestService(t)

	m.repo.On("FindByID", mock.Anything, "ord-1").
		Return(&Order{ID: "ord-1", FulfillmentStatus: FulfillmentDispatched}, nil)

	_, err := svc.DispatchOrder(context.Background(), "ord-1", 3)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateFulfillmentStatusTransitions(t *testing.T) {
	svc, m := newTestService(t)

	m.repo.On("FindByID", mock.Anything, "ord-1").
		Return(&Order{ID: "ord-1", FulfillmentStatus: FulfillmentDispatched}, nil)
	m.repo.On("UpdateFulfillment", mock.Anything, "ord-1", FulfillmentDelivered, (*time.Time)(nil), (*time.Time)(nil)).
		Return(&Order{ID: "ord-1", FulfillmentStatus: FulfillmentDelivered}, nil)

	got, err := svc.UpdateFulfillmentStatus(context.Background(), "ord-1", FulfillmentDelivered)
	require.NoError(t, err)
	assert.Equal(t, FulfillmentDelivered, got.FulfillmentStatus)

	m.repo.ExpectedCalls = nil
	m.repo.On("FindByID", mock.Anything, "ord-2").
		Return(&Order{ID: "ord-2", FulfillmentStatus: FulfillmentDelivered}, nil)

	_, err = svc.UpdateFulfillmentStatus(context.Background(), "ord-2", FulfillmentCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
