package user

import (
	"context"
	"testing"
	"time"

	"storefront-be/internal/coupon"
	"storefront-be/internal/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, name, email, password, code string) (*User, error) {
	args := m.Called(ctx, name, email, password, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uint) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) MarkVerified(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SetVerificationCode(ctx context.Context, id uint, code string) error {
	args := m.Called(ctx, id, code)
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

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	ctx := context.Background()

	hash, err := HashPassword("pw123456")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCouponService), new(MockMailer))

		repo.On("FindByEmail", ctx, "buyer@example.com").
			Return(&User{ID: 1, Email: "buyer@example.com", Password: hash, Role: RoleUser}, nil)

		token, u, err := svc.Login(ctx, " Buyer@Example.com ", "pw123456")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, uint(1), u.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCouponService), new(MockMailer))

		repo.On("FindByEmail", ctx, "buyer@example.com").
			Return(&User{ID: 1, Password: hash}, nil)

		_, _, err := svc.Login(ctx, "buyer@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCouponService), new(MockMailer))

		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, ErrUserNotFound)

		_, _, err := svc.Login(ctx, "ghost@example.com", "pw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	code := "123456"
	future := time.Now().Add(time.Hour)

	t.Run("IssuesWelcomeCoupon", func(t *testing.T) {
		repo := new(MockRepository)
		coupons := new(MockCouponService)
		mail := new(MockMailer)
		svc := NewService(repo, coupons, mail)

		repo.On("FindByID", ctx, uint(1)).Return(&User{
			ID: 1, Name: "Ada", Email: "ada@example.com",
			VerificationCode: &code, VerificationExpiresAt: &future,
		}, nil)
		repo.On("MarkVerified", ctx, uint(1)).Return(nil)
		coupons.On("IssueWelcomeCoupon", ctx, uint(1)).
			Return(&coupon.Coupon{Code: "WELCOME30-ABCDEF", DiscountPercentage: 30}, nil)
		mail.On("SendWelcomeCoupon", ctx, "ada@example.com", "Ada", "WELCOME30-ABCDEF", 30).Return(nil)

		u, err := svc.VerifyEmail(ctx, 1, "123456")
		require.NoError(t, err)
		assert.True(t, u.IsVerified)
		coupons.AssertExpectations(t)
		mail.AssertExpectations(t)
	})

	t.Run("WrongCode", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCouponService), new(MockMailer))

		repo.On("FindByID", ctx, uint(1)).Return(&User{
			ID: 1, VerificationCode: &code, VerificationExpiresAt: &future,
		}, nil)

		_, err := svc.VerifyEmail(ctx, 1, "000000")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("ExpiredCode", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockCouponService), new(MockMailer))

		past := time.Now().Add(-time.Hour)
		repo.On("FindByID", ctx, uint(1)).Return(&User{
			ID: 1, VerificationCode: &code, VerificationExpiresAt: &past,
		}, nil)

		_, err := svc.VerifyEmail(ctx, 1, "123456")
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("CouponFailureDoesNotFailVerification", func(t *testing.T) {
		repo := new(MockRepository)
		coupons := new(MockCouponService)
		svc := NewService(repo, coupons, new(MockMailer))

		repo.On("FindByID", ctx, uint(1)).Return(&User{
			ID: 1, VerificationCode: &code, VerificationExpiresAt: &future,
		}, nil)
		repo.On("MarkVerified", ctx, uint(1)).Return(nil)
		coupons.On("IssueWelcomeCoupon", ctx, uint(1)).Return(nil, assert.AnError)

		u, err := svc.VerifyEmail(ctx, 1, "123456")
		assert.NoError(t, err)
		assert.True(t, u.IsVerified)
	})
}
