package coupon

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// IssueWelcomeCoupon gives userID their welcome discount. Idempotent:
	// an existing unredeemed coupon of the same percentage is returned
	// instead of creating a duplicate.
	IssueWelcomeCoupon(ctx context.Context, userID uint) (*Coupon, error)
	GetActiveCoupon(ctx context.Context, userID uint) (*Coupon, error)
	Validate(ctx context.Context, code string, userID uint) (*Coupon, error)
	Redeem(ctx context.Context, code string, userID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// NormalizeCode trims and uppercases a user-supplied coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func generateCode(prefix string) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(hex.EncodeToString(buf)))
}

func (s *service) IssueWelcomeCoupon(ctx context.Context, userID uint) (*Coupon, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "IssueWelcomeCoupon"),
		zap.Uint("user_id", userID),
	)

	if userID == 0 {
		return nil, ErrUserNotSpecified
	}

	existing, err := s.repo.FindReusable(ctx, userID, WelcomePercent)
	if err == nil {
		log.Info("reusing existing welcome coupon", zap.String("code", existing.Code))
		return existing, nil
	}
	if !errors.Is(err, ErrCouponNotFound) {
		return nil, err
	}

	code := generateCode(fmt.Sprintf("WELCOME%d", WelcomePercent))
	c, err := s.repo.Create(ctx, code, userID, WelcomePercent)
	if err != nil {
		log.Error("failed to create welcome coupon", zap.Error(err))
		return nil, err
	}

	log.Info("welcome coupon issued", zap.String("code", c.Code))
	return c, nil
}

func (s *service) GetActiveCoupon(ctx context.Context, userID uint) (*Coupon, error) {
	return s.repo.FindActiveForUser(ctx, userID)
}

func (s *service) Validate(ctx context.Context, code string, userID uint) (*Coupon, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, ErrCouponNotFound
	}
	return s.repo.FindActiveUnredeemed(ctx, normalized, userID)
}

func (s *service) Redeem(ctx context.Context, code string, userID uint) error {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return ErrCouponNotFound
	}
	return s.repo.MarkRedeemed(ctx, normalized, userID)
}
