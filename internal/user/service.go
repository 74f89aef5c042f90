package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"storefront-be/internal/coupon"
	"storefront-be/internal/logger"
	"storefront-be/internal/mailer"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (string, *User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	VerifyEmail(ctx context.Context, userID uint, code string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
}

type service struct {
	repo      Repository
	couponSvc coupon.Service
	mail      mailer.Mailer
}

func NewService(repo Repository, couponSvc coupon.Service, mail mailer.Mailer) Service {
	return &service{repo: repo, couponSvc: couponSvc, mail: mail}
}

// generateVerificationCode returns a 6-digit numeric code.
func generateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 900000)
	}
	return fmt.Sprint(n.Int64() + 100000)
}

func (s *service) Register(ctx context.Context, name, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", nil, err
	}

	code := generateVerificationCode()
	u, err := s.repo.Create(ctx, strings.TrimSpace(name), email, hashed, code)
	if err != nil {
		log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return "", nil, err
	}

	// fire-and-forget; registration stands even if the email bounces
	if err := s.mail.SendVerificationEmail(ctx, u.Email, code); err != nil {
		log.Error("failed to send verification email", zap.Error(err))
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return "", nil, err
	}

	log.Info("register service completed",
		zap.Uint("user_id", u.ID),
		zap.String("email", u.Email),
	)
	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, u.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, string(u.Role), u.Email)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// VerifyEmail marks the account verified and issues the welcome coupon.
// Coupon issuance and the coupon email are best-effort: verification is
// already durable when they run.
func (s *service) VerifyEmail(ctx context.Context, userID uint, code string) (*User, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("user_id", userID))

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.IsVerified {
		return nil, ErrAlreadyVerified
	}

	if u.VerificationCode == nil || *u.VerificationCode != strings.TrimSpace(code) {
		return nil, ErrInvalidCode
	}
	if u.VerificationExpiresAt == nil || time.Now().After(*u.VerificationExpiresAt) {
		return nil, ErrInvalidCode
	}

	if err := s.repo.MarkVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	u.IsVerified = true

	c, err := s.couponSvc.IssueWelcomeCoupon(ctx, u.ID)
	if err != nil {
		log.Error("failed to issue welcome coupon", zap.Error(err))
		return u, nil
	}

	if err := s.mail.SendWelcomeCoupon(ctx, u.Email, u.Name, c.Code, c.DiscountPercentage); err != nil {
		log.Error("failed to send welcome coupon email", zap.Error(err))
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
