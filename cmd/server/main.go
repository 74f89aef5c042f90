package main

import (
	"database/sql"
	"net/http"

	"storefront-be/internal/analytics"
	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/coupon"
	"storefront-be/internal/db"
	"storefront-be/internal/graph"
	"storefront-be/internal/logger"
	"storefront-be/internal/mailer"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/payment/webhook"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"go.uber.org/zap"
)

// Indirections for testing.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	router := newServer(cfg, database)

	logger.L().Info("GraphQL server running",
		zap.String("addr", "http://localhost:"+cfg.AppPort+"/"),
	)
	return startServerFunc(":"+cfg.AppPort, router)
}

// newServer wires the services and builds the HTTP handler chain.
func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	mail := mailer.NewMailtrapClient(cfg.MailtrapToken, cfg.MailSenderEmail)
	gateway := payment.NewStripeGateway(cfg.StripeSecretKey)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	couponRepo := coupon.NewRepository(database)
	couponSvc := coupon.NewService(couponRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, couponSvc, mail)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	analyticsRepo := analytics.NewRepository(database)
	analyticsSvc := analytics.NewService(analyticsRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(order.Deps{
		Repo:      orderRepo,
		DB:        database,
		Products:  productSvc,
		Carts:     cartRepo,
		Coupons:   couponSvc,
		Users:     userRepo,
		Gateway:   gateway,
		Discounts: payment.NewDiscountCache(gateway),
		Mailer:    mail,
		Config:    cfg,
		Stats:     &metrics.CheckoutMetrics{},
	})

	resolver := &graph.Resolver{
		ProductSvc:   productSvc,
		UserSvc:      userSvc,
		CartSvc:      cartSvc,
		CouponSvc:    couponSvc,
		OrderSvc:     orderSvc,
		AnalyticsSvc: analyticsSvc,
	}

	srv := handler.NewDefaultServer(graph.NewSchema(resolver))
	webhookHandler := webhook.NewHandler(orderSvc, cfg.StripeWebhookSecret)

	mux := setupRouter(middleware.AuthMiddleware(srv), webhookHandler.ServeHTTP)

	return logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.RateLimitMiddleware(mux),
		),
	)
}

// setupRouter mounts the HTTP endpoints.
func setupRouter(graphqlHandler http.Handler, webhookHandler http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("/", playground.Handler("GraphQL Playground", "/query"))
	mux.Handle("/query", graphqlHandler)
	mux.HandleFunc("/webhooks/stripe", webhookHandler)

	return mux
}
