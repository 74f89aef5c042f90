package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	DBHost              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBPort              string
	AppPort             string
	AppEnv              string
	ClientURL           string
	StripeSecretKey     string
	StripeWebhookSecret string
	MailtrapToken       string
	MailSenderEmail     string
	ShippingFee         decimal.Decimal
	TaxFee              decimal.Decimal
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:              os.Getenv("DB_HOST"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBPort:              os.Getenv("DB_PORT"),
		AppPort:             os.Getenv("APP_PORT"),
		AppEnv:              os.Getenv("APP_ENV"),
		ClientURL:           os.Getenv("CLIENT_URL"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		MailtrapToken:       os.Getenv("MAILTRAP_TOKEN"),
		MailSenderEmail:     os.Getenv("MAIL_SENDER_EMAIL"),
		ShippingFee:         decimalEnv("SHIPPING_FEE", "5.00"),
		TaxFee:              decimalEnv("TAX_FEE", "2.50"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

// decimalEnv parses a decimal amount from the environment, falling back to
// def when the variable is unset or malformed.
func decimalEnv(key, def string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		raw = def
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("invalid %s value %q, using default %s", key, raw, def)
		d, _ = decimal.NewFromString(def)
	}
	return d
}
