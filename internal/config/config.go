package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds environment-driven configuration for the API server.
type Config struct {
	Addr        string `envconfig:"API_ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`
	ShopName    string `envconfig:"SHOP_NAME" default:"Kisfalusi Pince Klubb"`

	Email  Email
	PayPal PayPal
}

// Email configures the SMTP transport and the shop owner's notification address.
type Email struct {
	Host  string `envconfig:"EMAIL_HOST"`
	Port  int    `envconfig:"EMAIL_PORT" default:"587"`
	User  string `envconfig:"EMAIL_USER"`
	Pass  string `envconfig:"EMAIL_PASS"`
	Owner string `envconfig:"OWNER_EMAIL"`
}

// PayPal configures the payment gateway client.
type PayPal struct {
	Mode     string `envconfig:"PAYPAL_MODE" default:"sandbox"`
	ClientID string `envconfig:"PAYPAL_CLIENT_ID"`
	Secret   string `envconfig:"PAYPAL_SECRET"`
}

// Load reads a .env file when present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
