package main

import (
	"database/sql"
	"errors"
	"log"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kisfalusipince/wine-shop-backend/internal/config"
	"github.com/kisfalusipince/wine-shop-backend/internal/mail"
	"github.com/kisfalusipince/wine-shop-backend/internal/monitoring"
	"github.com/kisfalusipince/wine-shop-backend/internal/order"
	"github.com/kisfalusipince/wine-shop-backend/internal/payment"
	"github.com/kisfalusipince/wine-shop-backend/internal/product"
	"github.com/kisfalusipince/wine-shop-backend/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := openDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := migrate(db); err != nil {
		logger.Fatal("schema setup failed", zap.Error(err))
	}

	gateway, err := payment.NewPayPalGateway(cfg.PayPal.Mode, cfg.PayPal.ClientID, cfg.PayPal.Secret, logger)
	if err != nil {
		logger.Fatal("paypal client failed", zap.Error(err))
	}

	mailer := mail.NewSMTPSender(cfg.Email.Host, cfg.Email.Port, cfg.Email.User, cfg.Email.Pass, cfg.Email.Owner, cfg.ShopName)

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	productHandler := product.NewHandler(product.NewService(product.NewPostgresRepository(db)))

	orderService := order.NewService(order.NewPostgresRepository(db), gateway, mailer, cfg.FrontendURL, logger)
	orderHandler := order.NewHandler(orderService)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler(logger)})
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(monitoring.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// public routes must be registered before the JWT middleware
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Bejelentkezés szükséges."})
		},
	}))

	userHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	admin := app.Group("/api/admin", user.AdminOnly)
	userHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func openDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			"userID" SERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'customer',
			"createdAt" TEXT,
			"updatedAt" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			"productID" SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			price numeric NOT NULL DEFAULT 0,
			stock INT NOT NULL DEFAULT 0,
			description TEXT,
			image TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			"orderID" SERIAL PRIMARY KEY,
			"customerID" INT NOT NULL,
			customer jsonb NOT NULL DEFAULT '{}',
			items jsonb NOT NULL DEFAULT '[]',
			total numeric NOT NULL DEFAULT 0,
			"shippingFee" numeric NOT NULL DEFAULT 0,
			"totalPrice" numeric NOT NULL DEFAULT 0,
			"paymentMethod" TEXT,
			status TEXT,
			"paymentDetails" jsonb,
			"createdAt" TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// errorHandler is the catch-all: any error escaping a handler still yields a
// well-formed JSON response.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(code).JSON(fiber.Map{
			"message": "Szerverhiba történt, kérjük próbálja újra később.",
			"error":   err.Error(),
		})
	}
}
