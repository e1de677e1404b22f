// Package main wires the application together and starts the HTTP
// server.
package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"rosepay/internal/config"
	"rosepay/internal/handlers"
	"rosepay/internal/logger"
	"rosepay/internal/repositories"
	"rosepay/internal/routes"
	"rosepay/internal/services/analytics"
	"rosepay/internal/services/auth"
	"rosepay/internal/services/billsplit"
	"rosepay/internal/services/budget"
	"rosepay/internal/services/gateway"
	"rosepay/internal/services/limits"
	"rosepay/internal/services/links"
	"rosepay/internal/services/merchant"
	"rosepay/internal/services/notification"
	"rosepay/internal/services/recurring"
	"rosepay/internal/services/requests"
	"rosepay/internal/services/transfer"
	"rosepay/internal/services/wallet"
)

func main() {
	config.LoadEnv()

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := repositories.Connect()
	if err != nil {
		zlog.Fatalw("database connection failed", "error", err)
	}
	store := repositories.NewStore(db)

	cache := repositories.NewRedisCache()
	defer cache.Close()

	mailer := notification.NewMailer(zlog)
	validator := limits.NewValidator(limits.ConfigFromEnv())
	engine := transfer.NewEngine(store, cache, validator, mailer, zlog)

	authService := auth.NewService(store, zlog)
	walletService := wallet.NewService(store, cache, zlog)
	linkService := links.NewService(store, engine, zlog)
	requestService := requests.NewService(store, engine, mailer, zlog)
	splitService := billsplit.NewService(store, engine, mailer, zlog)
	recurringService := recurring.NewService(store, engine, mailer, zlog)
	budgetService := budget.NewService(store, zlog)
	merchantService := merchant.NewService(store, zlog)
	gatewayService := gateway.NewService(store, gateway.NewStripeClient(), engine, zlog)
	analyticsService := analytics.NewService(store, zlog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recurring.StartScheduler(ctx, recurringService, time.Minute, zlog)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/auth", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	routes.Register(app, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Wallet:      handlers.NewWalletHandler(walletService),
		Transfer:    handlers.NewTransferHandler(engine),
		Transaction: handlers.NewTransactionHandler(store),
		Links:       handlers.NewPaymentLinkHandler(linkService),
		Requests:    handlers.NewPaymentRequestHandler(requestService),
		BillSplit:   handlers.NewBillSplitHandler(splitService),
		Recurring:   handlers.NewRecurringHandler(recurringService),
		Budget:      handlers.NewBudgetHandler(budgetService),
		Merchant:    handlers.NewMerchantHandler(merchantService),
		Gateway:     handlers.NewGatewayHandler(gatewayService),
		Analytics:   handlers.NewAnalyticsHandler(analyticsService),
	})

	addr := ":" + config.GetEnv("PORT", "3000")
	zlog.Infow("server starting", "addr", addr)
	if err := app.Listen(addr); err != nil {
		zlog.Fatalw("server stopped", "error", err)
	}
}
