package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/fairyhunter13/checkout-service/internal/handler"
)

// Handlers groups every HTTP handler the API mounts.
type Handlers struct {
	Order   *handler.OrderHandler
	Coupon  *handler.CouponHandler
	Webhook *handler.WebhookHandler
	Lead    *handler.LeadHandler
	Payment *handler.PaymentHandler
	Plans   *handler.PlansHandler
	Health  *handler.HealthHandler
	Diag    *handler.DiagHandler
}

// Options tunes the Fiber application.
type Options struct {
	AllowOrigins string
	// DisableAccessLog turns off the request logger, e.g. in tests.
	DisableAccessLog bool
}

// New builds the Fiber application with middleware and routes.
func New(h Handlers, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Checkout Service",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit
	})

	allowOrigins := opts.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	if !opts.DisableAccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,HEAD,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
		MaxAge:       86400,
	}))

	Register(app, h)
	return app
}

// Register mounts the routes. Nil handlers are skipped.
func Register(app *fiber.App, h Handlers) {
	if h.Health != nil {
		app.Get("/health", h.Health.Check)
	}
	if h.Diag != nil {
		app.Get("/_diag", h.Diag.Diag)
	}
	if h.Plans != nil {
		app.Get("/plans", h.Plans.List)
	}
	if h.Coupon != nil {
		app.Post("/validate-coupon", h.Coupon.ValidateCoupon)
	}
	if h.Order != nil {
		app.Post("/create-order", h.Order.CreateOrder)
	}
	if h.Payment != nil {
		app.Post("/verify-payment", h.Payment.VerifyPayment)
	}
	if h.Webhook != nil {
		app.Post("/razorpay-webhook", h.Webhook.Razorpay)
	}
	if h.Lead != nil {
		app.Post("/submit-lead", h.Lead.SubmitLead)
	}
}
