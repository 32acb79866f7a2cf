package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/zecall/dashboard/docs"
	"github.com/zecall/dashboard/internal/api/handler"
	"github.com/zecall/dashboard/internal/api/middleware"
	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// Services are the application services the HTTP layer exposes.
type Services struct {
	Auth          ports.AuthService
	PasswordReset ports.PasswordResetService
	Credits       ports.CreditService
	Campaigns     ports.CampaignService
	Agents        ports.AgentService
	IncomingCalls ports.IncomingCallService
	Emails        ports.EmailService
	Subscriptions ports.SubscriptionService
}

// Options carries the transport-level settings and collaborators of the router.
type Options struct {
	JWTSecret     string
	WebhookSecret string
	Session       handler.SessionCookie
	Dispatcher    handler.CallStatusDispatcher
	Events        ports.EventSubscriber
	Readiness     map[string]handler.PingFunc
	Renderer      echo.Renderer
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Renderer = opts.Renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("zecall"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth, opts.Session, opts.Logger)
	resetHandler := handler.NewPasswordResetHandler(svc.PasswordReset, opts.Logger)
	creditHandler := handler.NewCreditHandler(svc.Credits, opts.Logger)
	webhookHandler := handler.NewWebhookHandler(opts.Dispatcher)
	eventsHandler := handler.NewEventsHandler(opts.Events)
	campaignHandler := handler.NewCampaignHandler(svc.Campaigns, svc.Agents)
	agentHandler := handler.NewAgentHandler(svc.Agents)
	callHandler := handler.NewIncomingCallHandler(svc.IncomingCalls)
	emailHandler := handler.NewEmailHandler(svc.Emails, opts.Session.Secure, opts.Logger)
	subscriptionHandler := handler.NewSubscriptionHandler(svc.Subscriptions)

	authMiddleware := middleware.Auth(opts.JWTSecret, opts.Session.Name)
	pageAuth := middleware.PageAuth(opts.JWTSecret, opts.Session.Name)
	editors := middleware.RBAC(domain.RoleOwner, domain.RoleAdmin)

	// --- Health, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(opts.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Public auth API ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/logout", authHandler.Logout)
	e.POST("/api/auth/forgot-password", resetHandler.ForgotPassword)

	// --- Inbound webhooks ---
	e.POST("/api/webhooks/call-status", webhookHandler.CallStatus,
		echomiddleware.BodyLimit("64K"),
		middleware.WebhookSecret(opts.WebhookSecret),
	)
	e.POST("/api/webhooks/stripe", subscriptionHandler.StripeWebhook)

	// --- Authenticated API ---
	api := e.Group("/api", authMiddleware)

	api.GET("/credits/check", creditHandler.Check)
	api.GET("/credits/balance", creditHandler.Balance)
	api.GET("/credits/usage", creditHandler.Usage)
	api.GET("/events", eventsHandler.Stream)

	api.GET("/campaigns", campaignHandler.List)
	api.GET("/campaigns/:id", campaignHandler.Get)
	api.POST("/campaigns", campaignHandler.Create, editors)
	api.PATCH("/campaigns/:id/status", campaignHandler.ChangeStatus, editors)

	api.GET("/agents", agentHandler.List)
	api.GET("/agents/:id", agentHandler.Get)
	api.POST("/agents", agentHandler.Create, editors)

	api.GET("/incoming-calls", callHandler.List)
	api.GET("/incoming-calls/:id", callHandler.Get)

	api.GET("/gmail/connect", emailHandler.Connect)
	api.GET("/gmail/callback", emailHandler.Callback)
	api.GET("/emails", emailHandler.List)
	api.GET("/emails/:messageId", emailHandler.Get)
	api.POST("/emails", emailHandler.Send)

	api.GET("/subscription", subscriptionHandler.Get)
	api.PATCH("/subscription/auto-renew", subscriptionHandler.SetAutoRenew, editors)

	// --- Public pages ---
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/dashboard/campaigns")
	})
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.LoginSubmit)
	e.GET("/signup", authHandler.SignupPage)
	e.POST("/signup", authHandler.SignupSubmit)
	e.GET("/reset-password/:token", resetHandler.ResetPage)
	e.POST("/reset-password/:token", resetHandler.ResetSubmit)

	// --- Dashboard pages ---
	dash := e.Group("/dashboard", pageAuth)

	dash.GET("/campaigns", campaignHandler.ListPage)
	dash.GET("/campaigns/create", campaignHandler.NewPage)
	dash.POST("/campaigns/create", campaignHandler.CreatePage)

	dash.GET("/ai-agents", agentHandler.ListPage)
	dash.GET("/ai-agents/create", agentHandler.NewPage)
	dash.POST("/ai-agents/create", agentHandler.CreatePage)

	dash.GET("/incoming-calls", callHandler.ListPage)

	dash.GET("/emails", emailHandler.InboxPage)
	dash.GET("/emails/new", emailHandler.ComposePage)
	dash.POST("/emails/new", emailHandler.SendPage)
	dash.GET("/emails/:messageId", emailHandler.DetailPage)

	return e
}
