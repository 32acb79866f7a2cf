package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/api/middleware"
	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
	"github.com/zecall/dashboard/internal/web"
)

// newEcho returns an Echo with the validator and page renderer installed.
func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	r, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = r
	return e
}

func newRequest(method, target string, body io.Reader, contentType string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	return newRequest(method, target, strings.NewReader(body), echo.MIMEApplicationJSON)
}

func formRequest(target, body string) *http.Request {
	return newRequest(http.MethodPost, target, strings.NewReader(body), echo.MIMEApplicationForm)
}

// withSession injects the claims the Auth middleware would set.
func withSession(c echo.Context, role string) echo.Context {
	c.Set(middleware.CtxUserID, "user-1")
	c.Set(middleware.CtxEmail, "ana@example.com")
	c.Set(middleware.CtxRole, role)
	c.Set(middleware.CtxTenantID, "tenant-1")
	return c
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	return he.Code
}

// --- Service stubs ---

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubCreditService struct {
	checkFn   func(ctx context.Context, userID string, duration float64) (*domain.CreditEstimate, error)
	balanceFn func(ctx context.Context, userID string) (float64, error)
	usageFn   func(ctx context.Context, userID string, page domain.Page) (*ports.ListResult[domain.CallUsage], error)
}

func (s *stubCreditService) Check(ctx context.Context, userID string, duration float64) (*domain.CreditEstimate, error) {
	return s.checkFn(ctx, userID, duration)
}

func (s *stubCreditService) Balance(ctx context.Context, userID string) (float64, error) {
	return s.balanceFn(ctx, userID)
}

func (s *stubCreditService) Usage(ctx context.Context, userID string, page domain.Page) (*ports.ListResult[domain.CallUsage], error) {
	return s.usageFn(ctx, userID, page)
}

type stubCampaignService struct {
	createFn       func(ctx context.Context, in ports.CreateCampaignInput) (*domain.Campaign, error)
	getFn          func(ctx context.Context, tenantID, id string) (*domain.Campaign, error)
	listFn         func(ctx context.Context, f ports.ListFilter) (*ports.ListResult[*domain.Campaign], error)
	changeStatusFn func(ctx context.Context, tenantID, id string, status domain.CampaignStatus) (*domain.Campaign, error)
}

func (s *stubCampaignService) Create(ctx context.Context, in ports.CreateCampaignInput) (*domain.Campaign, error) {
	return s.createFn(ctx, in)
}

func (s *stubCampaignService) Get(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	return s.getFn(ctx, tenantID, id)
}

func (s *stubCampaignService) List(ctx context.Context, f ports.ListFilter) (*ports.ListResult[*domain.Campaign], error) {
	return s.listFn(ctx, f)
}

func (s *stubCampaignService) ChangeStatus(ctx context.Context, tenantID, id string, status domain.CampaignStatus) (*domain.Campaign, error) {
	return s.changeStatusFn(ctx, tenantID, id, status)
}

type stubAgentService struct {
	createFn func(ctx context.Context, in ports.CreateAgentInput) (*domain.AIAgent, error)
	getFn    func(ctx context.Context, tenantID, id string) (*domain.AIAgent, error)
	listFn   func(ctx context.Context, f ports.ListFilter) (*ports.ListResult[*domain.AIAgent], error)
}

func (s *stubAgentService) Create(ctx context.Context, in ports.CreateAgentInput) (*domain.AIAgent, error) {
	return s.createFn(ctx, in)
}

func (s *stubAgentService) Get(ctx context.Context, tenantID, id string) (*domain.AIAgent, error) {
	return s.getFn(ctx, tenantID, id)
}

func (s *stubAgentService) List(ctx context.Context, f ports.ListFilter) (*ports.ListResult[*domain.AIAgent], error) {
	if s.listFn == nil {
		return ports.NewListResult[*domain.AIAgent](nil, 0, f.Page), nil
	}
	return s.listFn(ctx, f)
}

type stubIncomingCallService struct {
	getFn  func(ctx context.Context, tenantID, id string) (*domain.IncomingCall, error)
	listFn func(ctx context.Context, f ports.ListFilter) (*ports.ListResult[*domain.IncomingCall], error)
}

func (s *stubIncomingCallService) Get(ctx context.Context, tenantID, id string) (*domain.IncomingCall, error) {
	return s.getFn(ctx, tenantID, id)
}

func (s *stubIncomingCallService) List(ctx context.Context, f ports.ListFilter) (*ports.ListResult[*domain.IncomingCall], error) {
	return s.listFn(ctx, f)
}

type stubEmailService struct {
	connectURLFn func(state string) string
	connectFn    func(ctx context.Context, userID, code string) error
	listFn       func(ctx context.Context, userID string, q ports.EmailListQuery) (*ports.EmailPage, error)
	getFn        func(ctx context.Context, userID, id string) (*domain.EmailMessage, error)
	sendFn       func(ctx context.Context, userID string, msg ports.OutgoingEmail) (string, error)
}

func (s *stubEmailService) ConnectURL(state string) string { return s.connectURLFn(state) }

func (s *stubEmailService) Connect(ctx context.Context, userID, code string) error {
	return s.connectFn(ctx, userID, code)
}

func (s *stubEmailService) List(ctx context.Context, userID string, q ports.EmailListQuery) (*ports.EmailPage, error) {
	return s.listFn(ctx, userID, q)
}

func (s *stubEmailService) Get(ctx context.Context, userID, id string) (*domain.EmailMessage, error) {
	return s.getFn(ctx, userID, id)
}

func (s *stubEmailService) Send(ctx context.Context, userID string, msg ports.OutgoingEmail) (string, error) {
	return s.sendFn(ctx, userID, msg)
}

type stubPasswordResetService struct {
	requestFn  func(ctx context.Context, email string) error
	validateFn func(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	resetFn    func(ctx context.Context, token, password string) error
}

func (s *stubPasswordResetService) Request(ctx context.Context, email string) error {
	return s.requestFn(ctx, email)
}

func (s *stubPasswordResetService) Validate(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	return s.validateFn(ctx, token)
}

func (s *stubPasswordResetService) Reset(ctx context.Context, token, password string) error {
	return s.resetFn(ctx, token, password)
}

type stubSubscriptionService struct {
	getFn       func(ctx context.Context, userID string) (*domain.Subscription, error)
	autoRenewFn func(ctx context.Context, userID string, autoRenew bool) (*domain.Subscription, error)
	webhookFn   func(ctx context.Context, payload []byte, signature string) error
}

func (s *stubSubscriptionService) Get(ctx context.Context, userID string) (*domain.Subscription, error) {
	return s.getFn(ctx, userID)
}

func (s *stubSubscriptionService) SetAutoRenew(ctx context.Context, userID string, autoRenew bool) (*domain.Subscription, error) {
	return s.autoRenewFn(ctx, userID, autoRenew)
}

func (s *stubSubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return s.webhookFn(ctx, payload, signature)
}
