package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User // by email
	err   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.users[user.Email] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return domain.ErrUserNotFound
}

// ---------------------------------------------------------------------------
// Credits
// ---------------------------------------------------------------------------

type stubBalances struct {
	balance float64
	err     error
	calls   int
}

func (b *stubBalances) Balance(_ context.Context, _ string) (float64, error) {
	b.calls++
	return b.balance, b.err
}

type stubCache struct {
	values map[string]float64
	getErr error
	setErr error
}

func newStubCache() *stubCache {
	return &stubCache{values: make(map[string]float64)}
}

func (c *stubCache) Get(_ context.Context, userID string) (float64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	v, ok := c.values[userID]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, userID string, balance float64) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.values[userID] = balance
	return nil
}

type stubLedger struct {
	recorded  []domain.CallUsage
	recordErr error
}

func (l *stubLedger) Record(_ context.Context, u domain.CallUsage) error {
	if l.recordErr != nil {
		return l.recordErr
	}
	l.recorded = append(l.recorded, u)
	return nil
}

func (l *stubLedger) ListByUser(_ context.Context, userID string, page domain.Page) ([]domain.CallUsage, int64, error) {
	var out []domain.CallUsage
	for _, u := range l.recorded {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	total := int64(len(out))
	skip := page.Skip()
	if skip > len(out) {
		return nil, total, nil
	}
	end := skip + page.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[skip:end], total, nil
}

type stubPublisher struct {
	published []domain.CreditsUpdated
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, e domain.CreditsUpdated) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, e)
	return nil
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, callID, status string) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, callID, status string) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, callID+":"+status)
	return nil
}

// ---------------------------------------------------------------------------
// Campaigns / agents
// ---------------------------------------------------------------------------

type stubCampaignRepo struct {
	byID      map[string]*domain.Campaign
	createErr error
	// beforeUpdate runs inside UpdateStatus before the stored status is compared.
	beforeUpdate func()
}

func newStubCampaignRepo() *stubCampaignRepo {
	return &stubCampaignRepo{byID: make(map[string]*domain.Campaign)}
}

func (r *stubCampaignRepo) Create(_ context.Context, c *domain.Campaign) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCampaignRepo) FindByID(_ context.Context, tenantID, id string) (*domain.Campaign, error) {
	c, ok := r.byID[id]
	if !ok || c.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCampaignRepo) List(_ context.Context, f ports.ListFilter) ([]*domain.Campaign, int64, error) {
	var matched []*domain.Campaign
	for _, c := range r.byID {
		if c.TenantID != f.TenantID {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubCampaignRepo) UpdateStatus(_ context.Context, tenantID, id string, from, to domain.CampaignStatus, at time.Time) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	c, ok := r.byID[id]
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if c.Status != from {
		return domain.ErrInvalidTransition
	}
	c.Status = to
	c.UpdatedAt = at
	return nil
}

type stubAgentRepo struct {
	byID map[string]*domain.AIAgent
}

func newStubAgentRepo(agents ...*domain.AIAgent) *stubAgentRepo {
	r := &stubAgentRepo{byID: make(map[string]*domain.AIAgent)}
	for _, a := range agents {
		r.byID[a.ID] = a
	}
	return r
}

func (r *stubAgentRepo) Create(_ context.Context, a *domain.AIAgent) error {
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubAgentRepo) FindByID(_ context.Context, tenantID, id string) (*domain.AIAgent, error) {
	a, ok := r.byID[id]
	if !ok || a.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAgentRepo) List(_ context.Context, f ports.ListFilter) ([]*domain.AIAgent, int64, error) {
	var out []*domain.AIAgent
	for _, a := range r.byID {
		if a.TenantID == f.TenantID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

// ---------------------------------------------------------------------------
// Password reset
// ---------------------------------------------------------------------------

type stubResetTokens struct {
	byToken map[string]*domain.PasswordResetToken
	markErr error
}

func newStubResetTokens() *stubResetTokens {
	return &stubResetTokens{byToken: make(map[string]*domain.PasswordResetToken)}
}

func (r *stubResetTokens) Create(_ context.Context, t *domain.PasswordResetToken) error {
	clone := *t
	r.byToken[t.Token] = &clone
	return nil
}

func (r *stubResetTokens) Find(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	t, ok := r.byToken[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	clone := *t
	return &clone, nil
}

func (r *stubResetTokens) MarkUsed(_ context.Context, token string, at time.Time) error {
	if r.markErr != nil {
		return r.markErr
	}
	t, ok := r.byToken[token]
	if !ok {
		return domain.ErrTokenInvalid
	}
	t.UsedAt = &at
	return nil
}

type stubMailer struct {
	to, link string
	err      error
}

func (m *stubMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.to, m.link = to, link
	return m.err
}

// ---------------------------------------------------------------------------
// Subscriptions
// ---------------------------------------------------------------------------

type stubSubscriptionRepo struct {
	byUser map[string]*domain.Subscription
}

func newStubSubscriptionRepo(subs ...*domain.Subscription) *stubSubscriptionRepo {
	r := &stubSubscriptionRepo{byUser: make(map[string]*domain.Subscription)}
	for _, s := range subs {
		r.byUser[s.UserID] = s
	}
	return r
}

func (r *stubSubscriptionRepo) FindByUserID(_ context.Context, userID string) (*domain.Subscription, error) {
	s, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSubscriptionRepo) FindByProviderID(_ context.Context, providerID string) (*domain.Subscription, error) {
	for _, s := range r.byUser {
		if s.ProviderSubscriptionID == providerID {
			clone := *s
			return &clone, nil
		}
	}
	return nil, domain.ErrSubscriptionNotFound
}

func (r *stubSubscriptionRepo) Upsert(_ context.Context, s *domain.Subscription) error {
	clone := *s
	r.byUser[s.UserID] = &clone
	return nil
}

type stubProvider struct {
	autoRenewCalls []bool
	setErr         error
	change         *ports.SubscriptionChange
	parseErr       error
}

func (p *stubProvider) SetAutoRenew(_ context.Context, _ string, autoRenew bool) error {
	if p.setErr != nil {
		return p.setErr
	}
	p.autoRenewCalls = append(p.autoRenewCalls, autoRenew)
	return nil
}

func (p *stubProvider) ParseWebhook(_ []byte, _ string) (*ports.SubscriptionChange, error) {
	return p.change, p.parseErr
}

var errBoom = errors.New("boom")
