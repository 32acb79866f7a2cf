package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

const displayTime = "Jan 2, 2006 15:04"

// formValidator checks values parsed out of free-form page inputs.
var formValidator = validator.New()

// --- Request → Service input ---

func toCampaignInput(req createCampaignRequest, s session) ports.CreateCampaignInput {
	recipients := make([]domain.Recipient, 0, len(req.Recipients))
	for _, r := range req.Recipients {
		recipients = append(recipients, domain.Recipient{Name: strings.TrimSpace(r.Name), Phone: r.Phone})
	}
	return ports.CreateCampaignInput{
		TenantID:    s.TenantID,
		UserID:      s.UserID,
		Name:        req.Name,
		AgentID:     req.AgentID,
		Recipients:  recipients,
		ScheduledAt: req.ScheduledAt,
	}
}

func toAgentInput(req createAgentRequest, s session) ports.CreateAgentInput {
	return ports.CreateAgentInput{
		TenantID:     s.TenantID,
		UserID:       s.UserID,
		Name:         req.Name,
		Voice:        req.Voice,
		Language:     req.Language,
		Greeting:     req.Greeting,
		SystemPrompt: req.SystemPrompt,
	}
}

func toCallStatusEvent(req callStatusRequest, now time.Time) domain.CallStatusEvent {
	return domain.CallStatusEvent{
		CallID:           req.CallID,
		UserID:           req.UserID,
		Duration:         req.Duration,
		BilledMinutes:    req.BilledMinutes,
		RemainingCredits: *req.RemainingCredits,
		Status:           req.Status,
		ReceivedAt:       now,
	}
}

// parseRecipients reads the campaign form's textarea: one recipient per
// line, either "Name, +15551234567" or just the number.
func parseRecipients(text string) ([]domain.Recipient, error) {
	var out []domain.Recipient
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r := domain.Recipient{Phone: line}
		if name, phone, ok := strings.Cut(line, ","); ok {
			r = domain.Recipient{Name: strings.TrimSpace(name), Phone: strings.TrimSpace(phone)}
		}
		if err := formValidator.Var(r.Phone, "required,e164"); err != nil {
			return nil, fmt.Errorf("line %d: %q is not an E.164 phone number", i+1, r.Phone)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	return out, nil
}

// parseScheduledAt reads a datetime-local value as UTC. Empty means unscheduled.
func parseScheduledAt(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", v, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q", v)
	}
	return &t, nil
}

// --- Domain → page view ---

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(displayTime)
}

func campaignView(c *domain.Campaign) map[string]any {
	v := map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"status":     string(c.Status),
		"recipients": len(c.Recipients),
		"created_at": formatTime(c.CreatedAt),
	}
	if c.ScheduledAt != nil {
		v["scheduled_at"] = formatTime(*c.ScheduledAt)
	}
	return v
}

func agentView(a *domain.AIAgent) map[string]any {
	return map[string]any{
		"id":         a.ID,
		"name":       a.Name,
		"voice":      a.Voice,
		"language":   a.Language,
		"created_at": formatTime(a.CreatedAt),
	}
}

func incomingCallView(ic *domain.IncomingCall) map[string]any {
	d := time.Duration(ic.DurationSeconds) * time.Second
	return map[string]any{
		"id":         ic.ID,
		"from":       ic.From,
		"to":         ic.To,
		"status":     ic.Status,
		"started_at": formatTime(ic.StartedAt),
		"duration":   d.String(),
		"summary":    ic.Summary,
	}
}

func emailView(m *domain.EmailMessage) map[string]any {
	return map[string]any{
		"id":      m.ID,
		"from":    m.From,
		"to":      m.To,
		"subject": m.Subject,
		"snippet": m.Snippet,
		"body":    m.Body,
		"date":    formatTime(m.Date),
	}
}

func views[T any](items []T, fn func(T) map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
