package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

func TestAgentHandler_Create(t *testing.T) {
	stub := &stubAgentService{
		createFn: func(ctx context.Context, in ports.CreateAgentInput) (*domain.AIAgent, error) {
			if in.TenantID != "tenant-1" || in.Name != "Sofia" || in.Voice != "alloy" {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.AIAgent{ID: "agent-1", Name: in.Name}, nil
		},
	}
	e := newEcho(t)
	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(jsonRequest(http.MethodPost, "/api/agents", `{"name":"Sofia","voice":"alloy","language":"es-MX"}`), rec), domain.RoleOwner)

	if err := NewAgentHandler(stub).Create(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAgentHandler_Create_MissingVoice(t *testing.T) {
	e := newEcho(t)
	c := withSession(e.NewContext(jsonRequest(http.MethodPost, "/api/agents", `{"name":"Sofia"}`), httptest.NewRecorder()), domain.RoleOwner)
	if code := httpCode(t, NewAgentHandler(&stubAgentService{}).Create(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestAgentHandler_Get_NotFound(t *testing.T) {
	stub := &stubAgentService{
		getFn: func(ctx context.Context, tenantID, id string) (*domain.AIAgent, error) {
			if tenantID != "tenant-1" || id != "other" {
				t.Fatalf("unexpected args %s %s", tenantID, id)
			}
			return nil, domain.ErrNotFound
		},
	}
	e := newEcho(t)
	c := withSession(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/agents/other", nil), httptest.NewRecorder()), domain.RoleMember)
	c.SetParamNames("id")
	c.SetParamValues("other")

	if err := NewAgentHandler(stub).Get(c); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAgentHandler_CreatePage_Rerenders(t *testing.T) {
	e := newEcho(t)
	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(formRequest("/dashboard/ai-agents/create", "name=Sofia&greeting=Hola"), rec), domain.RoleAdmin)

	if err := NewAgentHandler(&stubAgentService{}).CreatePage(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "voice is required") || !strings.Contains(body, `value="Hola"`) {
		t.Fatalf("unexpected form: %s", body)
	}
}

func TestAgentHandler_CreatePage_Redirects(t *testing.T) {
	stub := &stubAgentService{
		createFn: func(ctx context.Context, in ports.CreateAgentInput) (*domain.AIAgent, error) {
			return &domain.AIAgent{ID: "agent-1"}, nil
		},
	}
	e := newEcho(t)
	rec := httptest.NewRecorder()
	c := withSession(e.NewContext(formRequest("/dashboard/ai-agents/create", "name=Sofia&voice=alloy"), rec), domain.RoleAdmin)

	if err := NewAgentHandler(stub).CreatePage(c); err != nil {
		t.Fatal(err)
	}
	if rec.Header().Get("Location") != "/dashboard/ai-agents?created=1" {
		t.Fatalf("unexpected redirect %q", rec.Header().Get("Location"))
	}
}
