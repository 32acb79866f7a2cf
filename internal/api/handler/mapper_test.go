package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

func TestParseRecipients(t *testing.T) {
	got, err := parseRecipients("Ana Ruiz, +15551234567\n\n  +442071234567  \n")
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.Recipient{{Name: "Ana Ruiz", Phone: "+15551234567"}, {Phone: "+442071234567"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	for _, bad := range []string{"", "  \n ", "Bob, 5551234", "+1 555 123 4567"} {
		if _, err := parseRecipients(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseScheduledAt(t *testing.T) {
	if at, err := parseScheduledAt(""); err != nil || at != nil {
		t.Fatalf("empty: %v %v", at, err)
	}
	at, err := parseScheduledAt("2030-05-01T08:15")
	if err != nil || at.Hour() != 8 || at.Location().String() != "UTC" {
		t.Fatalf("unexpected %v %v", at, err)
	}
	if _, err := parseScheduledAt("tomorrow"); err == nil {
		t.Fatal("expected error")
	}
}

func TestListFilterFrom(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?page=-3&limit=500&q=+acme+&status=running", nil), httptest.NewRecorder())

	f := listFilterFrom(c, "tenant-1")
	if f.TenantID != "tenant-1" || f.Search != "acme" || f.Status != "running" {
		t.Fatalf("unexpected filter %+v", f)
	}
	if f.Page.Page != 1 || f.Page.Limit != domain.MaxPageLimit {
		t.Fatalf("page not clamped: %+v", f.Page)
	}
}

func TestPaginationView(t *testing.T) {
	f := ports.ListFilter{Search: "acme", Page: domain.NewPage(2, 10)}
	r := ports.NewListResult([]int{1}, 35, f.Page)

	v := paginationView("/dashboard/campaigns", f, r)
	if v["prev_url"] != "/dashboard/campaigns?page=1&q=acme" || v["next_url"] != "/dashboard/campaigns?page=3&q=acme" {
		t.Fatalf("unexpected links %+v", v)
	}

	last := paginationView("/x", ports.ListFilter{Page: domain.NewPage(4, 10)}, ports.NewListResult([]int{1}, 35, domain.NewPage(4, 10)))
	if _, ok := last["next_url"]; ok {
		t.Fatal("last page must not link forward")
	}
}
