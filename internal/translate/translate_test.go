package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTableLocalize(t *testing.T) {
	table := NewTable(nil)
	ctx := context.Background()

	tests := []struct {
		in   string
		want string
	}{
		{"CPI m/m", "CPI月率"},
		{"cpi m/m", "CPI月率"},
		{"  Unemployment Rate  ", "失业率"},
		{"Obscure Regional Index", "Obscure Regional Index"}, // unmapped passes through
	}

	for _, tt := range tests {
		if got := table.Localize(ctx, tt.in); got != tt.want {
			t.Errorf("Localize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTableFallback(t *testing.T) {
	fallback := LocalizerFunc(func(_ context.Context, text string) string {
		return "translated:" + text
	})
	table := NewTable(fallback)
	ctx := context.Background()

	// Mapped terms never reach the fallback.
	if got := table.Localize(ctx, "CPI m/m"); got != "CPI月率" {
		t.Errorf("mapped term = %q, want table hit", got)
	}
	if got := table.Localize(ctx, "Obscure Index"); got != "translated:Obscure Index" {
		t.Errorf("unmapped term = %q, want fallback result", got)
	}
}

func TestClientLocalize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"text":"翻译结果"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	if got := c.Localize(context.Background(), "Some Indicator"); got != "翻译结果" {
		t.Errorf("Localize = %q, want 翻译结果", got)
	}
}

func TestClientLocalize_FailureKeepsOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	if got := c.Localize(context.Background(), "Some Indicator"); got != "Some Indicator" {
		t.Errorf("Localize = %q, want original text on failure", got)
	}

	// Unreachable service also keeps the original.
	dead := NewClient("http://127.0.0.1:1", 100*time.Millisecond, nil)
	if got := dead.Localize(context.Background(), "Another"); got != "Another" {
		t.Errorf("Localize = %q, want original text on connection error", got)
	}
}
