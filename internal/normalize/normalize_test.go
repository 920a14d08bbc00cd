package normalize

import (
	"context"
	"testing"
	"time"

	"github.com/marketbrief/marketbrief/internal/model"
	"github.com/marketbrief/marketbrief/internal/translate"
)

func shanghai(t *testing.T) *time.Location {
	t.Helper()
	zone, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	return zone
}

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	return New(Config{
		TargetCountry: "US",
		Zone:          shanghai(t),
		DayStartHour:  8,
	}, nil, nil)
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CPI m/m (Oct/25)", "CPI m/m"},
		{"CPI m/m", "CPI m/m"},
		{"GDP q/q (Q3) ", "GDP q/q"},
		{"Alphabet Inc. (Class A)", "Alphabet Inc."},
		{"(whole title)", ""},
	}

	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapImportance(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"High", 3},
		{"high", 3},
		{"Medium", 2},
		{"Low", 1},
		{"", 1},
		{"Holiday", 1}, // unknown label maps to lowest tier
	}

	for _, tt := range tests {
		if got := MapImportance(tt.label); got != tt.want {
			t.Errorf("MapImportance(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestWindowBoundary(t *testing.T) {
	zone := shanghai(t)
	day := time.Date(2025, 11, 20, 0, 0, 0, 0, zone)
	window := DayWindow(day, zone, 8)

	// 08:00 Shanghai on Nov 20 is 00:00 UTC the same day.
	lower := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)

	if !window.Contains(lower) {
		t.Error("timestamp exactly at the lower boundary must be included")
	}
	if window.Contains(lower.Add(-time.Nanosecond)) {
		t.Error("timestamp one instant before the lower boundary must be excluded")
	}
	if !window.Contains(lower.Add(24*time.Hour - time.Nanosecond)) {
		t.Error("timestamp just inside the upper boundary must be included")
	}
	if window.Contains(lower.Add(24 * time.Hour)) {
		t.Error("timestamp at the upper boundary must be excluded")
	}
}

func TestWindowDSTTransition(t *testing.T) {
	zone, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}

	// DST ends Nov 2, 2025: the Nov 1 window runs 08:00 EDT to the next
	// day's 08:00 EST, 25 wall-clock hours.
	fallBack := DayWindow(time.Date(2025, 11, 1, 0, 0, 0, 0, zone), zone, 8)

	if got := fallBack.End.Sub(fallBack.Start); got != 25*time.Hour {
		t.Errorf("fall-back window spans %v, want 25h", got)
	}
	morning := time.Date(2025, 11, 2, 7, 30, 0, 0, zone)
	if !fallBack.Contains(morning) {
		t.Error("event before next-day 08:00 local must stay in the window")
	}
	if nextStart := time.Date(2025, 11, 2, 8, 0, 0, 0, zone); !fallBack.End.Equal(nextStart) {
		t.Errorf("window end = %v, want next-day 08:00 local %v", fallBack.End, nextStart)
	}

	// DST starts Mar 8, 2026: 23 hours, and consecutive windows stay
	// contiguous so no event lands in two windows.
	springForward := DayWindow(time.Date(2026, 3, 7, 0, 0, 0, 0, zone), zone, 8)
	next := DayWindow(time.Date(2026, 3, 8, 0, 0, 0, 0, zone), zone, 8)

	if got := springForward.End.Sub(springForward.Start); got != 23*time.Hour {
		t.Errorf("spring-forward window spans %v, want 23h", got)
	}
	if !springForward.End.Equal(next.Start) {
		t.Errorf("windows not contiguous: %v then %v", springForward.End, next.Start)
	}
	boundary := next.Start
	if springForward.Contains(boundary) {
		t.Error("next window's start must be excluded from the previous window")
	}
	if !next.Contains(boundary) {
		t.Error("next window's start must be included in the next window")
	}
}

func TestTimezoneRoundTrip(t *testing.T) {
	// DST-observing zone, one instant per quarter to cross both transitions.
	zone, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}

	instants := []time.Time{
		time.Date(2025, 2, 15, 13, 30, 0, 0, time.UTC),
		time.Date(2025, 5, 15, 13, 30, 0, 0, time.UTC),
		time.Date(2025, 8, 15, 13, 30, 0, 0, time.UTC),
		time.Date(2025, 11, 15, 13, 30, 0, 0, time.UTC),
	}

	for _, ts := range instants {
		back := ts.In(zone).UTC()
		if !back.Equal(ts) {
			t.Errorf("round trip through %s changed %v to %v", zone, ts, back)
		}
	}
}

func TestNormalizeMacro(t *testing.T) {
	n := newTestNormalizer(t)
	day := time.Date(2025, 11, 20, 0, 0, 0, 0, shanghai(t))

	raw := model.RawItem{
		Source:       model.SourceMacro,
		Title:        "CPI m/m (Oct/25)",
		Timestamp:    "2025-11-20 13:30:00",
		Country:      "US",
		ImpactLabel:  "High",
		Forecast:     "0.3",
		Previous:     "0.2",
		UpdateMarker: "2025-11-20T10:00:00Z",
	}

	event, ok := n.Normalize(context.Background(), raw, day)
	if !ok {
		t.Fatal("Normalize dropped a valid record")
	}

	if event.Title != "CPI m/m" {
		t.Errorf("Title = %q, want %q", event.Title, "CPI m/m")
	}
	if event.OriginalTitle != "CPI m/m" {
		t.Errorf("OriginalTitle = %q, want %q", event.OriginalTitle, "CPI m/m")
	}
	if event.Category != model.MacroIndicator {
		t.Errorf("Category = %v, want MacroIndicator", event.Category)
	}
	if event.Importance != 3 {
		t.Errorf("Importance = %d, want 3", event.Importance)
	}
	want := time.Date(2025, 11, 20, 13, 30, 0, 0, time.UTC)
	if !event.TimestampUTC.Equal(want) {
		t.Errorf("TimestampUTC = %v, want %v", event.TimestampUTC, want)
	}
	if event.TimestampUTC.Location() != time.UTC {
		t.Error("TimestampUTC must be stored in UTC")
	}
}

func TestNormalizeMacro_Localizes(t *testing.T) {
	localizer := translate.LocalizerFunc(func(_ context.Context, text string) string {
		if text == "CPI m/m" {
			return "CPI月率"
		}
		return text
	})
	n := New(Config{TargetCountry: "US", Zone: shanghai(t), DayStartHour: 8}, localizer, nil)

	day := time.Date(2025, 11, 20, 0, 0, 0, 0, shanghai(t))
	raw := model.RawItem{
		Source:    model.SourceMacro,
		Title:     "CPI m/m (Oct/25)",
		Timestamp: "2025-11-20 13:30:00",
		Country:   "US",
	}

	event, ok := n.Normalize(context.Background(), raw, day)
	if !ok {
		t.Fatal("Normalize dropped a valid record")
	}
	if event.Title != "CPI月率" {
		t.Errorf("Title = %q, want localized", event.Title)
	}
	if event.OriginalTitle != "CPI m/m" {
		t.Errorf("OriginalTitle = %q, must stay untranslated", event.OriginalTitle)
	}
}

func TestNormalizeMacro_Drops(t *testing.T) {
	n := newTestNormalizer(t)
	day := time.Date(2025, 11, 20, 0, 0, 0, 0, shanghai(t))

	tests := []struct {
		name string
		raw  model.RawItem
	}{
		{
			name: "wrong country",
			raw:  model.RawItem{Source: model.SourceMacro, Title: "CPI m/m", Timestamp: "2025-11-20 13:30:00", Country: "DE"},
		},
		{
			name: "no timestamp",
			raw:  model.RawItem{Source: model.SourceMacro, Title: "CPI m/m", Country: "US"},
		},
		{
			name: "garbage timestamp",
			raw:  model.RawItem{Source: model.SourceMacro, Title: "CPI m/m", Timestamp: "soon", Country: "US"},
		},
		{
			name: "outside display window",
			raw:  model.RawItem{Source: model.SourceMacro, Title: "CPI m/m", Timestamp: "2025-11-19 13:30:00", Country: "US"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := n.Normalize(context.Background(), tt.raw, day); ok {
				t.Error("Normalize retained a record it should drop")
			}
		})
	}
}

func TestNormalizeEarnings(t *testing.T) {
	n := newTestNormalizer(t)
	day := time.Date(2025, 11, 20, 0, 0, 0, 0, shanghai(t))

	tests := []struct {
		session      string
		wantCategory model.Category
		wantHour     int
	}{
		{"bmo", model.PreOpenEarnings, 13},
		{"amc", model.PostCloseEarnings, 21},
		{"--", model.UnscheduledEarnings, 12},
		{"", model.UnscheduledEarnings, 12},
	}

	for _, tt := range tests {
		t.Run("session "+tt.session, func(t *testing.T) {
			raw := model.RawItem{
				Source:      model.SourceEarnings,
				Title:       "Apple Inc.",
				Symbol:      "AAPL",
				Timestamp:   "2025-11-20",
				SessionCode: tt.session,
			}

			event, ok := n.Normalize(context.Background(), raw, day)
			if !ok {
				t.Fatal("Normalize dropped a valid record")
			}
			if event.Category != tt.wantCategory {
				t.Errorf("Category = %v, want %v", event.Category, tt.wantCategory)
			}
			if event.TimestampUTC.Hour() != tt.wantHour {
				t.Errorf("anchor hour = %d, want %d", event.TimestampUTC.Hour(), tt.wantHour)
			}
			if !event.IsEarnings() {
				t.Error("IsEarnings() = false, want true")
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw    string
		wantOK bool
		want   time.Time
	}{
		{"2025-11-20 13:30:00", true, time.Date(2025, 11, 20, 13, 30, 0, 0, time.UTC)},
		{"2025-11-20T10:00:00Z", true, time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)},
		{"2025-11-20", true, time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"tomorrow", false, time.Time{}},
	}

	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.raw)
		if ok != tt.wantOK {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
