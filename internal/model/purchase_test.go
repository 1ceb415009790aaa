package model

import (
	"testing"
	"time"
)

func TestFrequencyClassification(t *testing.T) {
	tests := []struct {
		in        Frequency
		once      bool
		recurring bool
	}{
		{"once", true, false},
		{" Once ", true, false},
		{"", false, false},
		{"recurring", false, true},
		{"weekly", false, true},
		{"bi-weekly", false, true},
		{"monthly", false, true},
	}
	for _, tt := range tests {
		if got := tt.in.IsOnce(); got != tt.once {
			t.Errorf("%q.IsOnce() = %v, want %v", tt.in, got, tt.once)
		}
		if got := tt.in.IsRecurring(); got != tt.recurring {
			t.Errorf("%q.IsRecurring() = %v, want %v", tt.in, got, tt.recurring)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	tests := map[string]Frequency{
		"":          FrequencyOnce,
		"once":      FrequencyOnce,
		"recurring": FrequencyRecurring,
		"Weekly":    FrequencyRecurring,
		"bi-weekly": FrequencyRecurring,
		"monthly":   FrequencyRecurring,
	}
	for in, want := range tests {
		got, err := ParseFrequency(in)
		if err != nil {
			t.Fatalf("ParseFrequency(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFrequency(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseFrequency("daily"); err == nil {
		t.Fatal("ParseFrequency(daily) returned nil error")
	}
}

func TestItemKey(t *testing.T) {
	if ItemKey("  Milk ") != ItemKey("milk") {
		t.Fatalf("ItemKey should fold case and trim: %q vs %q", ItemKey("  Milk "), ItemKey("milk"))
	}
}

func TestParseCalendarDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	d, err := ParseCalendarDate("2025-09-01", loc)
	if err != nil {
		t.Fatalf("ParseCalendarDate: %v", err)
	}
	if d.Hour() != 12 || d.Day() != 1 || d.Location() != loc {
		t.Fatalf("date = %v, want noon on Sep 1 in %v", d, loc)
	}
	if d.UTC().Day() != 1 {
		t.Fatalf("noon anchoring should survive UTC conversion, got %v", d.UTC())
	}

	ts, err := ParseCalendarDate("2025-09-01T08:30:00Z", loc)
	if err != nil {
		t.Fatalf("ParseCalendarDate(RFC3339): %v", err)
	}
	if !ts.Equal(time.Date(2025, 9, 1, 8, 30, 0, 0, time.UTC)) {
		t.Fatalf("timestamp = %v, want kept as given", ts)
	}

	for _, bad := range []string{"", "09/01/2025", "not a date"} {
		if _, err := ParseCalendarDate(bad, loc); err == nil {
			t.Errorf("ParseCalendarDate(%q) returned nil error", bad)
		}
	}
}

func TestSemesterConfigWindow(t *testing.T) {
	var nilCfg *SemesterConfig
	if nilCfg.HasDates() || nilCfg.HasValidWindow() {
		t.Fatal("nil config must not report a window")
	}
	start := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	cfg := &SemesterConfig{StartDate: start, EndDate: start}
	if !cfg.HasDates() || cfg.HasValidWindow() {
		t.Fatalf("equal dates: HasDates=%v HasValidWindow=%v, want true/false", cfg.HasDates(), cfg.HasValidWindow())
	}
	cfg.EndDate = start.AddDate(0, 3, 0)
	if !cfg.HasValidWindow() {
		t.Fatal("ordered dates should be a valid window")
	}
}

func TestSuggestionStatusValid(t *testing.T) {
	for _, s := range []SuggestionStatus{SuggestionPending, SuggestionApproved, SuggestionDeclined, SuggestionPurchased} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if SuggestionStatus("pending").Valid() {
		t.Error("status comparison is case-sensitive; \"pending\" should be invalid")
	}
}
