package coupon

import (
	"testing"
	"time"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "save10", "SAVE10"},
		{"mixed case", "Save10", "SAVE10"},
		{"already upper", "SAVE10", "SAVE10"},
		{"surrounding whitespace", "  save10 ", "SAVE10"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCode(tt.input); got != tt.expected {
				t.Errorf("Got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate time.Time
		expired bool
	}{
		{"well before end", now.Add(48 * time.Hour), false},
		{"one second before end", now.Add(time.Second), false},
		{"exactly at end", now, true},
		{"past end", now.Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Coupon{Code: "SAVE10", EndDate: tt.endDate}
			if got := c.IsExpired(now); got != tt.expired {
				t.Errorf("Got %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endDate  time.Time
		expected int
	}{
		{"expired", now.Add(-time.Hour), 0},
		{"expiring now", now, 0},
		{"one hour left rounds up", now.Add(time.Hour), 1},
		{"exactly one day", now.Add(24 * time.Hour), 1},
		{"day and a half rounds up", now.Add(36 * time.Hour), 2},
		{"one week", now.Add(7 * 24 * time.Hour), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Coupon{Code: "SAVE10", EndDate: tt.endDate}
			if got := c.DaysLeft(now); got != tt.expected {
				t.Errorf("Got %d, want %d", got, tt.expected)
			}
		})
	}
}
