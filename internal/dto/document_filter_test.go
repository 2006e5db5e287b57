package dto

import (
	"testing"
	"time"
)

func TestDocumentFilter_Active(t *testing.T) {
	if (DocumentFilter{}).Active() {
		t.Error("Expected empty filter to be inactive")
	}
	if !(DocumentFilter{EndDate: time.Now()}).Active() {
		t.Error("Expected filter with end date to be active")
	}
}

func TestDocumentFilter_Matches(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)
	filter := DocumentFilter{StartDate: start, EndDate: end}

	tests := []struct {
		ts       time.Time
		expected bool
	}{
		{time.Date(2026, 3, 31, 23, 59, 59, 0, time.Local), false},
		{time.Date(2026, 4, 1, 0, 0, 0, 0, time.Local), true},
		{time.Date(2026, 4, 2, 12, 0, 0, 0, time.Local), true},
		{time.Date(2026, 4, 3, 23, 59, 59, 999999000, time.Local), true},
		{time.Date(2026, 4, 4, 0, 0, 0, 0, time.Local), false},
	}

	for _, tt := range tests {
		if got := filter.Matches(tt.ts); got != tt.expected {
			t.Errorf("Matches(%v) = %v, expected %v", tt.ts, got, tt.expected)
		}
	}
}
