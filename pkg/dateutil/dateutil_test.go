package dateutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	expected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	result := StartOfDay(input)

	if !result.Equal(expected) {
		t.Errorf("StartOfDay(%v) = %v, want %v", input, result, expected)
	}
}

func TestYearMonth(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{
			name:  "January pads month",
			input: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
			want:  "202501",
		},
		{
			name:  "December",
			input: time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC),
			want:  "202412",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := YearMonth(tt.input); got != tt.want {
				t.Errorf("YearMonth(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDayKey(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{
			name:  "single digit day and month padded",
			input: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want:  "0101",
		},
		{
			name:  "double digit day",
			input: time.Date(2025, 10, 25, 0, 0, 0, 0, time.UTC),
			want:  "1025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKey(tt.input); got != tt.want {
				t.Errorf("DayKey(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  bool
	}{
		{
			name:  "Saturday",
			input: time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
			want:  true,
		},
		{
			name:  "Sunday",
			input: time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC),
			want:  true,
		},
		{
			name:  "Wednesday",
			input: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			want:  false,
		},
		{
			name:  "Monday",
			input: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeekend(tt.input); got != tt.want {
				t.Errorf("IsWeekend(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	input := time.Date(2025, 1, 1, 15, 4, 5, 0, time.UTC)
	if got := FormatDate(input); got != "2025-01-01" {
		t.Errorf("FormatDate(%v) = %v, want 2025-01-01", input, got)
	}
}
