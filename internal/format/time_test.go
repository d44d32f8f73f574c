package format

import (
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want string
	}{
		{"just now", 30 * time.Second, "방금 전"},
		{"under two minutes", 119 * time.Second, "방금 전"},
		{"minutes", 5 * time.Minute, "5분 전"},
		{"fifty nine minutes", 59 * time.Minute, "59분 전"},
		{"ninety minutes is one hour", 90 * time.Minute, "1시간 전"},
		{"hours", 23 * time.Hour, "23시간 전"},
		{"days", 3 * 24 * time.Hour, "3일 전"},
		{"six days", 6*24*time.Hour + 23*time.Hour, "6일 전"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Date(now.Add(-tt.age), now)
			if got != tt.want {
				t.Errorf("Date(now-%v) = %q, want %q", tt.age, got, tt.want)
			}
		})
	}
}

func TestDateAbsoluteAfterAWeek(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	created := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	got := Date(created, now)
	want := "2025년 6월 1일"
	if got != want {
		t.Errorf("Date(%v) = %q, want %q", created, got, want)
	}
}
