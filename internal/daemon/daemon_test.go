package daemon

import (
	"testing"
	"time"

	"github.com/jamebal/hacs-chinese-holidays/internal/holiday"
	"go.uber.org/zap"
)

type stubProvider struct {
	days  holiday.MonthData
	calls int
}

func (p *stubProvider) FetchMonth(yearMonth string) (holiday.MonthData, error) {
	p.calls++
	return p.days, nil
}

func TestShouldRunAt(t *testing.T) {
	logger := zap.NewNop()
	d := NewDaemon(nil, 6, 30, false, logger)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "exact match",
			now:  time.Date(2025, 1, 15, 6, 30, 12, 0, time.Local),
			want: true,
		},
		{
			name: "wrong minute",
			now:  time.Date(2025, 1, 15, 6, 31, 0, 0, time.Local),
			want: false,
		},
		{
			name: "wrong hour",
			now:  time.Date(2025, 1, 15, 7, 30, 0, 0, time.Local),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.shouldRunAt(tt.now); got != tt.want {
				t.Errorf("shouldRunAt(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestCalculateNextRun(t *testing.T) {
	logger := zap.NewNop()
	d := NewDaemon(nil, 6, 30, false, logger)

	next := d.calculateNextRun()

	if !next.After(time.Now()) {
		t.Errorf("next run %v is not in the future", next)
	}
	if next.Hour() != 6 || next.Minute() != 30 {
		t.Errorf("next run at %02d:%02d, want 06:30", next.Hour(), next.Minute())
	}
	if time.Until(next) > 24*time.Hour {
		t.Errorf("next run %v is more than a day away", next)
	}
}

func TestRunRefreshRecordsResult(t *testing.T) {
	logger := zap.NewNop()
	provider := &stubProvider{days: holiday.MonthData{}}
	classifier := holiday.NewClassifier(provider, nil, logger)
	d := NewDaemon(classifier, 0, 5, false, logger)

	d.runRefresh()

	status := d.GetStatus()
	if status["state"] != holiday.StateWorkday {
		t.Errorf("status state = %v, want %v", status["state"], holiday.StateWorkday)
	}
	if _, ok := status["last_run"]; !ok {
		t.Error("last_run missing from status after refresh")
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}
