package daemon

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jamebal/hacs-chinese-holidays/internal/holiday"
	"github.com/jamebal/hacs-chinese-holidays/pkg/dateutil"
	"go.uber.org/zap"
)

// Daemon runs the classifier once at startup and then once daily at a
// fixed host-local time.
type Daemon struct {
	classifier  *holiday.Classifier
	dailyHour   int // Hour to refresh (0-23)
	dailyMinute int // Minute to refresh (0-59)
	systemTray  bool
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	trayApp     *TrayApp

	mu             sync.Mutex // Protects lastRun/lastResult and the reentrancy flag
	refreshRunning bool
	lastRun        time.Time
	lastResult     holiday.Result
}

// NewDaemon creates a new daemon instance
func NewDaemon(classifier *holiday.Classifier, dailyHour, dailyMinute int, systemTray bool, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		classifier:  classifier,
		dailyHour:   dailyHour,
		dailyMinute: dailyMinute,
		systemTray:  systemTray,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the daemon: an immediate refresh, then the daily schedule.
// Blocks until Stop is called or a termination signal arrives.
func (d *Daemon) Start() error {
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			d.runScheduledLogic()
			return nil
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.runScheduledLogic()
	return nil
}

// runScheduledLogic runs the refresh loop (called from tray or standalone)
func (d *Daemon) runScheduledLogic() {
	d.logger.Info("Daemon started",
		zap.Int("daily_hour", d.dailyHour),
		zap.Int("daily_minute", d.dailyMinute))

	// Initial refresh on attach
	d.runRefresh()

	nextRun := d.calculateNextRun()
	d.logger.Info("Next refresh scheduled",
		zap.Time("next_run", nextRun),
		zap.Duration("wait_duration", time.Until(nextRun)))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Check every minute whether the daily time has arrived
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Daemon stopped")
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			return

		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			if d.trayApp != nil {
				d.trayApp.Stop()
			}
			d.Stop()
			return

		case now := <-ticker.C:
			if d.shouldRunAt(now) {
				d.logger.Info("Starting scheduled refresh", zap.Time("time", now))
				d.runRefresh()

				nextRun = d.calculateNextRun()
				d.logger.Info("Next refresh scheduled",
					zap.Time("next_run", nextRun),
					zap.Duration("wait_duration", time.Until(nextRun)))
			}
		}
	}
}

// Stop stops the daemon; no further scheduled refreshes fire. An in-flight
// fetch is not interrupted.
func (d *Daemon) Stop() {
	d.cancel()
}

// RefreshNow triggers an immediate refresh outside the schedule
func (d *Daemon) RefreshNow() {
	d.logger.Info("Manual refresh triggered")
	d.runRefresh()
}

// runRefresh executes one classification cycle for today. Guarded so a
// manual refresh cannot race a scheduled one.
func (d *Daemon) runRefresh() {
	d.mu.Lock()
	if d.refreshRunning {
		d.mu.Unlock()
		d.logger.Warn("Refresh already running, skipping concurrent execution")
		return
	}
	d.refreshRunning = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.refreshRunning = false
		d.mu.Unlock()
	}()

	today := dateutil.Today()
	result := d.classifier.Refresh(today)

	d.mu.Lock()
	d.lastRun = time.Now()
	d.lastResult = result
	d.mu.Unlock()

	d.logger.Info("Refresh completed",
		zap.Time("date", today),
		zap.String("state", result.State))

	if d.trayApp != nil {
		d.trayApp.UpdateState(result)
	}
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"running":  true,
		"next_run": d.calculateNextRun().Format("2006-01-02 15:04:05"),
	}

	if !d.lastRun.IsZero() {
		status["last_run"] = d.lastRun.Format("2006-01-02 15:04:05")
		status["state"] = d.lastResult.State
	}

	return status
}

// calculateNextRun calculates the next scheduled run (host-local time)
func (d *Daemon) calculateNextRun() time.Time {
	now := time.Now()

	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.dailyHour, d.dailyMinute, 0, 0, time.Local)

	if now.After(today) || now.Equal(today) {
		return today.AddDate(0, 0, 1)
	}

	return today
}

// shouldRunAt checks if a refresh should run at the given time
func (d *Daemon) shouldRunAt(now time.Time) bool {
	local := now.In(time.Local)
	return local.Hour() == d.dailyHour && local.Minute() == d.dailyMinute
}
