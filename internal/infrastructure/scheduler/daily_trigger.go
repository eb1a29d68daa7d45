// Package scheduler runs background jobs once a day at a fixed UTC time.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mercearia/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// Job is the work a trigger runs
type Job func(ctx context.Context) error

// DailyTriggerConfig configures a DailyTrigger
type DailyTriggerConfig struct {
	Name          string
	Hour          int
	Minute        int
	CheckInterval time.Duration
	Timeout       time.Duration
}

// ParseDailySchedule reads "minute hour * * *". Day, month and weekday
// fields must be "*" when present.
func ParseDailySchedule(expr string) (hour, minute int, err error) {
	parts := strings.Fields(expr)
	if len(parts) < 2 || len(parts) > 5 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, expr)
	}
	for _, p := range parts[2:] {
		if p != "*" {
			return 0, 0, fmt.Errorf("%w: only daily schedules are supported, got %q", ErrInvalidSchedule, expr)
		}
	}
	minute, err = strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute must be 0-59 in %q", ErrInvalidSchedule, expr)
	}
	hour, err = strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour must be 0-23 in %q", ErrInvalidSchedule, expr)
	}
	return hour, minute, nil
}

// DailyTrigger runs a job once per UTC day when the clock passes
// Hour:Minute. The day is claimed first, so with a shared Claimer only one
// process runs it.
type DailyTrigger struct {
	config DailyTriggerConfig
	job    Job
	claims cache.Claimer
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	lastRunDate string
}

// NewDailyTrigger creates a stopped trigger
func NewDailyTrigger(config DailyTriggerConfig, job Job, claims cache.Claimer, logger *zap.Logger) *DailyTrigger {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &DailyTrigger{
		config: config,
		job:    job,
		claims: claims,
		logger: logger.With(zap.String("job", config.Name)),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Start begins checking the clock in the background
func (d *DailyTrigger) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return ErrAlreadyRunning
	}
	ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go d.loop(ctx)

	d.logger.Info("daily trigger started",
		zap.Int("hour", d.config.Hour),
		zap.Int("minute", d.config.Minute),
		zap.Duration("check_interval", d.config.CheckInterval),
	)
	return nil
}

// Stop cancels a running job and waits for it until ctx is done
func (d *DailyTrigger) Stop(ctx context.Context) error {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.logger.Info("daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *DailyTrigger) loop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs the job if today's run is due and this process has not run it
// yet. It returns whether the job was started here.
func (d *DailyTrigger) Tick(ctx context.Context) bool {
	now := d.now()
	today := now.Format("2006-01-02")
	due := time.Date(now.Year(), now.Month(), now.Day(), d.config.Hour, d.config.Minute, 0, 0, time.UTC)

	d.mu.Lock()
	if d.lastRunDate == today || now.Before(due) {
		d.mu.Unlock()
		return false
	}
	d.lastRunDate = today
	d.mu.Unlock()

	claimed, err := d.claims.Claim(ctx, "job:"+d.config.Name+":"+today, 25*time.Hour)
	if err != nil {
		d.logger.Error("failed to claim daily run", zap.String("day", today), zap.Error(err))
		return false
	}
	if !claimed {
		d.logger.Info("daily run already claimed by another instance", zap.String("day", today))
		return false
	}
	_ = d.RunNow(ctx)
	return true
}

// RunNow runs the job bounded by the configured timeout, without claiming
func (d *DailyTrigger) RunNow(ctx context.Context) error {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	started := time.Now()
	err := d.job(ctx)
	if err != nil {
		d.logger.Error("job failed", zap.Duration("duration", time.Since(started)), zap.Error(err))
		return err
	}
	d.logger.Info("job finished", zap.Duration("duration", time.Since(started)))
	return nil
}
