package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hospos/backend/internal/domain/analytics"
)

// ErrSchedulerRunning is returned when Start is called twice
var ErrSchedulerRunning = errors.New("scheduler is already running")

// CompanyProvider lists the companies whose snapshots need recomputing
type CompanyProvider interface {
	ActiveCompanyIDs(ctx context.Context) ([]uuid.UUID, error)
}

// SalesRecomputer rebuilds one company's sales snapshot for a calendar day
type SalesRecomputer interface {
	RecomputeDay(ctx context.Context, companyID uuid.UUID, date time.Time) (*analytics.CompanySalesData, error)
}

// SalesRecomputeConfig holds the daily snapshot job configuration
type SalesRecomputeConfig struct {
	// Schedule is a five-field cron line; only the minute and hour fields
	// are honoured, the job always runs daily.
	Schedule string

	// JobTimeout bounds one company's recompute
	JobTimeout time.Duration

	// CheckInterval is how often the loop checks whether it is time to run
	CheckInterval time.Duration
}

// DefaultSalesRecomputeConfig returns the default job configuration: 2am
// daily, checked every minute.
func DefaultSalesRecomputeConfig() SalesRecomputeConfig {
	return SalesRecomputeConfig{
		Schedule:      "0 2 * * *",
		JobTimeout:    10 * time.Minute,
		CheckInterval: time.Minute,
	}
}

// SalesRecomputeScheduler rebuilds yesterday's sales snapshot for every
// active company once a day.
type SalesRecomputeScheduler struct {
	hour      int
	minute    int
	config    SalesRecomputeConfig
	companies CompanyProvider
	recompute SalesRecomputer
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
	lastRunDate string
}

// NewSalesRecomputeScheduler creates the daily snapshot scheduler
func NewSalesRecomputeScheduler(
	config SalesRecomputeConfig,
	companies CompanyProvider,
	recompute SalesRecomputer,
	logger *zap.Logger,
) (*SalesRecomputeScheduler, error) {
	hour, minute, err := parseDailySchedule(config.Schedule)
	if err != nil {
		return nil, err
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 10 * time.Minute
	}
	return &SalesRecomputeScheduler{
		hour:      hour,
		minute:    minute,
		config:    config,
		companies: companies,
		recompute: recompute,
		logger:    logger.Named("sales-recompute"),
	}, nil
}

// Start launches the scheduling loop
func (s *SalesRecomputeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrSchedulerRunning
	}
	s.running = true

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.loop(loopCtx)

	s.logger.Info("daily sales recompute scheduled",
		zap.Int("hour", s.hour),
		zap.Int("minute", s.minute))
	return nil
}

// Stop halts the loop and waits for an in-flight run to finish
func (s *SalesRecomputeScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SalesRecomputeScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.due(now) {
				s.RunOnce(ctx, now)
			}
		}
	}
}

// due reports whether the scheduled time has passed today and no run has
// happened yet for today.
func (s *SalesRecomputeScheduler) due(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := now.Format("2006-01-02")
	if s.lastRunDate == today {
		return false
	}
	if now.Hour() > s.hour || (now.Hour() == s.hour && now.Minute() >= s.minute) {
		s.lastRunDate = today
		return true
	}
	return false
}

// RunOnce rebuilds yesterday's snapshot for every active company. Failures
// are logged per company; one bad company does not stop the rest.
func (s *SalesRecomputeScheduler) RunOnce(ctx context.Context, now time.Time) {
	yesterday := now.AddDate(0, 0, -1)

	companyIDs, err := s.companies.ActiveCompanyIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list active companies", zap.Error(err))
		return
	}

	s.logger.Info("recomputing sales snapshots",
		zap.Int("companies", len(companyIDs)),
		zap.String("date", yesterday.Format("2006-01-02")))

	for _, companyID := range companyIDs {
		jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
		_, err := s.recompute.RecomputeDay(jobCtx, companyID, yesterday)
		cancel()
		if err != nil {
			s.logger.Error("snapshot recompute failed",
				zap.String("company_id", companyID.String()),
				zap.Error(err))
		}
	}
}

// parseDailySchedule extracts the minute and hour from a five-field cron
// line. Day, month and weekday fields must be "*": the job is daily only.
func parseDailySchedule(schedule string) (hour, minute int, err error) {
	fields := strings.Fields(schedule)
	if len(fields) != 5 {
		return 0, 0, fmt.Errorf("schedule %q must have five cron fields", schedule)
	}
	for _, f := range fields[2:] {
		if f != "*" {
			return 0, 0, fmt.Errorf("schedule %q: only daily schedules are supported", schedule)
		}
	}
	minute, err = strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("schedule %q: invalid minute field", schedule)
	}
	hour, err = strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("schedule %q: invalid hour field", schedule)
	}
	return hour, minute, nil
}
