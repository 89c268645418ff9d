package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const reportTimeout = 2 * time.Minute

// LowStockReporter sends the low-stock digest and returns how many products it listed.
type LowStockReporter interface {
	ReportLowStock(ctx context.Context) (int, error)
}

// LowStockScheduler runs the low-stock digest on a cron spec.
type LowStockScheduler struct {
	cron     *cron.Cron
	spec     string
	reporter LowStockReporter
}

func NewLowStockScheduler(spec string, reporter LowStockReporter) *LowStockScheduler {
	return &LowStockScheduler{
		cron:     cron.New(),
		spec:     spec,
		reporter: reporter,
	}
}

// Start registers the job and starts the cron loop. An invalid spec is returned as an error.
func (s *LowStockScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		logger.Error("Failed to add cron job for low stock report", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Low stock scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *LowStockScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	logger.Info("Starting scheduled low stock report")
	count, err := s.reporter.ReportLowStock(ctx)
	if err != nil {
		logger.Error("Failed to send low stock report", err)
		return
	}
	logger.Info("Low stock report finished", map[string]interface{}{
		"products": count,
	})
}

// Stop waits for a running job to finish.
func (s *LowStockScheduler) Stop() {
	logger.Info("Stopping low stock scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Low stock scheduler stopped")
}
