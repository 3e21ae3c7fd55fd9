package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/logger"
	"github.com/rafaelleal24/stockledger/internal/core/port"
	"github.com/rafaelleal24/stockledger/internal/core/service"
)

const jobTimeout = 2 * time.Minute

// Scheduler runs the periodic ledger audits: a log reconciliation and a low-stock sweep.
type Scheduler struct {
	cron    *cron.Cron
	reports *service.ReportService
	broker  port.BrokerPort
	cfg     config.SchedulerConfig
	now     func() time.Time
}

// NewScheduler builds the scheduler. broker may be nil, in which case low stock is only logged.
func NewScheduler(cfg config.SchedulerConfig, reports *service.ReportService, broker port.BrokerPort) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		reports: reports,
		broker:  broker,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		logger.Info(context.Background(), "scheduler disabled", nil)
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.ReconcileSpec, s.reconcile); err != nil {
		return fmt.Errorf("failed to schedule reconciliation %q: %w", s.cfg.ReconcileSpec, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.LowStockSpec, func() { s.sweepLowStock() }); err != nil {
		return fmt.Errorf("failed to schedule low stock sweep %q: %w", s.cfg.LowStockSpec, err)
	}

	logger.Info(context.Background(), "starting scheduler", map[string]any{
		"reconcile_spec": s.cfg.ReconcileSpec,
		"low_stock_spec": s.cfg.LowStockSpec,
	})
	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report := s.reports.Reconcile(ctx)
	if report.Consistent() {
		logger.Info(ctx, "scheduled reconciliation: ledger consistent", map[string]any{
			"products":     report.CheckedProducts,
			"transactions": report.CheckedTransactions,
		})
		return
	}
	logger.Warn(ctx, "scheduled reconciliation: drift detected", map[string]any{
		"products":     report.CheckedProducts,
		"transactions": report.CheckedTransactions,
		"drifts":       len(report.Drifts),
	})
}

// sweepLowStock returns how many low-stock alerts were published.
func (s *Scheduler) sweepLowStock() int {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	summary := s.reports.Summary(ctx)
	published := 0
	for _, row := range summary.LowStock {
		logger.Warn(ctx, "low stock", map[string]any{
			"product_id": row.ProductID,
			"name":       row.Name,
			"quantity":   row.Quantity,
			"threshold":  summary.LowStockThreshold,
		})
		if s.broker == nil {
			continue
		}

		product := &domain.Product{ID: row.ProductID, Name: row.Name, Quantity: row.Quantity}
		event := domain.NewLowStockEvent(product, summary.LowStockThreshold, s.now().UTC())
		if err := s.broker.Publish(ctx, event); err != nil {
			logger.Error(ctx, "low stock alert not published", err, map[string]any{
				"product_id": row.ProductID,
			})
			continue
		}
		published++
	}
	return published
}
