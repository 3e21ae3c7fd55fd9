package service

import (
	"context"
	"time"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/logger"
)

// ReportService derives dashboards and audits from ledger reads; it never writes.
type ReportService struct {
	ledger *LedgerService
	now    func() time.Time
}

func NewReportService(ledger *LedgerService) *ReportService {
	return &ReportService{ledger: ledger, now: time.Now}
}

func (s *ReportService) Summary(ctx context.Context) *domain.Summary {
	products := s.ledger.ListProducts(ctx)
	return domain.NewSummary(products, s.ledger.LowStockThreshold(), s.now().UTC())
}

func (s *ReportService) Reconcile(ctx context.Context) *domain.Reconciliation {
	products, transactions := s.ledger.Snapshot(ctx)
	report := domain.Reconcile(products, transactions, s.now().UTC())

	for _, drift := range report.Drifts {
		logger.Warn(ctx, "reconcile: product drifted from its transaction log", map[string]any{
			"product_id": drift.ProductID,
			"field":      drift.Field,
			"recorded":   drift.Recorded,
			"replayed":   drift.Replayed,
		})
	}
	return report
}
