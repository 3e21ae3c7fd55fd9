package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/dto"
	"github.com/rafaelleal24/stockledger/internal/core/logger"
	"github.com/rafaelleal24/stockledger/internal/core/port"
	"github.com/rafaelleal24/stockledger/internal/core/serviceerrors"
	"github.com/rafaelleal24/stockledger/internal/core/store"
)

const DefaultLowStockThreshold = 5

// LedgerService is the only writer of the product store and the transaction log.
//
// Every mutation runs under the write lock from validation until the write is durable, so
// two sells of the same product can never both pass the stock check. Readers take the read
// lock and therefore never see a mutation whose persistence has not finished. When
// persistence fails both stores are restored to their state before the mutation.
type LedgerService struct {
	mu           sync.RWMutex
	products     *store.ProductStore
	transactions *store.TransactionLog

	persistence       port.PersistencePort
	txManager         port.TransactionManager
	outbox            port.OutboxPort
	idempotency       *IdempotencyService[domain.Product]
	lowStockThreshold int
	now               func() time.Time
}

type LedgerOption func(*LedgerService)

// WithOutbox enqueues a ledger event for every committed stock movement.
func WithOutbox(outbox port.OutboxPort) LedgerOption {
	return func(s *LedgerService) { s.outbox = outbox }
}

func WithIdempotency(idempotency *IdempotencyService[domain.Product]) LedgerOption {
	return func(s *LedgerService) { s.idempotency = idempotency }
}

func WithLowStockThreshold(threshold int) LedgerOption {
	return func(s *LedgerService) { s.lowStockThreshold = threshold }
}

func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) { s.now = now }
}

func WithIDGenerator(next func() domain.ID) LedgerOption {
	return func(s *LedgerService) { s.products = store.NewProductStore(next) }
}

func NewLedgerService(persistence port.PersistencePort, txManager port.TransactionManager, opts ...LedgerOption) *LedgerService {
	s := &LedgerService{
		products:          store.NewProductStore(domain.NewID),
		persistence:       persistence,
		txManager:         txManager,
		lowStockThreshold: DefaultLowStockThreshold,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.transactions = store.NewTransactionLog(s.now)
	return s
}

// Load replaces the in-memory state with what the persistence adapter holds. It runs at
// startup and is the recovery path after a crash.
func (s *LedgerService) Load(ctx context.Context) error {
	products, err := s.persistence.LoadProducts(ctx)
	if err != nil {
		logger.Error(ctx, "ledger: load products failed", err, nil)
		return serviceerrors.NewPersistenceError("failed to load products", err)
	}
	transactions, err := s.persistence.LoadTransactions(ctx)
	if err != nil {
		logger.Error(ctx, "ledger: load transactions failed", err, nil)
		return serviceerrors.NewPersistenceError("failed to load transactions", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.products.Load(products); err != nil {
		return err
	}
	s.transactions.Load(transactions)

	logger.Info(ctx, "Ledger loaded", map[string]any{
		"products":     len(products),
		"transactions": len(transactions),
	})
	return nil
}

func (s *LedgerService) CreateProduct(ctx context.Context, request *dto.CreateProductRequest) (*domain.Product, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	product := domain.NewProduct(
		strings.TrimSpace(request.Name),
		request.Description,
		strings.TrimSpace(request.Category),
		dto.ToAmount(*request.Price),
		*request.Quantity,
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	var created *domain.Product
	var tx *domain.Transaction
	err := s.commit(ctx, func() ([]domain.Event, error) {
		var err error
		created, err = s.products.Insert(product)
		if err != nil {
			return nil, err
		}
		tx = s.transactions.Append(domain.NewTransaction(created.ID, domain.TransactionTypeAdd, created.Quantity))
		return []domain.Event{domain.NewStockMovementEvent(tx, created)}, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Product created", map[string]any{
		"product_id": created.ID,
		"quantity":   created.Quantity,
		"sequence":   tx.Sequence,
	})
	return created, nil
}

// UpdateProduct patches descriptive fields, price and quantity. A quantity given here
// overwrites stock without a transaction and without touching the totals, so the
// product drifts from its log; Reconcile reports it.
func (s *LedgerService) UpdateProduct(ctx context.Context, id domain.ID, request *dto.UpdateProductRequest) (*domain.Product, error) {
	if request.IsEmpty() {
		return nil, serviceerrors.NewInvalidRequestError("no fields to update")
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *domain.Product
	var previousQuantity int
	err := s.commit(ctx, func() ([]domain.Event, error) {
		var err error
		updated, err = s.products.Update(id, func(p *domain.Product) error {
			previousQuantity = p.Quantity
			applyProductPatch(p, request)
			p.UpdatedAt = s.now()
			return nil
		})
		return nil, err
	})
	if err != nil {
		return nil, err
	}

	if request.Quantity != nil && *request.Quantity != previousQuantity {
		logger.Warn(ctx, "Product quantity overwritten without a transaction", map[string]any{
			"product_id":        id,
			"previous_quantity": previousQuantity,
			"quantity":          updated.Quantity,
		})
	}
	logger.Info(ctx, "Product updated", map[string]any{"product_id": id})
	return updated, nil
}

func (s *LedgerService) DeleteProduct(ctx context.Context, id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tx *domain.Transaction
	err := s.commit(ctx, func() ([]domain.Event, error) {
		removed, err := s.products.Remove(id)
		if err != nil {
			return nil, err
		}
		tx = s.transactions.Append(domain.NewTransaction(removed.ID, domain.TransactionTypeDelete, removed.Quantity))
		return []domain.Event{domain.NewStockMovementEvent(tx, removed)}, nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "Product deleted", map[string]any{
		"product_id": id,
		"quantity":   tx.Quantity,
		"sequence":   tx.Sequence,
	})
	return nil
}

// RecordTransaction restocks (add) or sells stock. The whole check-mutate-append-persist
// sequence is one unit; a sell larger than the stock fails with the available quantity.
func (s *LedgerService) RecordTransaction(ctx context.Context, request *dto.RecordTransactionRequest) (*domain.Product, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *domain.Product
	var tx *domain.Transaction
	err := s.commit(ctx, func() ([]domain.Event, error) {
		var err error
		updated, err = s.products.Update(request.ProductID, func(p *domain.Product) error {
			return applyMovement(p, request.Type, request.Quantity)
		})
		if err != nil {
			return nil, err
		}
		tx = s.transactions.Append(domain.NewTransaction(updated.ID, request.Type, request.Quantity))

		events := []domain.Event{domain.NewStockMovementEvent(tx, updated)}
		if request.Type == domain.TransactionTypeSell && updated.IsLowStock(s.lowStockThreshold) {
			events = append(events, domain.NewLowStockEvent(updated, s.lowStockThreshold, tx.Timestamp))
		}
		return events, nil
	})
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindInsufficientStock) {
			logger.Warn(ctx, "Sell rejected: insufficient stock", map[string]any{
				"product_id": request.ProductID,
				"requested":  request.Quantity,
			})
		}
		return nil, err
	}

	logger.Info(ctx, "Stock movement recorded", map[string]any{
		"product_id": updated.ID,
		"type":       string(tx.Type),
		"quantity":   tx.Quantity,
		"stock":      updated.Quantity,
		"sequence":   tx.Sequence,
	})
	return updated, nil
}

// RecordTransactionOnce is RecordTransaction guarded by an idempotency key, so a retried
// request is applied once. Without a key or an idempotency store it records directly.
func (s *LedgerService) RecordTransactionOnce(ctx context.Context, idempotencyKey string, request *dto.RecordTransactionRequest) (*domain.Product, error) {
	if idempotencyKey == "" || s.idempotency == nil {
		return s.RecordTransaction(ctx, request)
	}
	return s.idempotency.Do(ctx, idempotencyKey, request, func(ctx context.Context) (*domain.Product, error) {
		return s.RecordTransaction(ctx, request)
	})
}

func (s *LedgerService) ListProducts(ctx context.Context) []*domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.List()
}

func (s *LedgerService) GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.Get(id)
}

// RecentTransactions returns the last n transactions, oldest first; n <= 0 means 5.
func (s *LedgerService) RecentTransactions(ctx context.Context, n int) []*domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions.Recent(n)
}

func (s *LedgerService) AllTransactions(ctx context.Context) []*domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions.All()
}

// Snapshot returns products and transactions read under one lock, so they agree.
func (s *LedgerService) Snapshot(ctx context.Context) ([]*domain.Product, []*domain.Transaction) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products.List(), s.transactions.All()
}

func (s *LedgerService) LowStockThreshold() int {
	return s.lowStockThreshold
}

// commit must be called with s.mu held for writing. apply mutates the in-memory stores and
// returns the events to enqueue; if apply or persistence fails, both stores are rolled back.
func (s *LedgerService) commit(ctx context.Context, apply func() ([]domain.Event, error)) error {
	snapshot := s.products.Snapshot()
	logLength := s.transactions.Len()
	rollback := func() {
		s.products.Restore(snapshot)
		s.transactions.Truncate(logLength)
	}

	events, err := apply()
	if err != nil {
		rollback()
		return err
	}

	products := s.products.List()
	transactions := s.transactions.All()
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.persistence.SaveProducts(txCtx, products); err != nil {
			return err
		}
		if err := s.persistence.SaveTransactions(txCtx, transactions); err != nil {
			return err
		}
		if s.outbox == nil {
			return nil
		}
		for _, event := range events {
			if err := s.outbox.Enqueue(txCtx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		rollback()
		logger.Error(ctx, "ledger: persist failed, mutation rolled back", err, map[string]any{
			"products":     len(products),
			"transactions": len(transactions),
		})
		return serviceerrors.NewPersistenceError("failed to persist ledger", err)
	}
	return nil
}

func applyMovement(p *domain.Product, txType domain.TransactionType, amount int) error {
	switch txType {
	case domain.TransactionTypeAdd:
		if !p.Restock(amount) {
			return serviceerrors.NewValidationError("quantity")
		}
	case domain.TransactionTypeSell:
		if !p.Sell(amount) {
			return serviceerrors.NewInsufficientStockError(p.Quantity, amount)
		}
	default:
		return serviceerrors.NewValidationError("type")
	}
	return nil
}

func applyProductPatch(p *domain.Product, request *dto.UpdateProductRequest) {
	if request.Name != nil {
		p.Name = strings.TrimSpace(*request.Name)
	}
	if request.Description != nil {
		p.Description = *request.Description
	}
	if request.Category != nil {
		p.Category = strings.TrimSpace(*request.Category)
	}
	if request.Price != nil {
		p.Price = dto.ToAmount(*request.Price)
	}
	if request.Quantity != nil {
		p.Quantity = *request.Quantity
	}
}
