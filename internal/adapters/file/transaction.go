package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/rafaelleal24/stockledger/internal/core/port"
)

type unitKey struct{}

// unit collects the writes of one WithTransaction call; nothing reaches disk before commit.
type unit struct {
	products        []productRecord
	hasProducts     bool
	transactions    []transactionRecord
	hasTransactions bool
	outbox          []outboxRecord
}

func (u *unit) stageProducts(records []productRecord) {
	u.products = records
	u.hasProducts = true
}

func (u *unit) stageTransactions(records []transactionRecord) {
	u.transactions = records
	u.hasTransactions = true
}

func unitFromContext(ctx context.Context) *unit {
	u, _ := ctx.Value(unitKey{}).(*unit)
	return u
}

type TransactionManager struct {
	store *Store
}

func NewTransactionManager(store *Store) port.TransactionManager {
	return &TransactionManager{store: store}
}

// WithTransaction stages every write made through ctx and commits them once fn returns
// nil. The commit replaces the transaction log, then the products, then the outbox; if
// any step fails, the files already replaced are put back to their previous content.
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if unitFromContext(ctx) != nil {
		return fn(ctx)
	}

	u := &unit{}
	if err := fn(context.WithValue(ctx, unitKey{}, u)); err != nil {
		return err
	}
	return tm.store.commit(u)
}

func (s *Store) commit(u *unit) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var written []fileBackup
	defer func() {
		if err == nil {
			return
		}
		for i := len(written) - 1; i >= 0; i-- {
			if restoreErr := s.restore(written[i]); restoreErr != nil {
				err = errors.Join(err, restoreErr)
			}
		}
	}()

	write := func(name string, v any) error {
		b, err := s.backup(name)
		if err != nil {
			return err
		}
		if err := s.writeJSON(name, v); err != nil {
			return err
		}
		written = append(written, b)
		return nil
	}

	if u.hasTransactions {
		if err := write(transactionsFile, u.transactions); err != nil {
			return err
		}
	}
	if u.hasProducts {
		if err := write(productsFile, u.products); err != nil {
			return err
		}
	}
	if len(u.outbox) > 0 {
		var pending []outboxRecord
		if err := s.readJSON(outboxFile, &pending); err != nil {
			return fmt.Errorf("append outbox: %w", err)
		}
		if err := write(outboxFile, append(pending, u.outbox...)); err != nil {
			return err
		}
	}
	return nil
}
