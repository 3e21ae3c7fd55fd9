package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/port"
)

var _ port.PersistencePort = (*Store)(nil)

func (s *Store) LoadProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT id, name, description, category, price, quantity, total_stocked, total_sold, created_at, updated_at
		FROM products
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		var (
			p                    domain.Product
			id                   string
			price                int64
			createdAt, updatedAt string
		)
		if err := rows.Scan(&id, &p.Name, &p.Description, &p.Category, &price, &p.Quantity,
			&p.TotalStocked, &p.TotalSold, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.ID = domain.ID(id)
		p.Price = domain.NewAmountFromCents(price)
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("product %s created_at: %w", id, err)
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("product %s updated_at: %w", id, err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

// SaveProducts upserts every product and deletes the rows no longer present.
func (s *Store) SaveProducts(ctx context.Context, products []*domain.Product) error {
	return s.atomically(ctx, func(q querier) error {
		ids := make([]any, len(products))
		for i, p := range products {
			ids[i] = string(p.ID)
			_, err := q.ExecContext(ctx, `
				INSERT INTO products
				(id, position, name, description, category, price, quantity, total_stocked, total_sold, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					position = excluded.position,
					name = excluded.name,
					description = excluded.description,
					category = excluded.category,
					price = excluded.price,
					quantity = excluded.quantity,
					total_stocked = excluded.total_stocked,
					total_sold = excluded.total_sold,
					updated_at = excluded.updated_at
			`,
				string(p.ID), i, p.Name, p.Description, p.Category, int64(p.Price), p.Quantity,
				p.TotalStocked, p.TotalSold, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
			)
			if err != nil {
				return fmt.Errorf("save product %s: %w", p.ID, err)
			}
		}

		query := "DELETE FROM products"
		if len(ids) > 0 {
			query += " WHERE id NOT IN (" + strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",") + ")"
		}
		if _, err := q.ExecContext(ctx, query, ids...); err != nil {
			return fmt.Errorf("delete removed products: %w", err)
		}
		return nil
	})
}

func (s *Store) LoadTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `
		SELECT sequence, product_id, type, quantity, timestamp
		FROM transactions
		ORDER BY sequence
	`)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*domain.Transaction{}
	for rows.Next() {
		var (
			tx        domain.Transaction
			productID string
			txType    string
			timestamp string
		)
		if err := rows.Scan(&tx.Sequence, &productID, &txType, &tx.Quantity, &timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.ProductID = domain.ID(productID)
		tx.Type = domain.TransactionType(txType)
		if tx.Timestamp, err = parseTime(timestamp); err != nil {
			return nil, fmt.Errorf("transaction %d timestamp: %w", tx.Sequence, err)
		}
		transactions = append(transactions, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return transactions, nil
}

// SaveTransactions appends only the entries past the highest stored sequence; the log is
// append-only so earlier rows never change.
func (s *Store) SaveTransactions(ctx context.Context, transactions []*domain.Transaction) error {
	return s.atomically(ctx, func(q querier) error {
		var last int64
		if err := q.QueryRowContext(ctx, "SELECT COALESCE(MAX(sequence), 0) FROM transactions").Scan(&last); err != nil {
			return fmt.Errorf("read last sequence: %w", err)
		}

		for i, tx := range transactions {
			sequence := tx.Sequence
			if sequence == 0 {
				sequence = int64(i + 1)
			}
			if sequence <= last {
				continue
			}
			_, err := q.ExecContext(ctx, `
				INSERT INTO transactions (sequence, product_id, type, quantity, timestamp)
				VALUES (?, ?, ?, ?, ?)
			`, sequence, string(tx.ProductID), string(tx.Type), tx.Quantity, formatTime(tx.Timestamp))
			if err != nil {
				return fmt.Errorf("append transaction %d: %w", sequence, err)
			}
		}
		return nil
	})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
