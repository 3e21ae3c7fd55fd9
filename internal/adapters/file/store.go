package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/port"
)

const (
	productsFile     = "products.json"
	transactionsFile = "transactions.json"
	outboxFile       = "outbox.json"
)

// Store persists the ledger as pretty-printed JSON files in one directory. Every file is
// replaced through a synced temp file and a rename, so a reader sees the old or the new
// content and never a truncated file.
type Store struct {
	dir string
	mu  sync.Mutex
	// rename moves a synced temp file over its target.
	rename func(oldpath, newpath string) error
}

var _ port.PersistencePort = (*Store)(nil)

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, rename: os.Rename}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Ping reports whether the data dir is still a writable directory.
func (s *Store) Ping() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(f.Name())
}

func (s *Store) LoadProducts(ctx context.Context) ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []productRecord
	if err := s.readJSON(productsFile, &records); err != nil {
		return nil, err
	}
	products := make([]*domain.Product, len(records))
	for i, rec := range records {
		p, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", productsFile, i, err)
		}
		products[i] = p
	}
	return products, nil
}

func (s *Store) SaveProducts(ctx context.Context, products []*domain.Product) error {
	records := make([]productRecord, len(products))
	for i, p := range products {
		records[i] = toProductRecord(p)
	}
	if u := unitFromContext(ctx); u != nil {
		u.stageProducts(records)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(productsFile, records)
}

func (s *Store) LoadTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []transactionRecord
	if err := s.readJSON(transactionsFile, &records); err != nil {
		return nil, err
	}
	transactions := make([]*domain.Transaction, len(records))
	for i, rec := range records {
		tx, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", transactionsFile, i, err)
		}
		transactions[i] = tx
	}
	return transactions, nil
}

func (s *Store) SaveTransactions(ctx context.Context, transactions []*domain.Transaction) error {
	records := make([]transactionRecord, len(transactions))
	for i, tx := range transactions {
		records[i] = toTransactionRecord(tx)
	}
	if u := unitFromContext(ctx); u != nil {
		u.stageTransactions(records)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(transactionsFile, records)
}

// readJSON treats a missing or empty file as an empty collection. Callers hold s.mu.
func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// writeJSON replaces name atomically. Callers hold s.mu.
func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.writeFile(name, data)
}

func (s *Store) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := s.rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", name, err)
	}
	s.syncDir()
	return nil
}

// fileBackup is the content of a ledger file before a commit touched it.
type fileBackup struct {
	name    string
	data    []byte
	existed bool
}

// backup reads name as raw bytes. Callers hold s.mu.
func (s *Store) backup(name string) (fileBackup, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fileBackup{name: name}, nil
	}
	if err != nil {
		return fileBackup{}, fmt.Errorf("back up %s: %w", name, err)
	}
	return fileBackup{name: name, data: data, existed: true}, nil
}

// restore puts a backed up file back, removing it when it did not exist before.
func (s *Store) restore(b fileBackup) error {
	if !b.existed {
		err := os.Remove(filepath.Join(s.dir, b.name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", b.name, err)
		}
		s.syncDir()
		return nil
	}
	return s.writeFile(b.name, b.data)
}

// syncDir makes the rename durable; not every platform supports syncing a directory.
func (s *Store) syncDir() {
	dir, err := os.Open(s.dir)
	if err != nil {
		return
	}
	_ = dir.Sync()
	_ = dir.Close()
}
