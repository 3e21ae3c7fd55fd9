package store

import (
	"sync"
	"time"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

const DefaultRecentLimit = 5

// TransactionLog is the ordered, append-only history of stock movements.
type TransactionLog struct {
	mu      sync.RWMutex
	entries []*domain.Transaction
	now     func() time.Time
}

func NewTransactionLog(clock func() time.Time) *TransactionLog {
	if clock == nil {
		clock = time.Now
	}
	return &TransactionLog{now: clock}
}

// Load replaces the history. Entries missing a sequence are numbered by position.
func (l *TransactionLog) Load(transactions []*domain.Transaction) {
	entries := make([]*domain.Transaction, len(transactions))
	for i, tx := range transactions {
		c := *tx
		if c.Sequence == 0 {
			c.Sequence = int64(i + 1)
		}
		entries[i] = &c
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = entries
}

// Append stamps tx with the next sequence and, when absent, the current time. Timestamps
// never go backwards: a time earlier than the last entry is raised to it.
func (l *TransactionLog) Append(tx *domain.Transaction) *domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := *tx
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now().UTC()
	}

	var lastSeq int64
	if n := len(l.entries); n > 0 {
		last := l.entries[n-1]
		lastSeq = last.Sequence
		if entry.Timestamp.Before(last.Timestamp) {
			entry.Timestamp = last.Timestamp
		}
	}
	entry.Sequence = lastSeq + 1

	l.entries = append(l.entries, &entry)
	c := entry
	return &c
}

// Recent returns the last n entries, oldest first. n <= 0 means DefaultRecentLimit.
func (l *TransactionLog) Recent(n int) []*domain.Transaction {
	if n <= 0 {
		n = DefaultRecentLimit
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	return cloneTransactions(l.entries[start:])
}

func (l *TransactionLog) All() []*domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneTransactions(l.entries)
}

func (l *TransactionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Truncate drops entries past length. The ledger uses it only to undo an append whose
// write never became durable.
func (l *TransactionLog) Truncate(length int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if length >= 0 && length < len(l.entries) {
		l.entries = l.entries[:length]
	}
}

func cloneTransactions(src []*domain.Transaction) []*domain.Transaction {
	out := make([]*domain.Transaction, len(src))
	for i, tx := range src {
		c := *tx
		out[i] = &c
	}
	return out
}
