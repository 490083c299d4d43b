package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/atm-ledger/internal/storage/account"
)

// Writer is an exclusive write transaction on the store. Commit persists the
// full snapshot; Rollback restores every account touched through the Writer.
// Exactly one of them must be called.
type Writer struct {
	storage *Storage
	ctx     context.Context
	touched map[string]account.Account
	created []string
	done    bool
}

// Write blocks until no other Writer or reader holds the store.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	return &Writer{
		storage: s,
		ctx:     ctx,
		touched: make(map[string]account.Account),
	}, nil
}

// Account returns the live account. The pointer must not be kept after
// Commit or Rollback.
func (w *Writer) Account(id string) (*account.Account, error) {
	if w.done {
		return nil, ErrWriterClosed
	}

	acct, ok := w.storage.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	if _, seen := w.touched[id]; !seen {
		w.touched[id] = *acct
	}
	return acct, nil
}

func (w *Writer) Create(id string, pin string, initialBalance decimal.Decimal) (*account.Account, error) {
	if w.done {
		return nil, ErrWriterClosed
	}
	if _, exists := w.storage.accounts[id]; exists {
		return nil, ErrDuplicateID
	}

	acct, err := account.New(id, pin, initialBalance)
	if err != nil {
		return nil, err
	}

	w.storage.accounts[id] = acct
	w.created = append(w.created, id)
	return acct, nil
}

func (w *Writer) Commit() error {
	if w.done {
		return ErrWriterClosed
	}
	w.done = true
	defer w.storage.mu.Unlock()

	return w.storage.saveLocked(w.ctx)
}

func (w *Writer) Rollback() error {
	if w.done {
		return ErrWriterClosed
	}
	w.done = true
	defer w.storage.mu.Unlock()

	for id, original := range w.touched {
		restored := original
		w.storage.accounts[id] = &restored
	}
	for _, id := range w.created {
		delete(w.storage.accounts, id)
	}
	return nil
}
