package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/atm-ledger/internal/config"
	"github.com/carson-networks/atm-ledger/internal/storage/account"
	"github.com/carson-networks/atm-ledger/internal/storage/snapshot"
)

var (
	ErrDuplicateID     = errors.New("account number already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrPersistence     = errors.New("accounts could not be saved")
	ErrSnapshotCorrupt = snapshot.ErrCorrupt
	ErrWriterClosed    = errors.New("writer already committed or rolled back")
	// ErrSavingDisabled is returned by every save while an unreadable
	// snapshot is still in place, so it is never overwritten.
	ErrSavingDisabled = errors.New("unreadable snapshot could not be moved aside, saving disabled")
)

// LoadOutcome tells the caller where the in-memory account set came from.
type LoadOutcome int

const (
	LoadOutcomeLoaded LoadOutcome = iota
	LoadOutcomeSeeded
	LoadOutcomeSeededAfterCorrupt
)

func (o LoadOutcome) String() string {
	switch o {
	case LoadOutcomeLoaded:
		return "loaded"
	case LoadOutcomeSeeded:
		return "seeded"
	case LoadOutcomeSeededAfterCorrupt:
		return "seeded_after_corrupt"
	default:
		return "unknown"
	}
}

// CorruptSnapshotError is returned by Load when the snapshot existed but could
// not be used. The store has been seeded regardless.
type CorruptSnapshotError struct {
	Cause         error
	QuarantinedTo string
	QuarantineErr error
}

func (e *CorruptSnapshotError) Error() string {
	msg := "snapshot unreadable, sample accounts loaded: " + e.Cause.Error()
	if e.QuarantinedTo != "" {
		msg += " (original kept at " + e.QuarantinedTo + ")"
	}
	if e.QuarantineErr != nil {
		msg += " (could not move original aside: " + e.QuarantineErr.Error() + ")"
	}
	return msg
}

func (e *CorruptSnapshotError) Unwrap() error {
	return e.Cause
}

func (e *CorruptSnapshotError) Is(target error) bool {
	return target == ErrSnapshotCorrupt
}

// Observer receives snapshot load and write outcomes.
type Observer interface {
	RecordSnapshotLoad(outcome string)
	RecordSnapshotWrite(err error)
}

type noopObserver struct{}

func (noopObserver) RecordSnapshotLoad(string) {}
func (noopObserver) RecordSnapshotWrite(error) {}

// Seed is an account created when no usable snapshot exists.
type Seed struct {
	ID      string
	PIN     string
	Balance decimal.Decimal
}

// DefaultSeeds are the sample accounts of a first run.
var DefaultSeeds = []Seed{
	{ID: "123456789012345", PIN: "1234", Balance: decimal.RequireFromString("1000.00")},
	{ID: "987654321098765", PIN: "5678", Balance: decimal.RequireFromString("2000.00")},
}

// Storage owns every Account and the snapshot they are persisted to.
// Readers get copies; mutation happens only inside a Writer.
type Storage struct {
	mu       sync.RWMutex
	saveMu   sync.Mutex
	accounts map[string]*account.Account

	file     snapshot.ISnapshotFile
	blocked  error
	seeds    []Seed
	logger   *logrus.Logger
	observer Observer
}

type Option func(*Storage)

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Storage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(s *Storage) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// NewStorage creates a Storage persisted to the JSON snapshot configured in env.
func NewStorage(env *config.Config, opts ...Option) *Storage {
	return New(snapshot.NewJSONFile(env.SnapshotPath), opts...)
}

// New creates an empty Storage persisted to file. Call Load before use.
func New(file snapshot.ISnapshotFile, opts ...Option) *Storage {
	s := &Storage{
		accounts: make(map[string]*account.Account),
		file:     file,
		seeds:    DefaultSeeds,
		logger:   logrus.StandardLogger(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory account set with the stored snapshot. A missing
// snapshot seeds the sample accounts. An unreadable snapshot is moved aside,
// the sample accounts are seeded and a *CorruptSnapshotError is returned. If it
// cannot be moved aside, saving stays disabled until a later Load succeeds.
// Only a cancelled ctx leaves the store untouched.
func (s *Storage) Load(ctx context.Context) (LoadOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.file.Read(ctx)
	if err == nil {
		accounts, restoreErr := fromSnapshot(snap)
		if restoreErr == nil {
			s.accounts = accounts
			s.blocked = nil
			s.logger.WithField("accounts", len(accounts)).Info("Storage.Load.loaded")
			s.observer.RecordSnapshotLoad(LoadOutcomeLoaded.String())
			return LoadOutcomeLoaded, nil
		}
		err = errors.Wrap(errors.WithMessage(ErrSnapshotCorrupt, restoreErr.Error()), "restore accounts")
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return LoadOutcomeSeeded, err
	}

	if errors.Is(err, snapshot.ErrNotFound) {
		if seedErr := s.seedLocked(); seedErr != nil {
			return LoadOutcomeSeeded, seedErr
		}
		s.blocked = nil
		s.logger.WithField("accounts", len(s.accounts)).Info("Storage.Load.seeded")
		s.observer.RecordSnapshotLoad(LoadOutcomeSeeded.String())
		return LoadOutcomeSeeded, nil
	}

	corruptErr := &CorruptSnapshotError{Cause: err}
	corruptErr.QuarantinedTo, corruptErr.QuarantineErr = s.file.Quarantine(ctx)
	if seedErr := s.seedLocked(); seedErr != nil {
		return LoadOutcomeSeededAfterCorrupt, seedErr
	}
	s.blocked = nil
	if corruptErr.QuarantineErr != nil {
		s.blocked = ErrSavingDisabled
	}

	s.logger.WithError(err).
		WithField("quarantined_to", corruptErr.QuarantinedTo).
		WithField("quarantine_error", corruptErr.QuarantineErr).
		Warn("Storage.Load.corrupt snapshot, sample accounts seeded")
	s.observer.RecordSnapshotLoad(LoadOutcomeSeededAfterCorrupt.String())
	return LoadOutcomeSeededAfterCorrupt, corruptErr
}

// Save writes every account to the snapshot. On failure the in-memory state
// is kept and the returned error wraps ErrPersistence.
func (s *Storage) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked(ctx)
}

// Create adds a new account and saves the snapshot. When only the save fails
// the created account is returned together with an ErrPersistence error.
func (s *Storage) Create(ctx context.Context, id string, pin string, initialBalance decimal.Decimal) (account.Account, error) {
	writer, err := s.Write(ctx)
	if err != nil {
		return account.Account{}, err
	}

	acct, err := writer.Create(id, pin, initialBalance)
	if err != nil {
		_ = writer.Rollback()
		return account.Account{}, err
	}
	created := *acct

	return created, writer.Commit()
}

// saveLocked requires s.mu to be held, for reading or writing.
func (s *Storage) saveLocked(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if s.blocked != nil {
		s.observer.RecordSnapshotWrite(s.blocked)
		return fmt.Errorf("%w: %w", ErrPersistence, s.blocked)
	}

	err := s.file.Write(ctx, toSnapshot(s.accounts))
	s.observer.RecordSnapshotWrite(err)
	if err != nil {
		s.logger.WithError(err).Error("Storage.Save.write failed")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.logger.WithField("accounts", len(s.accounts)).Debug("Storage.Save.written")
	return nil
}

func (s *Storage) seedLocked() error {
	accounts := make(map[string]*account.Account, len(s.seeds))
	for _, seed := range s.seeds {
		acct, err := account.New(seed.ID, seed.PIN, seed.Balance)
		if err != nil {
			return errors.Wrapf(err, "seed account %s", seed.ID)
		}
		accounts[seed.ID] = acct
	}
	s.accounts = accounts
	return nil
}

func toSnapshot(accounts map[string]*account.Account) *snapshot.Snapshot {
	snap := &snapshot.Snapshot{
		Accounts: make(map[string]snapshot.PersistAccount, len(accounts)),
	}
	for id, acct := range accounts {
		record := acct.Record()
		snap.Accounts[id] = snapshot.PersistAccount{
			ID:           record.ID,
			PIN:          record.PIN,
			Balance:      decimal.NewNullDecimal(record.Balance),
			LastActivity: record.LastActivity,
		}
	}
	return snap
}

func fromSnapshot(snap *snapshot.Snapshot) (map[string]*account.Account, error) {
	accounts := make(map[string]*account.Account, len(snap.Accounts))
	for id, stored := range snap.Accounts {
		if !stored.Balance.Valid {
			return nil, errors.Errorf("account %s has no balance", id)
		}
		acct, err := account.Restore(account.Record{
			ID:           stored.ID,
			PIN:          stored.PIN,
			Balance:      stored.Balance.Decimal,
			LastActivity: stored.LastActivity,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "account %s", id)
		}
		accounts[id] = acct
	}
	return accounts, nil
}
