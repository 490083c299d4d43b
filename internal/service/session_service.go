package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/atm-ledger/internal/operator/actions"
	"github.com/carson-networks/atm-ledger/internal/storage"
	"github.com/carson-networks/atm-ledger/internal/storage/account"
)

// decoy is compared against when the account does not exist, so an unknown
// account number costs the same PIN comparison as a known one.
var decoy, _ = account.New("000000000000000", "0000", decimal.Zero)

// SessionService authenticates customers and opens new accounts.
type SessionService struct {
	storage   *storage.Storage
	processor IActionProcessor
	logger    *logrus.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(store *storage.Storage, processor IActionProcessor, logger *logrus.Logger) *SessionService {
	return &SessionService{storage: store, processor: processor, logger: logger}
}

// Login opens a session when pin matches the account's PIN. Unknown account
// and wrong PIN both return ErrAuthFailed.
func (s *SessionService) Login(ctx context.Context, accountID string, pin string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acct, found := s.storage.Find(accountID)
	if !found {
		decoy.ValidatePin(pin)
		s.logger.Info("SessionService.Login.rejected")
		return nil, ErrAuthFailed
	}
	if !acct.ValidatePin(pin) {
		s.logger.Info("SessionService.Login.rejected")
		return nil, ErrAuthFailed
	}

	session, err := newSession(accountID)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("session_id", session.ID.String()).Info("SessionService.Login.authenticated")
	return session, nil
}

// CreateAccount opens an account with a zero balance and logs straight into
// it. If only the save failed, the session is returned along with an error
// matching ErrPersistence.
func (s *SessionService) CreateAccount(ctx context.Context, accountID string, pin string) (*Session, error) {
	action := &actions.CreateAccount{
		AccountID:       accountID,
		PIN:             pin,
		StartingBalance: decimal.Zero,
	}

	err := s.processor.Process(ctx, action)
	if err != nil && !errors.Is(err, ErrPersistence) {
		return nil, err
	}

	session, sessErr := newSession(accountID)
	if sessErr != nil {
		return nil, sessErr
	}
	s.logger.WithField("session_id", session.ID.String()).Info("SessionService.CreateAccount.created")
	return session, err
}

func newSession(accountID string) (*Session, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "generate session id")
	}
	return &Session{
		ID:        id,
		AccountID: accountID,
		StartedAt: time.Now(),
	}, nil
}

// IsAvailable reports whether accountID can be used for a new account.
func (s *SessionService) IsAvailable(accountID string) bool {
	_, found := s.storage.Find(accountID)
	return !found
}
