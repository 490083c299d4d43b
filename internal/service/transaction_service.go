package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/atm-ledger/internal/operator/actions"
	"github.com/carson-networks/atm-ledger/internal/storage"
	"github.com/carson-networks/atm-ledger/internal/storage/account"
)

// TransactionService runs withdrawals, deposits and balance enquiries for an
// open session.
type TransactionService struct {
	storage   *storage.Storage
	processor IActionProcessor
	logger    *logrus.Logger
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage, processor IActionProcessor, logger *logrus.Logger) *TransactionService {
	return &TransactionService{storage: store, processor: processor, logger: logger}
}

// Withdraw returns the new balance. A rejected withdrawal matches
// ErrInsufficientFundsOrInvalidAmount and, for detail, the account reason.
func (s *TransactionService) Withdraw(ctx context.Context, session *Session, amount decimal.Decimal) (decimal.Decimal, error) {
	if session == nil {
		return decimal.Zero, ErrNoSession
	}

	action := &actions.Withdraw{AccountID: session.AccountID, Amount: amount}
	err := s.processor.Process(ctx, action)
	switch {
	case err == nil, errors.Is(err, ErrPersistence):
		s.logFields(session).Info("TransactionService.Withdraw.applied")
		return action.NewBalance, err
	case errors.Is(err, account.ErrInsufficientFunds), errors.Is(err, account.ErrInvalidAmount):
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInsufficientFundsOrInvalidAmount, err)
	case errors.Is(err, storage.ErrAccountNotFound):
		return decimal.Zero, ErrNoSession
	default:
		return decimal.Zero, err
	}
}

// Deposit returns the new balance. A non-positive amount matches ErrInvalidAmount.
func (s *TransactionService) Deposit(ctx context.Context, session *Session, amount decimal.Decimal) (decimal.Decimal, error) {
	if session == nil {
		return decimal.Zero, ErrNoSession
	}

	action := &actions.Deposit{AccountID: session.AccountID, Amount: amount}
	err := s.processor.Process(ctx, action)
	switch {
	case err == nil, errors.Is(err, ErrPersistence):
		s.logFields(session).Info("TransactionService.Deposit.applied")
		return action.NewBalance, err
	case errors.Is(err, account.ErrInvalidAmount):
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	case errors.Is(err, storage.ErrAccountNotFound):
		return decimal.Zero, ErrNoSession
	default:
		return decimal.Zero, err
	}
}

// BalanceEnquiry reads the balance without touching the last activity time.
func (s *TransactionService) BalanceEnquiry(ctx context.Context, session *Session) (*BalanceSummary, error) {
	if session == nil {
		return nil, ErrNoSession
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acct, found := s.storage.Find(session.AccountID)
	if !found {
		return nil, ErrNoSession
	}
	return &BalanceSummary{
		Amount:       acct.Balance(),
		LastActivity: acct.LastActivity(),
	}, nil
}

func (s *TransactionService) logFields(session *Session) *logrus.Entry {
	return s.logger.WithField("session_id", session.ID.String())
}
