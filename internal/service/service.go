package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/atm-ledger/internal/operator/actions"
	"github.com/carson-networks/atm-ledger/internal/storage"
)

// IActionProcessor runs a mutating action against the store and persists it.
//
//go:generate mockery --name IActionProcessor --output . --outpkg service --filename mock_IActionProcessor.go --with-expecter
type IActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Session     *SessionService
	Transaction *TransactionService
}

// NewService creates a new Service. Reads go straight to store; every
// mutation is handed to processor.
func NewService(store *storage.Storage, processor IActionProcessor, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Session:     NewSessionService(store, processor, logger),
		Transaction: NewTransactionService(store, processor, logger),
	}
}
