package service

import (
	"github.com/pkg/errors"

	"github.com/carson-networks/atm-ledger/internal/storage"
)

var (
	// ErrAuthFailed is returned for an unknown account number and for a wrong
	// PIN alike.
	ErrAuthFailed                       = errors.New("invalid account number or PIN")
	ErrDuplicateID                      = storage.ErrDuplicateID
	ErrInsufficientFundsOrInvalidAmount = errors.New("insufficient funds or invalid amount")
	ErrInvalidAmount                    = errors.New("invalid amount")
	ErrNoSession                        = errors.New("no active session")
	ErrPersistence                      = storage.ErrPersistence
)
