package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/atm-ledger/internal/storage"
)

// Withdraw sets NewBalance when it succeeds.
type Withdraw struct {
	AccountID  string
	Amount     decimal.Decimal
	NewBalance decimal.Decimal

	IAction
}

func (w *Withdraw) Perform(_ context.Context, writer *storage.Writer) error {
	acct, err := writer.Account(w.AccountID)
	if err != nil {
		return err
	}

	if err := acct.TryWithdraw(w.Amount); err != nil {
		return err
	}

	w.NewBalance = acct.Balance()
	return nil
}
