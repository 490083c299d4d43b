package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/atm-ledger/internal/storage"
)

// Deposit sets NewBalance when it succeeds.
type Deposit struct {
	AccountID  string
	Amount     decimal.Decimal
	NewBalance decimal.Decimal

	IAction
}

func (d *Deposit) Perform(_ context.Context, writer *storage.Writer) error {
	acct, err := writer.Account(d.AccountID)
	if err != nil {
		return err
	}

	if err := acct.TryDeposit(d.Amount); err != nil {
		return err
	}

	d.NewBalance = acct.Balance()
	return nil
}
