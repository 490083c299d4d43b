package actions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/atm-ledger/internal/storage"
)

type CreateAccount struct {
	AccountID       string
	PIN             string
	StartingBalance decimal.Decimal

	IAction
}

func (c *CreateAccount) Perform(_ context.Context, writer *storage.Writer) error {
	_, err := writer.Create(c.AccountID, c.PIN, c.StartingBalance)
	return err
}
