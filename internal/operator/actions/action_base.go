package actions

import (
	"context"

	"github.com/carson-networks/atm-ledger/internal/storage"
)

// IAction is one mutating command. Perform runs while the Writer holds the
// store exclusively; returning an error rolls the Writer back.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
