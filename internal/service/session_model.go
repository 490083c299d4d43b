package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Session is an authenticated reference to one account for one pass through
// the transaction menu. It holds no balance of its own.
type Session struct {
	ID        uuid.UUID
	AccountID string
	StartedAt time.Time
}

// BalanceSummary is the result of a balance enquiry.
type BalanceSummary struct {
	Amount       decimal.Decimal
	LastActivity time.Time
}
