package account

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidFormat     = errors.New("malformed account number or PIN")
	ErrNegativeBalance   = errors.New("balance cannot be negative")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMissingTimestamp  = errors.New("last activity timestamp is missing")
)

// Account is the ledger record for one customer. All balance mutation goes
// through TryWithdraw and TryDeposit, which keep the balance non-negative.
type Account struct {
	id           string
	pin          string
	balance      decimal.Decimal
	lastActivity time.Time
}

// Record is the persisted form of an Account.
type Record struct {
	ID           string
	PIN          string
	Balance      decimal.Decimal
	LastActivity time.Time
}

// New creates an account with the given opening balance.
func New(id string, pin string, initialBalance decimal.Decimal) (*Account, error) {
	if !IsValidID(id) || !IsValidPIN(pin) {
		return nil, ErrInvalidFormat
	}
	if initialBalance.IsNegative() {
		return nil, ErrNegativeBalance
	}

	return &Account{
		id:           id,
		pin:          pin,
		balance:      initialBalance,
		lastActivity: time.Now(),
	}, nil
}

// Restore rebuilds an account from its persisted record, rejecting records
// that could not have been produced by this package.
func Restore(record Record) (*Account, error) {
	if !IsValidID(record.ID) || !IsValidPIN(record.PIN) {
		return nil, ErrInvalidFormat
	}
	if record.Balance.IsNegative() {
		return nil, ErrNegativeBalance
	}
	if record.LastActivity.IsZero() {
		return nil, ErrMissingTimestamp
	}

	return &Account{
		id:           record.ID,
		pin:          record.PIN,
		balance:      record.Balance,
		lastActivity: record.LastActivity,
	}, nil
}

func (a *Account) ID() string {
	return a.id
}

func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

func (a *Account) LastActivity() time.Time {
	return a.lastActivity
}

// ValidatePin reports whether candidate matches the stored PIN.
func (a *Account) ValidatePin(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(a.pin), []byte(candidate)) == 1
}

// TryWithdraw removes amount from the balance. On error the account is unchanged.
func (a *Account) TryWithdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}

	a.balance = a.balance.Sub(amount)
	a.touch()
	return nil
}

// TryDeposit adds amount to the balance. On error the account is unchanged.
func (a *Account) TryDeposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	a.balance = a.balance.Add(amount)
	a.touch()
	return nil
}

// Withdraw succeeds iff 0 < amount <= balance.
func (a *Account) Withdraw(amount decimal.Decimal) bool {
	return a.TryWithdraw(amount) == nil
}

// Deposit succeeds iff amount > 0.
func (a *Account) Deposit(amount decimal.Decimal) bool {
	return a.TryDeposit(amount) == nil
}

// Record returns the persisted form of the account, PIN included.
func (a *Account) Record() Record {
	return Record{
		ID:           a.id,
		PIN:          a.pin,
		Balance:      a.balance,
		LastActivity: a.lastActivity,
	}
}

func (a *Account) touch() {
	now := time.Now()
	// Keep lastActivity monotonic even if the wall clock steps backwards.
	if now.Before(a.lastActivity) {
		now = a.lastActivity
	}
	a.lastActivity = now
}
