package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/atm-ledger/internal/operator/actions"
	"github.com/carson-networks/atm-ledger/internal/storage"
	"github.com/carson-networks/atm-ledger/internal/storage/account"
)

func testSession(accountID string) *Session {
	return &Session{ID: uuid.Must(uuid.NewV4()), AccountID: accountID, StartedAt: time.Now()}
}

// -- Withdraw tests --

func TestWithdraw_Success(t *testing.T) {
	svc, processor, _ := newTestService(t)
	processor.EXPECT().Process(mock.Anything, mock.AnythingOfType("*actions.Withdraw")).
		RunAndReturn(func(_ context.Context, a actions.IAction) error {
			w := a.(*actions.Withdraw)
			assert.Equal(t, seededID, w.AccountID)
			assert.Equal(t, "200", w.Amount.String())
			w.NewBalance = decimal.RequireFromString("800.00")
			return nil
		})

	balance, err := svc.Transaction.Withdraw(context.Background(), testSession(seededID), decimal.NewFromInt(200))

	require.NoError(t, err)
	assert.Equal(t, "800.00", balance.StringFixed(2))
}

func TestWithdraw_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		reason error
	}{
		{name: "insufficient funds", reason: account.ErrInsufficientFunds},
		{name: "non-positive amount", reason: account.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, processor, _ := newTestService(t)
			processor.EXPECT().Process(mock.Anything, mock.Anything).Return(tt.reason)

			balance, err := svc.Transaction.Withdraw(context.Background(), testSession(seededID), decimal.NewFromInt(1500))

			assert.ErrorIs(t, err, ErrInsufficientFundsOrInvalidAmount)
			assert.ErrorIs(t, err, tt.reason)
			assert.True(t, balance.IsZero())
		})
	}
}

func TestWithdraw_SaveFailureReturnsBalance(t *testing.T) {
	svc, processor, _ := newTestService(t)
	processor.EXPECT().Process(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, a actions.IAction) error {
			a.(*actions.Withdraw).NewBalance = decimal.RequireFromString("800.00")
			return errors.Join(storage.ErrPersistence, errors.New("read-only filesystem"))
		})

	balance, err := svc.Transaction.Withdraw(context.Background(), testSession(seededID), decimal.NewFromInt(200))

	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, "800.00", balance.StringFixed(2))
}

func TestWithdraw_NoSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Transaction.Withdraw(context.Background(), nil, decimal.NewFromInt(1))

	assert.ErrorIs(t, err, ErrNoSession)
}

// -- Deposit tests --

func TestDeposit_Success(t *testing.T) {
	svc, processor, _ := newTestService(t)
	processor.EXPECT().Process(mock.Anything, mock.AnythingOfType("*actions.Deposit")).
		RunAndReturn(func(_ context.Context, a actions.IAction) error {
			a.(*actions.Deposit).NewBalance = decimal.RequireFromString("1050.00")
			return nil
		})

	balance, err := svc.Transaction.Deposit(context.Background(), testSession(seededID), decimal.NewFromInt(50))

	require.NoError(t, err)
	assert.Equal(t, "1050.00", balance.StringFixed(2))
}

func TestDeposit_InvalidAmount(t *testing.T) {
	svc, processor, _ := newTestService(t)
	processor.EXPECT().Process(mock.Anything, mock.Anything).Return(account.ErrInvalidAmount)

	_, err := svc.Transaction.Deposit(context.Background(), testSession(seededID), decimal.RequireFromString("-5.00"))

	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.NotErrorIs(t, err, ErrInsufficientFundsOrInvalidAmount)
}

func TestDeposit_UnknownAccount(t *testing.T) {
	svc, processor, _ := newTestService(t)
	processor.EXPECT().Process(mock.Anything, mock.Anything).Return(storage.ErrAccountNotFound)

	_, err := svc.Transaction.Deposit(context.Background(), testSession("555555555555555"), decimal.NewFromInt(5))

	assert.ErrorIs(t, err, ErrNoSession)
}

// -- BalanceEnquiry tests --

func TestBalanceEnquiry(t *testing.T) {
	svc, _, store := newTestService(t)
	before, _ := store.Find(seededID)

	summary, err := svc.Transaction.BalanceEnquiry(context.Background(), testSession(seededID))

	require.NoError(t, err)
	assert.Equal(t, "1000.00", summary.Amount.StringFixed(2))
	assert.True(t, before.LastActivity().Equal(summary.LastActivity))

	after, _ := store.Find(seededID)
	assert.True(t, before.LastActivity().Equal(after.LastActivity()), "enquiry must not touch last activity")
}

func TestBalanceEnquiry_UnknownAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	summary, err := svc.Transaction.BalanceEnquiry(context.Background(), testSession("555555555555555"))

	assert.ErrorIs(t, err, ErrNoSession)
	assert.Nil(t, summary)
}
