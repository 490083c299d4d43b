package api

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/atm-ledger/internal/metrics"
	"github.com/carson-networks/atm-ledger/internal/operator"
	"github.com/carson-networks/atm-ledger/internal/service"
	"github.com/carson-networks/atm-ledger/internal/storage"
	"github.com/carson-networks/atm-ledger/internal/storage/snapshot"
)

type consoleHarness struct {
	console *Console
	store   *storage.Storage
	metrics *metrics.MetricsCollector
	hook    *test.Hook
	out     *bytes.Buffer
}

func newConsole(t *testing.T, path string, script ...string) *consoleHarness {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	store := storage.New(snapshot.NewJSONFile(path), storage.WithLogger(logger))
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	delegator := operator.NewOperatorDelegator(store, 1, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	collector := metrics.NewMetricsCollector(logger)
	out := &bytes.Buffer{}
	return &consoleHarness{
		console: &Console{
			Logger:   logger,
			Service:  service.NewService(store, delegator, logger),
			Metrics:  collector,
			In:       strings.NewReader(strings.Join(script, "\n") + "\n"),
			Out:      out,
			Currency: "INR",
		},
		store:   store,
		metrics: collector,
		hook:    hook,
		out:     out,
	}
}

func tempSnapshot(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "accounts.json")
}

// -- Serve tests --

func TestServe_LoginWithdrawAndBalance(t *testing.T) {
	h := newConsole(t, tempSnapshot(t),
		"1", "123456789012345", "1234",
		"1", "200.00",
		"3",
		"4",
		"3",
	)

	require.NoError(t, h.console.Serve(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Welcome to the ATM")
	assert.Contains(t, out, "Withdrawal successful. New balance: INR 800.00")
	assert.Contains(t, out, "Current balance: INR 800.00")
	assert.Contains(t, out, "Last transaction: ")
	assert.Equal(t, 2, strings.Count(out, "Thank you for using the ATM. Goodbye!"))
	promPath := filepath.Join(t.TempDir(), "atm.prom")
	require.NoError(t, h.metrics.WriteTextfile(promPath))
	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `atm_commands_total{command="Login",outcome="success"} 1`)
	assert.Contains(t, string(prom), `atm_commands_total{command="Withdraw",outcome="success"} 1`)
	assert.Contains(t, string(prom), `atm_commands_total{command="BalanceEnquiry",outcome="success"} 1`)
}

func TestServe_WrongPINIsGeneric(t *testing.T) {
	h := newConsole(t, tempSnapshot(t),
		"1", "123456789012345", "9999",
		"1", "555555555555555", "1234",
		"3",
	)

	require.NoError(t, h.console.Serve(context.Background()))

	assert.Equal(t, 2, strings.Count(h.out.String(), "Invalid account number or PIN. Please try again."))
}

func TestServe_RepromptsOnMalformedInput(t *testing.T) {
	h := newConsole(t, tempSnapshot(t),
		"9",
		"1", "12345", "123456789012345",
		"12a4", "1234",
		"2", "ten", "10.005", "10.50",
		"4",
		"3",
	)

	require.NoError(t, h.console.Serve(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Invalid option. Please try again.")
	assert.Contains(t, out, "Invalid account number. Please enter a 15-digit number.")
	assert.Contains(t, out, "Invalid PIN. Please enter a 4-digit number.")
	assert.Contains(t, out, "Invalid amount. Please enter a number such as 250.00.")
	assert.Contains(t, out, "Invalid amount. Please use at most two decimal places.")
	assert.Contains(t, out, "Deposit successful. New balance: INR 1010.50")
}

func TestServe_RejectedTransactions(t *testing.T) {
	h := newConsole(t, tempSnapshot(t),
		"1", "123456789012345", "1234",
		"1", "1500.00",
		"2", "-5.00",
		"1", "0",
		"4",
		"3",
	)

	require.NoError(t, h.console.Serve(context.Background()))

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "Insufficient funds or invalid amount."))
	assert.Contains(t, out, "Invalid amount.\n")
	acct, _ := h.store.Find("123456789012345")
	assert.Equal(t, "1000.00", acct.Balance().StringFixed(2))
}

func TestServe_CreateAccountThenLogin(t *testing.T) {
	path := tempSnapshot(t)
	h := newConsole(t, path,
		"2", "123456789012345", "111111111111111", "0000",
		"1", "111111111111111", "0000",
		"2", "50.00",
		"4",
		"3",
	)

	require.NoError(t, h.console.Serve(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Account number already exists. Please try a different one.")
	assert.Contains(t, out, "Account created successfully. You can now login with your new account.")
	assert.Contains(t, out, "Deposit successful. New balance: INR 50.00")

	reloaded := newConsole(t, path)
	acct, ok := reloaded.store.Find("111111111111111")
	require.True(t, ok)
	assert.Equal(t, "50.00", acct.Balance().StringFixed(2))
}

func TestServe_OverlongLineIsRepromptedNotFatal(t *testing.T) {
	h := newConsole(t, tempSnapshot(t),
		"1", "123456789012345", "1234",
		"1", strings.Repeat("9", 70000), "100.00",
		"4",
		strings.Repeat("x", 70000), "3",
	)

	require.NoError(t, h.console.Serve(context.Background()))

	out := h.out.String()
	assert.Equal(t, 2, strings.Count(out, "Input too long. Please try again."))
	assert.Contains(t, out, "Withdrawal successful. New balance: INR 900.00")
	assert.Equal(t, 2, strings.Count(out, "Thank you for using the ATM. Goodbye!"))
}

func TestServe_OverlongFinalLineWithoutNewline(t *testing.T) {
	h := newConsole(t, tempSnapshot(t))
	h.console.In = strings.NewReader("1\n" + strings.Repeat("1", 10000))

	assert.NoError(t, h.console.Serve(context.Background()))
	assert.Contains(t, h.out.String(), "Input too long. Please try again.")
}

func TestServe_EndOfInputExits(t *testing.T) {
	h := newConsole(t, tempSnapshot(t), "1", "123456789012345")

	assert.NoError(t, h.console.Serve(context.Background()))
}

func TestServe_CancelledContext(t *testing.T) {
	h := newConsole(t, tempSnapshot(t), "3")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.console.Serve(ctx), context.Canceled)
}

func TestServe_LogsEachCommand(t *testing.T) {
	h := newConsole(t, tempSnapshot(t),
		"1", "123456789012345", "1234",
		"3",
		"4",
		"3",
	)

	require.NoError(t, h.console.Serve(context.Background()))

	var messages []string
	for _, entry := range h.hook.AllEntries() {
		messages = append(messages, entry.Message)
		assert.NotContains(t, entry.Data, "pin")
	}
	assert.Contains(t, messages, "Command.Login.Complete")
	assert.Contains(t, messages, "Command.BalanceEnquiry.Complete")
}

// -- AnnounceLoad tests --

func TestAnnounceLoad(t *testing.T) {
	tests := []struct {
		name    string
		outcome storage.LoadOutcome
		err     error
		want    string
	}{
		{name: "loaded", outcome: storage.LoadOutcomeLoaded, want: "Accounts loaded successfully."},
		{name: "seeded", outcome: storage.LoadOutcomeSeeded, want: "No saved accounts found. Sample accounts have been created."},
		{
			name:    "corrupt",
			outcome: storage.LoadOutcomeSeededAfterCorrupt,
			err:     &storage.CorruptSnapshotError{Cause: errors.New("bad json"), QuarantinedTo: "/data/accounts.json.corrupt-1"},
			want:    "The unreadable file was kept at /data/accounts.json.corrupt-1.",
		},
		{
			name:    "corrupt and stuck",
			outcome: storage.LoadOutcomeSeededAfterCorrupt,
			err:     &storage.CorruptSnapshotError{Cause: errors.New("bad json"), QuarantineErr: errors.New("read-only filesystem")},
			want:    "no changes will be saved in this session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			c := &Console{Out: out}

			c.AnnounceLoad(tt.outcome, tt.err)

			assert.Contains(t, out.String(), tt.want)
		})
	}
}
