package api

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/atm-ledger/internal/input"
	"github.com/carson-networks/atm-ledger/internal/logging"
	"github.com/carson-networks/atm-ledger/internal/metrics"
	"github.com/carson-networks/atm-ledger/internal/service"
	"github.com/carson-networks/atm-ledger/internal/storage"
)

const (
	lastActivityLayout = "2006-01-02 15:04:05"
	goodbye            = "Thank you for using the ATM. Goodbye!"

	// maxLineLength bounds one line of input. Longer lines are discarded
	// and re-prompted.
	maxLineLength = 4096
)

var errEndOfInput = errors.New("end of input")

// Console is the interactive ATM terminal. It reads one line per prompt from
// In and writes everything the customer sees to Out.
type Console struct {
	Logger   *logrus.Logger
	Service  *service.Service
	Metrics  *metrics.MetricsCollector
	In       io.Reader
	Out      io.Writer
	Currency string

	reader *bufio.Reader
}

// AnnounceLoad tells the customer where the accounts came from.
func (c *Console) AnnounceLoad(outcome storage.LoadOutcome, err error) {
	var corruptErr *storage.CorruptSnapshotError
	switch {
	case errors.As(err, &corruptErr):
		c.println("Warning: saved accounts could not be read. Sample accounts have been loaded instead.")
		if corruptErr.QuarantinedTo != "" {
			c.printf("The unreadable file was kept at %s.\n", corruptErr.QuarantinedTo)
		}
		if corruptErr.QuarantineErr != nil {
			c.println("The unreadable file could not be moved aside, so no changes will be saved in this session.")
		}
	case err != nil:
		c.println("Warning: saved accounts could not be read. " + err.Error())
	case outcome == storage.LoadOutcomeLoaded:
		c.println("Accounts loaded successfully.")
	default:
		c.println("No saved accounts found. Sample accounts have been created.")
	}
}

// Serve runs the top-level menu until the customer exits, input ends or ctx
// is cancelled. Only a cancelled ctx is returned as an error.
func (c *Console) Serve(ctx context.Context) error {
	c.reader = bufio.NewReaderSize(c.In, maxLineLength)
	if c.Currency == "" {
		c.Currency = "INR"
	}
	c.Logger.Info("Console.Serve.started")

	err := c.mainMenu(ctx)
	if errors.Is(err, errEndOfInput) {
		c.Logger.Info("Console.Serve.input closed")
		return nil
	}
	return err
}

func (c *Console) mainMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.println("\nWelcome to the ATM")
		c.println("1. Login")
		c.println("2. Create Account")
		c.println("3. Exit")
		choice, err := c.readChoice(3)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.login(ctx)
		case 2:
			err = c.createAccount(ctx)
		case 3:
			c.println(goodbye)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) login(ctx context.Context) error {
	accountID, err := readValidLine(c, "Enter account number (15 digits): ", input.ParseAccountID)
	if err != nil {
		return err
	}
	pin, err := readValidLine(c, "Enter PIN (4 digits): ", input.ParsePIN)
	if err != nil {
		return err
	}

	var session *service.Session
	err = c.run("Login", func(logData *logging.LogData) error {
		var loginErr error
		session, loginErr = c.Service.Session.Login(ctx, accountID, pin)
		if session != nil {
			logData.AddData("session_id", session.ID.String())
		}
		return loginErr
	})
	switch {
	case errors.Is(err, service.ErrAuthFailed):
		c.println("Invalid account number or PIN. Please try again.")
		return nil
	case err != nil:
		return c.unexpected(ctx, err)
	}

	return c.transactionMenu(ctx, session)
}

func (c *Console) createAccount(ctx context.Context) error {
	for {
		accountID, err := readValidLine(c, "Enter new account number (15 digits): ", input.ParseAccountID)
		if err != nil {
			return err
		}
		if !c.Service.Session.IsAvailable(accountID) {
			c.println("Account number already exists. Please try a different one.")
			continue
		}

		pin, err := readValidLine(c, "Enter PIN for the new account (4 digits): ", input.ParsePIN)
		if err != nil {
			return err
		}

		err = c.run("CreateAccount", func(logData *logging.LogData) error {
			session, createErr := c.Service.Session.CreateAccount(ctx, accountID, pin)
			if session != nil {
				logData.AddData("session_id", session.ID.String())
			}
			return createErr
		})
		switch {
		case errors.Is(err, service.ErrDuplicateID):
			c.println("Account number already exists. Please try a different one.")
			continue
		case err == nil, errors.Is(err, service.ErrPersistence):
			c.println("Account created successfully. You can now login with your new account.")
			c.warnIfUnsaved(err)
			return nil
		default:
			return c.unexpected(ctx, err)
		}
	}
}

func (c *Console) transactionMenu(ctx context.Context, session *service.Session) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.println("\n1. Withdraw")
		c.println("2. Deposit")
		c.println("3. Balance Enquiry")
		c.println("4. Exit")
		choice, err := c.readChoice(4)
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.withdraw(ctx, session)
		case 2:
			err = c.deposit(ctx, session)
		case 3:
			err = c.balanceEnquiry(ctx, session)
		case 4:
			c.println(goodbye)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) withdraw(ctx context.Context, session *service.Session) error {
	amount, err := readValidLine(c, "Enter amount to withdraw: ", input.ParseAmount)
	if err != nil {
		return err
	}

	var balance decimal.Decimal
	err = c.run("Withdraw", func(logData *logging.LogData) error {
		logData.AddData("session_id", session.ID.String())
		var withdrawErr error
		balance, withdrawErr = c.Service.Transaction.Withdraw(ctx, session, amount)
		return withdrawErr
	})
	switch {
	case err == nil, errors.Is(err, service.ErrPersistence):
		c.printf("Withdrawal successful. New balance: %s\n", c.money(balance))
		c.warnIfUnsaved(err)
		return nil
	case errors.Is(err, service.ErrInsufficientFundsOrInvalidAmount):
		c.println("Insufficient funds or invalid amount.")
		return nil
	default:
		return c.unexpected(ctx, err)
	}
}

func (c *Console) deposit(ctx context.Context, session *service.Session) error {
	amount, err := readValidLine(c, "Enter amount to deposit: ", input.ParseAmount)
	if err != nil {
		return err
	}

	var balance decimal.Decimal
	err = c.run("Deposit", func(logData *logging.LogData) error {
		logData.AddData("session_id", session.ID.String())
		var depositErr error
		balance, depositErr = c.Service.Transaction.Deposit(ctx, session, amount)
		return depositErr
	})
	switch {
	case err == nil, errors.Is(err, service.ErrPersistence):
		c.printf("Deposit successful. New balance: %s\n", c.money(balance))
		c.warnIfUnsaved(err)
		return nil
	case errors.Is(err, service.ErrInvalidAmount):
		c.println("Invalid amount.")
		return nil
	default:
		return c.unexpected(ctx, err)
	}
}

func (c *Console) balanceEnquiry(ctx context.Context, session *service.Session) error {
	var summary *service.BalanceSummary
	err := c.run("BalanceEnquiry", func(logData *logging.LogData) error {
		logData.AddData("session_id", session.ID.String())
		var enquiryErr error
		summary, enquiryErr = c.Service.Transaction.BalanceEnquiry(ctx, session)
		return enquiryErr
	})
	if err != nil {
		return c.unexpected(ctx, err)
	}

	c.printf("Current balance: %s\n", c.money(summary.Amount))
	c.printf("Last transaction: %s\n", summary.LastActivity.Format(lastActivityLayout))
	return nil
}

// run wraps one ledger command with its log line and metrics.
func (c *Console) run(name string, handler func(*logging.LogData) error) error {
	start := time.Now()
	err := logging.LoggingWrapper(name, c.Logger, handler)()
	if c.Metrics != nil {
		c.Metrics.RecordCommand(name, time.Since(start), err)
	}
	return err
}

// unexpected reports an error no menu knows how to handle. The session goes
// on unless ctx was cancelled.
func (c *Console) unexpected(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	c.Logger.WithError(err).Error("Console.command.unexpected error")
	c.println("Something went wrong. Please try again.")
	return nil
}

func (c *Console) warnIfUnsaved(err error) {
	if errors.Is(err, service.ErrPersistence) {
		c.println("Warning: this change could not be saved and will be lost when the ATM closes.")
	}
}

func (c *Console) readChoice(options int) (int, error) {
	return readValidLine(c, "Choose an option: ", func(line string) (int, error) {
		return input.ParseMenuChoice(line, options)
	})
}

// readValidLine prompts until parse accepts the line.
func readValidLine[T any](c *Console, prompt string, parse func(string) (T, error)) (T, error) {
	for {
		c.print(prompt)
		line, err := c.readLine()
		var validationErr *input.ValidationError
		if errors.As(err, &validationErr) {
			c.println(validationErr.Message)
			continue
		}
		if err != nil {
			var zero T
			return zero, err
		}

		value, err := parse(line)
		if err == nil {
			return value, nil
		}
		c.println(validationMessage(err))
	}
}

// readLine returns the next line without its line ending. A line longer than
// maxLineLength is consumed and reported as a *input.ValidationError.
func (c *Console) readLine() (string, error) {
	line, isPrefix, err := c.reader.ReadLine()
	if err != nil {
		return "", readErr(err)
	}
	if !isPrefix {
		return string(line), nil
	}

	for isPrefix {
		_, isPrefix, err = c.reader.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", readErr(err)
		}
	}
	return "", &input.ValidationError{
		Field:   "input",
		Message: "Input too long. Please try again.",
	}
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) {
		return errEndOfInput
	}
	return errors.Wrap(err, "read terminal input")
}

func (c *Console) money(amount decimal.Decimal) string {
	return c.Currency + " " + amount.StringFixed(input.AmountPlaces)
}

func validationMessage(err error) string {
	var validationErr *input.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	return err.Error()
}

func (c *Console) print(text string) {
	_, _ = io.WriteString(c.Out, text)
}

func (c *Console) println(text string) {
	_, _ = io.WriteString(c.Out, text+"\n")
}

func (c *Console) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(c.Out, format, args...)
}
