// Package input turns raw terminal lines into validated values. Every parser
// returns a *ValidationError for malformed input so the caller can re-prompt.
package input

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/atm-ledger/internal/storage/account"
)

// AmountPlaces is the number of decimal places an amount may carry.
const AmountPlaces = 2

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func ParseAccountID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if !account.IsValidID(id) {
		return "", &ValidationError{
			Field:   "account number",
			Message: "Invalid account number. Please enter a 15-digit number.",
		}
	}
	return id, nil
}

func ParsePIN(raw string) (string, error) {
	pin := strings.TrimSpace(raw)
	if !account.IsValidPIN(pin) {
		return "", &ValidationError{
			Field:   "PIN",
			Message: "Invalid PIN. Please enter a 4-digit number.",
		}
	}
	return pin, nil
}

// ParseAmount only checks that raw is a decimal number with at most two
// decimal places. Sign and size are the ledger's decision.
func ParseAmount(raw string) (decimal.Decimal, error) {
	text := strings.TrimSpace(raw)
	amount, err := decimal.NewFromString(text)
	if err != nil || text == "" || strings.ContainsAny(text, "eE") {
		return decimal.Zero, &ValidationError{
			Field:   "amount",
			Message: "Invalid amount. Please enter a number such as 250.00.",
		}
	}
	if !amount.Equal(amount.Truncate(AmountPlaces)) {
		return decimal.Zero, &ValidationError{
			Field:   "amount",
			Message: "Invalid amount. Please use at most two decimal places.",
		}
	}
	return amount, nil
}

// ParseMenuChoice accepts an option number between 1 and max.
func ParseMenuChoice(raw string, max int) (int, error) {
	choice, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || choice < 1 || choice > max {
		return 0, &ValidationError{
			Field:   "option",
			Message: "Invalid option. Please try again.",
		}
	}
	return choice, nil
}
