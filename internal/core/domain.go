package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scope is the category-ownership partition. GlobalScope is shared by all
// contributors; any other value is a specific contributor id.
type Scope int64

const GlobalScope Scope = 0

type (
	// Expense is a single recorded spending. Immutable once created except
	// for bulk deletion.
	Expense struct {
		ID            int64
		ContributorID int64
		Amount        decimal.Decimal
		Category      string
		Date          Date
		DisplayName   string
	}

	// Category is one row of the category table. Names are compared
	// case-sensitively and must be unique within a scope.
	Category struct {
		Owner Scope
		Name  string
	}
)

// DefaultCategories is the fixed set seeded the first time the category
// list is read and found empty. Order is significant for display.
var DefaultCategories = []string{
	"Food", "Transport", "Housing", "Entertainment", "Shopping", "Health", "Other",
}

var (
	ErrSessionExpired = errors.New("no active session")
	ErrAlreadyExists  = errors.New("category already exists")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrEmptyCategory  = errors.New("empty category")
	ErrInvalidMonth   = errors.New("invalid month")
)

// ValidationError signals bad user input. The dialogue stays in its current
// state and the reason is shown to the user as a reprompt.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a user-input validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (e Expense) Validate() error {
	if e.ContributorID == 0 {
		return errors.New("missing contributor id")
	}
	if e.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if err := e.Date.Validate(); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	return nil
}
