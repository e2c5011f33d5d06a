package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func validExpense() Expense {
	return Expense{
		ContributorID: 42,
		Amount:        decimal.RequireFromString("12.50"),
		Category:      "Food",
		Date:          NewDate(2025, 4, 15),
		DisplayName:   "alice",
	}
}

func TestExpense_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr bool
	}{
		{name: "valid", mutate: func(e *Expense) {}},
		{name: "missing contributor", mutate: func(e *Expense) { e.ContributorID = 0 }, wantErr: true},
		{name: "zero amount", mutate: func(e *Expense) { e.Amount = decimal.Zero }, wantErr: true},
		{name: "negative amount", mutate: func(e *Expense) { e.Amount = decimal.RequireFromString("-1") }, wantErr: true},
		{name: "blank category", mutate: func(e *Expense) { e.Category = "   " }, wantErr: true},
		{name: "zero date", mutate: func(e *Expense) { e.Date = Date{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)

			err := e.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExpense_Validate_SentinelErrors(t *testing.T) {
	e := validExpense()
	e.Amount = decimal.Zero
	if err := e.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("error = %v, want ErrInvalidAmount", err)
	}

	e = validExpense()
	e.Category = ""
	if err := e.Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Errorf("error = %v, want ErrEmptyCategory", err)
	}
}

func TestIsValidation(t *testing.T) {
	plain := errors.New("boom")
	if IsValidation(plain) {
		t.Error("plain error reported as validation")
	}
	if IsValidation(nil) {
		t.Error("nil reported as validation")
	}

	ve := &ValidationError{Reason: "Please enter a valid number. Try again:"}
	if !IsValidation(ve) {
		t.Error("validation error not recognized")
	}
	if ve.Error() != "Please enter a valid number. Try again:" {
		t.Errorf("Error() = %q", ve.Error())
	}

	wrapped := fmt.Errorf("handling input: %w", ve)
	if !IsValidation(wrapped) {
		t.Error("wrapped validation error not recognized")
	}
}

func TestDefaultCategories(t *testing.T) {
	want := []string{"Food", "Transport", "Housing", "Entertainment", "Shopping", "Health", "Other"}
	if len(DefaultCategories) != len(want) {
		t.Fatalf("DefaultCategories = %v", DefaultCategories)
	}
	for i, name := range want {
		if DefaultCategories[i] != name {
			t.Errorf("DefaultCategories[%d] = %q, want %q", i, DefaultCategories[i], name)
		}
	}
}
