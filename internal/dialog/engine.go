// Package dialog drives the multi-step input dialogues: expense entry
// (amount, then category), category-name entry, and category-deletion
// selection. Each flow is an independent state machine per contributor.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/session"

	"github.com/shopspring/decimal"
)

// ExpenseStore is the slice of the record store the engine commits to.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
}

// Categories is the registry surface the engine consults.
type Categories interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, scope core.Scope, name string) error
	Remove(ctx context.Context, scope core.Scope, name string) error
}

// Publisher emits events after a successful commit. Best effort: a publish
// failure never fails the user's command.
type Publisher interface {
	PublishExpenseRecorded(ctx context.Context, id, contributor int64) error
}

type Engine struct {
	sessions   *session.Store
	store      ExpenseStore
	categories Categories
	publisher  Publisher // may be nil
}

func New(sessions *session.Store, store ExpenseStore, categories Categories, publisher Publisher) *Engine {
	return &Engine{
		sessions:   sessions,
		store:      store,
		categories: categories,
		publisher:  publisher,
	}
}

// BeginExpenseEntry starts the expense dialogue for the contributor. Any
// unfinished prior session of this flow is discarded without error, as is a
// pending category-name entry: only one dialogue may await free text.
func (e *Engine) BeginExpenseEntry(contributor int64) {
	e.sessions.Delete(contributor, session.FlowCategoryAdd)
	e.sessions.Put(session.Session{
		Contributor: contributor,
		Flow:        session.FlowExpense,
		State:       session.StateAwaitingAmount,
	})
}

// SubmitAmount parses the amount text. Bad input keeps the dialogue at the
// amount step and returns a ValidationError for the reprompt. On success the
// session advances to the category step and the current category list is
// returned for presentation as a choice set.
func (e *Engine) SubmitAmount(ctx context.Context, contributor int64, text string) ([]string, error) {
	sess, ok := e.sessions.Get(contributor, session.FlowExpense)
	if !ok || sess.State != session.StateAwaitingAmount {
		return nil, core.ErrSessionExpired
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || amount.Sign() <= 0 {
		return nil, &core.ValidationError{Reason: "Please enter a valid number. Try again:"}
	}

	// Fetch the choice set before advancing so a store failure leaves the
	// dialogue at the amount step for retry.
	categories, err := e.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	sess.Amount = amount
	sess.State = session.StateAwaitingCategory
	e.sessions.Put(sess)

	return categories, nil
}

// SelectCategory commits the expense from the active category step. A
// missing session surfaces ErrSessionExpired instead of defaulting the
// amount. A store failure leaves the session intact so the user can retry.
func (e *Engine) SelectCategory(ctx context.Context, contributor int64, category, displayName string, today core.Date) (core.Expense, error) {
	sess, ok := e.sessions.Get(contributor, session.FlowExpense)
	if !ok || sess.State != session.StateAwaitingCategory {
		return core.Expense{}, core.ErrSessionExpired
	}

	expense := core.Expense{
		ContributorID: contributor,
		Amount:        sess.Amount,
		Category:      category,
		Date:          today,
		DisplayName:   displayName,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	id, err := e.store.CreateExpense(ctx, expense)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	expense.ID = id

	e.sessions.Delete(contributor, session.FlowExpense)

	if e.publisher != nil {
		if err := e.publisher.PublishExpenseRecorded(ctx, id, contributor); err != nil {
			slog.ErrorContext(ctx, "Failed to publish expense event",
				"expense_id", id, "contributor_id", contributor, "error", err)
		}
	}

	return expense, nil
}

// BeginCategoryAdd starts the category-name entry dialogue. An expense
// dialogue still waiting for its amount is discarded so the next text
// message feeds exactly one flow; an expense at the category-selection
// step keeps its keyboard, since it takes no text.
func (e *Engine) BeginCategoryAdd(contributor int64) {
	if sess, ok := e.sessions.Get(contributor, session.FlowExpense); ok && sess.State == session.StateAwaitingAmount {
		e.sessions.Delete(contributor, session.FlowExpense)
	}
	e.sessions.Put(session.Session{
		Contributor: contributor,
		Flow:        session.FlowCategoryAdd,
		State:       session.StateAwaitingName,
	})
}

// SubmitCategoryName validates and commits the new category name under the
// global scope. An empty name reprompts; a duplicate ends the dialogue with
// ErrAlreadyExists and no mutation.
func (e *Engine) SubmitCategoryName(ctx context.Context, contributor int64, name string) error {
	sess, ok := e.sessions.Get(contributor, session.FlowCategoryAdd)
	if !ok || sess.State != session.StateAwaitingName {
		return core.ErrSessionExpired
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return &core.ValidationError{Reason: "The category name cannot be empty. Try again:"}
	}

	if err := e.categories.Add(ctx, core.GlobalScope, name); err != nil {
		if errors.Is(err, core.ErrAlreadyExists) {
			e.sessions.Delete(contributor, session.FlowCategoryAdd)
		}
		return err
	}

	e.sessions.Delete(contributor, session.FlowCategoryAdd)
	return nil
}

// BeginCategoryDelete returns the deletable categories and, when there are
// any, opens the selection step. With nothing to delete no session is
// created and the caller reports that directly.
func (e *Engine) BeginCategoryDelete(ctx context.Context, contributor int64) ([]string, error) {
	categories, err := e.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, nil
	}

	e.sessions.Put(session.Session{
		Contributor: contributor,
		Flow:        session.FlowCategoryDelete,
		State:       session.StateAwaitingSelection,
	})

	return categories, nil
}

// ConfirmCategoryDelete removes the selected category. Requires an active
// selection session; deletion itself is idempotent.
func (e *Engine) ConfirmCategoryDelete(ctx context.Context, contributor int64, name string) error {
	sess, ok := e.sessions.Get(contributor, session.FlowCategoryDelete)
	if !ok || sess.State != session.StateAwaitingSelection {
		return core.ErrSessionExpired
	}

	if err := e.categories.Remove(ctx, core.GlobalScope, name); err != nil {
		return err
	}

	e.sessions.Delete(contributor, session.FlowCategoryDelete)
	return nil
}

// Cancel clears every in-flight dialogue for the contributor. Idempotent,
// never fails.
func (e *Engine) Cancel(contributor int64) {
	e.sessions.DeleteAll(contributor)
}

// AwaitingText reports which flow, if any, expects free text from the
// contributor right now. The transport uses it to route plain messages.
func (e *Engine) AwaitingText(contributor int64) (session.Flow, bool) {
	if sess, ok := e.sessions.Get(contributor, session.FlowExpense); ok && sess.State == session.StateAwaitingAmount {
		return session.FlowExpense, true
	}
	if sess, ok := e.sessions.Get(contributor, session.FlowCategoryAdd); ok && sess.State == session.StateAwaitingName {
		return session.FlowCategoryAdd, true
	}
	return 0, false
}
