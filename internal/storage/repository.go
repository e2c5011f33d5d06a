package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed record store for expenses and categories.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateExpense inserts one expense row and returns the assigned id.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (contributor_id, amount, category, occurred_on, display_name)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ContributorID, e.Amount.String(), e.Category, e.Date.String(), e.DisplayName,
	)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"contributor_id", e.ContributorID,
		"amount", e.Amount.String(),
		"category", e.Category)

	return id, nil
}

// ListExpenses returns every expense, newest first by insertion order.
func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, contributor_id, amount, category, occurred_on, display_name
		 FROM expenses ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanExpenses(rows)
}

// ListExpensesIn returns expenses whose stored wire-format date falls in the
// given month and year. The match runs against the MM/DD/YYYY text column.
func (r *Repository) ListExpensesIn(ctx context.Context, month, year int) ([]core.Expense, error) {
	pattern := fmt.Sprintf("%02d/%%/%04d", month, year)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, contributor_id, amount, category, occurred_on, display_name
		 FROM expenses WHERE occurred_on LIKE ? ORDER BY id DESC`, pattern)
	if err != nil {
		return nil, fmt.Errorf("list expenses for %02d/%04d: %w", month, year, err)
	}
	defer func() { _ = rows.Close() }()

	return scanExpenses(rows)
}

// DeleteAllExpenses removes every expense row for every contributor.
func (r *Repository) DeleteAllExpenses(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM expenses"); err != nil {
		return fmt.Errorf("delete all expenses: %w", err)
	}
	slog.InfoContext(ctx, "All expenses deleted")
	return nil
}

// DeleteContributorExpenses removes the expenses recorded by one contributor.
func (r *Repository) DeleteContributorExpenses(ctx context.Context, contributor int64) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE contributor_id = ?", contributor); err != nil {
		return fmt.Errorf("delete expenses for contributor %d: %w", contributor, err)
	}
	return nil
}

// CreateCategory inserts one category row. Uniqueness within a scope is the
// registry's concern; duplicates here are filtered by the distinct read.
func (r *Repository) CreateCategory(ctx context.Context, scope core.Scope, name string) error {
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (owner_id, name) VALUES (?, ?)", int64(scope), name); err != nil {
		return fmt.Errorf("create category %q: %w", name, err)
	}
	return nil
}

// DeleteCategory removes all rows matching the name exactly within the
// scope. No error when nothing matched.
func (r *Repository) DeleteCategory(ctx context.Context, scope core.Scope, name string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM categories WHERE owner_id = ? AND name = ?", int64(scope), name); err != nil {
		return fmt.Errorf("delete category %q: %w", name, err)
	}
	return nil
}

// ListCategoryNames returns the distinct category names across all scopes,
// in insertion order of first occurrence.
func (r *Repository) ListCategoryNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name FROM categories GROUP BY name ORDER BY MIN(id)")
	if err != nil {
		return nil, fmt.Errorf("list category names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListCategoryRows returns the raw category rows for one scope.
func (r *Repository) ListCategoryRows(ctx context.Context, scope core.Scope) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT owner_id, name FROM categories WHERE owner_id = ? ORDER BY id", int64(scope))
	if err != nil {
		return nil, fmt.Errorf("list category rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cats []core.Category
	for rows.Next() {
		var owner int64
		var c core.Category
		if err := rows.Scan(&owner, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		c.Owner = core.Scope(owner)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var expenses []core.Expense
	for rows.Next() {
		var (
			e          core.Expense
			amountText string
			dateText   string
		)
		if err := rows.Scan(&e.ID, &e.ContributorID, &amountText, &e.Category, &dateText, &e.DisplayName); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}

		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount %q: %w", amountText, err)
		}
		e.Amount = amount

		// An unparseable date is kept as a zero Date rather than failing the
		// whole listing; aggregation puts it in the unknown bucket.
		if d, err := core.ParseDate(dateText); err == nil {
			e.Date = d
		}

		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
