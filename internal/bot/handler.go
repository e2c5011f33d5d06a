// Package bot adapts the Telegram transport onto the dialogue engine and
// the report pipeline: command routing, inline keyboards, callback queries.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fintrack/internal/core"
	"fintrack/internal/dialog"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
	"fintrack/internal/ratelimit"
	"fintrack/internal/report"
	"fintrack/internal/session"
)

// Callback-data prefixes carried on the inline keyboards. The suffix is the
// exact option text chosen.
const (
	callbackCategory = "cat_"
	callbackDelete   = "del_"
)

// Clock stamps new expenses with today's date. Injectable for tests.
type Clock func() core.Date

// ReportStore is the slice of the record store the command surface reads
// and clears.
type ReportStore interface {
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	ListExpensesIn(ctx context.Context, month, year int) ([]core.Expense, error)
	DeleteAllExpenses(ctx context.Context) error
}

// Sender is the slice of the Telegram client commands reply through.
// *tgbotapi.BotAPI satisfies it; tests substitute a recording fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	engine   *dialog.Engine
	store    ReportStore
	registry dialog.Categories
	renderer *report.Renderer
	limiter  *ratelimit.Limiter
	events   *events.Client // may be nil
	clock    Clock
	logger   *applog.Logger
}

func NewHandler(
	api *tgbotapi.BotAPI,
	engine *dialog.Engine,
	store ReportStore,
	registry dialog.Categories,
	renderer *report.Renderer,
	limiter *ratelimit.Limiter,
	eventsClient *events.Client,
	clock Clock,
	logger *applog.Logger,
) *Handler {
	if clock == nil {
		clock = core.Today
	}
	return &Handler{
		api:      api,
		sender:   api,
		engine:   engine,
		store:    store,
		registry: registry,
		renderer: renderer,
		limiter:  limiter,
		events:   eventsClient,
		clock:    clock,
		logger:   logger.WithComponent(applog.ComponentBot),
	}
}

// Run polls for updates until the context is cancelled.
func (h *Handler) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.api.GetUpdatesChan(u)
	h.logger.Info("Started polling for updates", "bot", h.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			h.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return errors.New("update channel closed")
			}
			uctx := applog.WithTraceID(ctx)
			if update.CallbackQuery != nil {
				h.handleCallback(uctx, update.CallbackQuery)
			} else if update.Message != nil {
				h.handleMessage(uctx, update.Message)
			}
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	contributor := msg.From.ID
	chatID := msg.Chat.ID

	if !h.limiter.Allow(contributor) {
		h.deliver(chatID, "Too many commands. Please slow down.")
		return
	}

	if msg.IsCommand() {
		h.handleCommand(ctx, msg, contributor, chatID)
		return
	}

	// Plain text only matters when a dialogue awaits it.
	flow, ok := h.engine.AwaitingText(contributor)
	if !ok {
		return
	}

	switch flow {
	case session.FlowExpense:
		h.handleAmountText(ctx, contributor, chatID, msg.Text)
	case session.FlowCategoryAdd:
		h.handleCategoryNameText(ctx, contributor, chatID, msg.Text)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message, contributor, chatID int64) {
	command := msg.Command()
	h.logger.InfoContext(ctx, "Command received",
		applog.FieldCommand, command,
		applog.FieldContributor, contributor,
		applog.FieldTraceID, applog.TraceID(ctx))

	switch command {
	case "start":
		// Make sure the default categories exist before the first dialogue.
		if _, err := h.registry.List(ctx); err != nil {
			h.deliverFailure(ctx, chatID, err)
			return
		}
		h.deliver(chatID, "Hi! Use /add to record an expense.\nUse /help for the command list.")
	case "help":
		h.deliver(chatID, helpText)
	case "add":
		h.engine.BeginExpenseEntry(contributor)
		h.deliver(chatID, "Enter the expense amount:")
	case "report":
		h.handleReport(ctx, chatID)
	case "prev_month":
		today := h.clock()
		month, year := core.PreviousMonth(today.Month(), today.Year())
		h.handleMonthReport(ctx, chatID, report.LayoutMonthDetailed, month, year)
	case "month":
		month, year, err := core.ParseMonthKey(msg.CommandArguments())
		if err != nil {
			h.deliver(chatID, "Use the format: /month MM/YYYY (for example, /month 04/2025)")
			return
		}
		h.handleMonthReport(ctx, chatID, report.LayoutMonth, month, year)
	case "clear":
		h.deliver(chatID, "⚠️ Warning! This will delete all expenses for all users. Use /confirmclear to confirm.")
	case "confirmclear":
		h.handleConfirmClear(ctx, chatID)
	case "categories":
		h.handleCategories(ctx, chatID)
	case "add_category":
		h.engine.BeginCategoryAdd(contributor)
		h.deliver(chatID, "Enter the new category name:")
	case "delete_category":
		h.handleDeleteCategory(ctx, contributor, chatID)
	case "cancel":
		h.engine.Cancel(contributor)
		h.deliver(chatID, "Operation cancelled.")
	}
}

func (h *Handler) handleAmountText(ctx context.Context, contributor, chatID int64, text string) {
	categories, err := h.engine.SubmitAmount(ctx, contributor, text)
	if err != nil {
		if core.IsValidation(err) {
			h.deliver(chatID, err.Error())
			return
		}
		h.deliverFailure(ctx, chatID, err)
		return
	}
	h.presentChoice(chatID, "Choose a category:", categories, callbackCategory, "")
}

func (h *Handler) handleCategoryNameText(ctx context.Context, contributor, chatID int64, text string) {
	name := strings.TrimSpace(text)
	err := h.engine.SubmitCategoryName(ctx, contributor, name)
	switch {
	case err == nil:
		h.deliver(chatID, fmt.Sprintf("Category '%s' added for all users!", name))
	case core.IsValidation(err):
		h.deliver(chatID, err.Error())
	case errors.Is(err, core.ErrAlreadyExists):
		h.deliver(chatID, fmt.Sprintf("Category '%s' already exists.", name))
	default:
		h.deliverFailure(ctx, chatID, err)
	}
}

func (h *Handler) handleReport(ctx context.Context, chatID int64) {
	records, err := h.store.ListExpenses(ctx)
	if err != nil {
		h.deliverFailure(ctx, chatID, err)
		return
	}
	if len(records) == 0 {
		h.deliver(chatID, "No records yet. Try adding an expense!")
		return
	}

	for _, segment := range h.renderer.Overview(records, h.clock()) {
		h.deliver(chatID, segment)
	}
}

func (h *Handler) handleMonthReport(ctx context.Context, chatID int64, layout report.Layout, month, year int) {
	records, err := h.store.ListExpensesIn(ctx, month, year)
	if err != nil {
		h.deliverFailure(ctx, chatID, err)
		return
	}
	if len(records) == 0 {
		h.deliver(chatID, fmt.Sprintf("No expenses found for %02d/%04d.", month, year))
		return
	}

	for _, segment := range h.renderer.Month(layout, month, year, records) {
		h.deliver(chatID, segment)
	}
}

func (h *Handler) handleConfirmClear(ctx context.Context, chatID int64) {
	if err := h.store.DeleteAllExpenses(ctx); err != nil {
		h.deliverFailure(ctx, chatID, err)
		return
	}
	if h.events != nil {
		if err := h.events.PublishExpensesCleared(ctx); err != nil {
			h.logger.ErrorContext(ctx, "Failed to publish cleared event", applog.FieldError, err)
		}
	}
	h.deliver(chatID, "All expenses cleared.")
}

func (h *Handler) handleCategories(ctx context.Context, chatID int64) {
	categories, err := h.registry.List(ctx)
	if err != nil {
		h.deliverFailure(ctx, chatID, err)
		return
	}

	var b strings.Builder
	b.WriteString("All available categories:\n\n")
	for i, category := range categories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, category)
	}
	b.WriteString("\nUse /add_category to add or /delete_category to remove a category.")
	h.deliver(chatID, b.String())
}

func (h *Handler) handleDeleteCategory(ctx context.Context, contributor, chatID int64) {
	categories, err := h.engine.BeginCategoryDelete(ctx, contributor)
	if err != nil {
		h.deliverFailure(ctx, chatID, err)
		return
	}
	if len(categories) == 0 {
		h.deliver(chatID, "No categories to delete.")
		return
	}
	h.presentChoice(chatID, "Choose a category to delete:", categories, callbackDelete, "Delete: ")
}

func (h *Handler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	contributor := cq.From.ID
	data := cq.Data

	switch {
	case strings.HasPrefix(data, callbackCategory):
		category := strings.TrimPrefix(data, callbackCategory)
		expense, err := h.engine.SelectCategory(ctx, contributor, category, displayName(cq.From), h.clock())
		switch {
		case err == nil:
			h.edit(cq, fmt.Sprintf("Saved: %s$ — %s", expense.Amount.StringFixed(2), expense.Category))
		case errors.Is(err, core.ErrSessionExpired):
			h.edit(cq, "This entry has expired. Start again with /add.")
		default:
			h.logger.ErrorContext(ctx, "Failed to save expense",
				applog.FieldContributor, contributor, applog.FieldError, err)
			h.edit(cq, "Something went wrong saving the expense. Choose the category again to retry.")
		}
	case strings.HasPrefix(data, callbackDelete):
		category := strings.TrimPrefix(data, callbackDelete)
		err := h.engine.ConfirmCategoryDelete(ctx, contributor, category)
		switch {
		case err == nil:
			h.edit(cq, fmt.Sprintf("Category '%s' removed for all users.", category))
		case errors.Is(err, core.ErrSessionExpired):
			h.edit(cq, "This selection has expired. Start again with /delete_category.")
		default:
			h.logger.ErrorContext(ctx, "Failed to delete category",
				applog.FieldCategory, category, applog.FieldError, err)
			h.edit(cq, "Something went wrong. Please try again.")
		}
	}

	// Acknowledge the callback so the client stops its spinner.
	if _, err := h.sender.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		h.logger.ErrorContext(ctx, "Failed to answer callback query", applog.FieldError, err)
	}
}

func (h *Handler) deliver(chatID int64, text string) {
	if _, err := h.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.Error("Failed to send message", applog.FieldError, err)
	}
}

// deliverFailure reports a store-level failure generically; the session, if
// any, stays intact so the user can simply re-issue the command.
func (h *Handler) deliverFailure(ctx context.Context, chatID int64, err error) {
	h.logger.ErrorContext(ctx, "Operation failed", applog.FieldError, err)
	h.deliver(chatID, "Something went wrong. Please try again.")
}

// presentChoice renders a single-select list, one option per row. The
// callback data is the prefix plus the exact option text, so the chosen
// option maps back verbatim.
func (h *Handler) presentChoice(chatID int64, prompt string, options []string, prefix, labelPrefix string) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, option := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelPrefix+option, prefix+option),
		))
	}

	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := h.sender.Send(msg); err != nil {
		h.logger.Error("Failed to send choice list", applog.FieldError, err)
	}
}

func (h *Handler) edit(cq *tgbotapi.CallbackQuery, text string) {
	if cq.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, text)
	if _, err := h.sender.Send(edit); err != nil {
		h.logger.Error("Failed to edit message", applog.FieldError, err)
	}
}

// displayName prefers the username and falls back to the first name.
func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

const helpText = `Available commands:
/start - start working with the bot
/add - add a new expense
/report - expense report for the current month
/prev_month - detailed report for the previous month
/month MM/YYYY - report for a specific month
/clear - delete all expense records
/categories - manage categories
/add_category - add a new category
/delete_category - delete a category
/cancel - cancel the current operation
`
