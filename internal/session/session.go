// Package session holds the transient per-contributor dialogue state. It
// lives only in process memory; completion, cancellation and idle expiry
// all clear it.
package session

import (
	"github.com/shopspring/decimal"
)

// Flow identifies which multi-step dialogue a session belongs to. Flows are
// independent state machines keyed by (contributor id, flow).
type Flow int

const (
	FlowExpense Flow = iota
	FlowCategoryAdd
	FlowCategoryDelete
)

func (f Flow) String() string {
	switch f {
	case FlowExpense:
		return "expense"
	case FlowCategoryAdd:
		return "category_add"
	case FlowCategoryDelete:
		return "category_delete"
	default:
		return "unknown"
	}
}

// State is a dialogue step within a flow.
type State int

const (
	StateNone State = iota
	StateAwaitingAmount
	StateAwaitingCategory
	StateAwaitingName
	StateAwaitingSelection
)

func (s State) String() string {
	switch s {
	case StateAwaitingAmount:
		return "awaiting_amount"
	case StateAwaitingCategory:
		return "awaiting_category"
	case StateAwaitingName:
		return "awaiting_name"
	case StateAwaitingSelection:
		return "awaiting_selection"
	default:
		return "idle"
	}
}

// Session is the partially-entered input of one in-flight dialogue.
type Session struct {
	Contributor int64
	Flow        Flow
	State       State
	Amount      decimal.Decimal
}
