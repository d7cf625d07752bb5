package tokens

// DefaultSystemPercent is the default percentage for system prompts.
const DefaultSystemPercent = 20

// DefaultContextPercent is the default percentage for retrieved context.
const DefaultContextPercent = 30

// DefaultHistoryPercent is the default percentage for conversation history.
const DefaultHistoryPercent = 40

// DefaultReservedPercent is the default percentage reserved for response.
const DefaultReservedPercent = 10

// Budget splits a context window across the parts of an assembled prompt.
type Budget struct {
	// Total is the context window size.
	Total int

	// System is the allocation for system prompts.
	System int

	// Context is the allocation for retrieved documents.
	Context int

	// History is the allocation for conversation history.
	History int

	// Reserved is held back for response generation.
	Reserved int
}

// NewBudget allocates total with the default split:
// 20% system, 30% context, 40% history, 10% reserved.
func NewBudget(total int) *Budget {
	return NewBudgetWithAllocation(total,
		DefaultSystemPercent, DefaultContextPercent, DefaultHistoryPercent, DefaultReservedPercent)
}

// NewBudgetWithAllocation allocates total using relative weights. The
// weights are normalized, so (20, 30, 40, 10) and (2, 3, 4, 1) are the same.
// Rounding leftovers go to History so the parts always sum to total.
func NewBudgetWithAllocation(total, system, context, history, reserved int) *Budget {
	if total < 0 {
		total = 0
	}
	sum := system + context + history + reserved
	if sum <= 0 {
		return &Budget{Total: total, History: total}
	}
	b := &Budget{
		Total:    total,
		System:   total * system / sum,
		Context:  total * context / sum,
		Reserved: total * reserved / sum,
	}
	b.History = total - b.System - b.Context - b.Reserved
	return b
}

// FitsHistory returns true if a history token count fits the history allocation.
func (b *Budget) FitsHistory(tokens int) bool {
	return tokens <= b.History
}

// HistoryLimit is the largest history a prompt can hold once the system
// prompt and retrieved context have been placed. Space the system prompt and
// context leave unused within their allocations is handed to history.
// The result is never negative.
func (b *Budget) HistoryLimit(systemUsed, contextUsed int) int {
	remaining := b.Total - b.Reserved - systemUsed - contextUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingTotal returns the tokens left after the used amounts and the
// reserved allocation.
func (b *Budget) RemainingTotal(systemUsed, contextUsed, historyUsed int) int {
	remaining := b.Total - b.Reserved - systemUsed - contextUsed - historyUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
