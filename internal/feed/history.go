package feed

import "github.com/goodnatureofminers/greenchain-backend/internal/model"

// History keeps the most recent transactions, newest first.
type History struct {
	limit int
	items []model.Transaction
}

// NewHistory returns a History bounded to limit entries, seeded newest first.
func NewHistory(limit int, seed []model.Transaction) *History {
	if limit <= 0 {
		limit = defaultHistoryCap
	}
	h := &History{limit: limit, items: make([]model.Transaction, 0, limit)}
	for i := len(seed) - 1; i >= 0; i-- {
		h.Push(seed[i])
	}
	return h
}

// Push prepends tx and drops the oldest entries beyond the limit.
func (h *History) Push(tx model.Transaction) {
	if len(h.items) < h.limit {
		h.items = append(h.items, model.Transaction{})
	}
	copy(h.items[1:], h.items[:len(h.items)-1])
	h.items[0] = tx
}

// Items returns a copy of the history, newest first.
func (h *History) Items() []model.Transaction {
	return append([]model.Transaction(nil), h.items...)
}

// Len returns the number of retained transactions.
func (h *History) Len() int {
	return len(h.items)
}
