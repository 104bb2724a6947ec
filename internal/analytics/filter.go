package analytics

import "momodash/internal/core"

// Apply returns the transactions satisfying every criterion, in their
// original relative order. A start date after the end date simply matches
// nothing.
func Apply(txs []core.Transaction, c Criteria) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	if c.IsEmpty() {
		return append(out, txs...)
	}
	m := c.compile()
	for _, tx := range txs {
		if m.match(tx) {
			out = append(out, tx)
		}
	}
	return out
}
