package calculator

import (
	"sort"

	"github.com/mmynk/splitty/internal/models"
	"github.com/mmynk/splitty/internal/money"
)

// position is a participant's outstanding magnitude while matching.
type position struct {
	id        string
	remaining money.Money
}

// ComputeDebts turns net balances into transfers that zero them.
//
// Debtors (negative balances) and creditors (positive balances) are each sorted by
// participant ID and walked with two cursors. Every step emits min(debtor, creditor)
// from the current debtor to the current creditor and advances whichever side reached
// zero, both on a tie. Zero balances are ignored.
//
// The result has at most len(debtors)+len(creditors)-1 entries and only moves amounts
// already present in balances, so no rounding happens here. This is a greedy match: it
// is not guaranteed to be the fewest possible transfers.
//
// When balances do not sum to zero (rounding residuals), matching stops once either side
// is exhausted and the leftover is not emitted. An empty list is returned when there is
// nothing to settle.
func ComputeDebts(balances map[string]money.Money) []models.Debt {
	debtors, creditors := partition(balances)
	if len(debtors) == 0 || len(creditors) == 0 {
		return []models.Debt{}
	}

	debts := make([]models.Debt, 0, len(debtors)+len(creditors)-1)
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := money.Min(debtor.remaining, creditor.remaining)
		debts = append(debts, models.Debt{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.IsZero() {
			i++
		}
		if creditor.remaining.IsZero() {
			j++
		}
	}

	return debts
}

// partition splits balances into debtor and creditor magnitudes, sorted by ID.
func partition(balances map[string]money.Money) (debtors, creditors []position) {
	for id, balance := range balances {
		switch balance.Sign() {
		case -1:
			debtors = append(debtors, position{id: id, remaining: balance.Neg()})
		case 1:
			creditors = append(creditors, position{id: id, remaining: balance})
		}
	}

	sort.Slice(debtors, func(a, b int) bool { return debtors[a].id < debtors[b].id })
	sort.Slice(creditors, func(a, b int) bool { return creditors[a].id < creditors[b].id })

	return debtors, creditors
}
