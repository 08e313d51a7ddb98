package calculator

import (
	"sort"

	"github.com/mmynk/splitty/internal/models"
	"github.com/mmynk/splitty/internal/money"
)

// ComputeBalances folds a ledger snapshot into a net balance per participant.
// Positive = the participant is owed money, negative = the participant owes money.
//
// Algorithm:
//   - For each expense: the payer is credited the full amount
//   - If OwingIDs is non-empty: each owing participant is debited
//     amount/len(OwingIDs), rounded half-up; the rounding residual stays with the payer
//   - If OwingIDs is empty: nobody is debited
//
// Participants that appear in no expense are absent from the result. Owing IDs that no
// longer belong to a participant still get their debit, so money is never dropped.
// Input order does not matter. Amounts are summed unchecked; a ledger must pass
// LedgerTotal first.
func ComputeBalances(expenses []models.Expense) map[string]money.Money {
	balances := make(map[string]money.Money)

	for _, expense := range expenses {
		balances[expense.PayerID] = balances[expense.PayerID].Add(expense.Amount)

		if len(expense.OwingIDs) == 0 {
			continue
		}

		share, _ := SplitEvenly(expense.Amount, len(expense.OwingIDs))
		for _, id := range expense.OwingIDs {
			balances[id] = balances[id].Sub(share)
		}
	}

	return balances
}

// LedgerTotal returns the sum of all expense amounts, or money.ErrOverflow when it does
// not fit. No balance, partial sum or debt derived from a ledger exceeds its total, so
// ComputeBalances and ComputeDebts are exact whenever LedgerTotal succeeds.
func LedgerTotal(expenses []models.Expense) (money.Money, error) {
	var total money.Money
	for _, expense := range expenses {
		var err error
		if total, err = total.AddChecked(expense.Amount.Abs()); err != nil {
			return money.Zero, err
		}
	}
	return total, nil
}

// Imbalance returns the sum of all balances. It is zero unless even splits left
// rounding residuals with their payers.
func Imbalance(balances map[string]money.Money) money.Money {
	var total money.Money
	for _, b := range balances {
		total = total.Add(b)
	}
	return total
}

// SortedIDs returns the participant IDs of balances in ascending order.
func SortedIDs(balances map[string]money.Money) []string {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
