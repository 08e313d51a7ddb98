package calculator

import "github.com/mmynk/splitty/internal/models"

// RecordSettlement builds the ledger entry for paying off debt.
//
// The debtor becomes the payer of the full, unsplit amount and the creditor is the only
// owing participant. Appending it to the ledger therefore raises debt.From's balance and
// lowers debt.To's balance by exactly debt.Amount and touches nobody else.
// ID, EventID, Date and CreatedAt are left for the caller and the store to fill in.
func RecordSettlement(debt models.Debt) models.Expense {
	return models.Expense{
		PayerID:      debt.From,
		Amount:       debt.Amount,
		Purpose:      models.SettlementPurpose,
		OwingIDs:     []string{debt.To},
		IsSettlement: true,
	}
}
