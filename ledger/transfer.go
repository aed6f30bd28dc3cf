package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"moneymanager/backend/ledger/model"
)

// ExpandTransfer turns one transfer intent into its two linked legs: an
// expense on the source account and an income on the destination account,
// sharing amount, date, division and a fresh transfer token. Neither leg is
// persisted here.
func ExpandTransfer(intent model.TransferIntent) (expense, income model.Transaction, err error) {
	if missing := missingAccounts(intent); missing != "" {
		return model.Transaction{}, model.Transaction{}, &model.MissingAccountError{Missing: missing}
	}

	transferID := uuid.NewString()

	expense = model.Transaction{
		Type:        model.TypeExpense,
		Amount:      intent.Amount,
		Category:    model.CategoryTransfer,
		Description: fmt.Sprintf("Transfer to %s: %s", intent.DestinationAccount, intent.Description),
		Date:        intent.Date,
		Division:    intent.Division,
		Account:     intent.SourceAccount,
		TransferID:  transferID,
	}

	income = model.Transaction{
		Type:        model.TypeIncome,
		Amount:      intent.Amount,
		Category:    model.CategoryTransfer,
		Description: fmt.Sprintf("Transfer from %s: %s", intent.SourceAccount, intent.Description),
		Date:        intent.Date,
		Division:    intent.Division,
		Account:     intent.DestinationAccount,
		TransferID:  transferID,
	}

	if err := expense.Validate(); err != nil {
		return model.Transaction{}, model.Transaction{}, err
	}
	if err := income.Validate(); err != nil {
		return model.Transaction{}, model.Transaction{}, err
	}

	return expense, income, nil
}

// missingAccounts names the absent side(s) of a transfer intent, or returns
// an empty string when both are present. The system never defaults either
// side silently.
func missingAccounts(intent model.TransferIntent) string {
	switch {
	case intent.SourceAccount == "" && intent.DestinationAccount == "":
		return "sourceAccount, destinationAccount"
	case intent.SourceAccount == "":
		return "sourceAccount"
	case intent.DestinationAccount == "":
		return "destinationAccount"
	}
	return ""
}
