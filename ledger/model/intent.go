package model

import "time"

// CreateIntent is a tagged create request: exactly one of Simple or Transfer
// is set. Keeping the two shapes apart at the type level means an ordinary
// entry can never claim the reserved Transfer category and end up as an
// unlinked record that looks like half a transfer.
type CreateIntent struct {
	Simple   *SimpleIntent
	Transfer *TransferIntent
}

// SimpleIntent creates one ordinary income or expense record.
type SimpleIntent struct {
	Type        TransactionType
	Amount      float64
	Category    string
	Description string
	Date        time.Time
	Division    Division
	Account     Account
}

// TransferIntent creates a linked expense/income pair moving money between
// two accounts.
type TransferIntent struct {
	Amount             float64
	Date               time.Time
	Description        string
	SourceAccount      Account
	DestinationAccount Account
	Division           Division
}

// Record builds the Transaction a simple intent describes. The result still
// needs Validate before persistence.
func (s *SimpleIntent) Record() Transaction {
	return Transaction{
		Type:        s.Type,
		Amount:      s.Amount,
		Category:    s.Category,
		Description: s.Description,
		Date:        s.Date,
		Division:    s.Division,
		Account:     s.Account,
	}
}
