// Package model defines the persisted ledger entry and its validation rules.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Division partitions entries by context.
type Division string

const (
	DivisionOffice   Division = "Office"
	DivisionPersonal Division = "Personal"
)

// Account is the money source or destination of an entry.
type Account string

const (
	AccountCash    Account = "Cash"
	AccountBank    Account = "Bank"
	AccountUPI     Account = "UPI"
	AccountSavings Account = "Savings"
)

// CategoryTransfer is reserved for the two legs of an account transfer.
// User-authored entries must never carry it; the expander sets it.
const CategoryTransfer = "Transfer"

// Transaction represents a single income or expense event in the ledger.
// Transfers persist as two Transactions linked by TransferID.
type Transaction struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type        TransactionType    `json:"type" bson:"type"`
	Amount      float64            `json:"amount" bson:"amount"`
	Category    string             `json:"category" bson:"category"`
	Description string             `json:"description" bson:"description"`
	Date        time.Time          `json:"date" bson:"date"`
	Division    Division           `json:"division" bson:"division"`
	Account     Account            `json:"account" bson:"account"`
	// TransferID links the two legs of a transfer; empty for ordinary entries.
	TransferID string    `json:"transferId,omitempty" bson:"transferId,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// validTypes intentionally excludes "transfer": a transfer never persists as
// its own type, it is stored as one income plus one expense record.
var validTypes = map[TransactionType]bool{
	TypeIncome:  true,
	TypeExpense: true,
}

var validDivisions = map[Division]bool{
	DivisionOffice:   true,
	DivisionPersonal: true,
}

var validAccounts = map[Account]bool{
	AccountCash:    true,
	AccountBank:    true,
	AccountUPI:     true,
	AccountSavings: true,
}

// Validate checks the field-level rules for a candidate record. It is
// side-effect-free and reports the first violating field it finds.
func (t *Transaction) Validate() error {
	if t.Type == "" {
		return NewValidationError("type", "transaction type is required")
	}
	if !validTypes[t.Type] {
		return NewValidationError("type", "type must be income or expense")
	}
	if t.Amount <= 0 {
		return NewValidationError("amount", "amount must be a positive number")
	}
	if t.Category == "" {
		return NewValidationError("category", "category is required")
	}
	if t.Description == "" {
		return NewValidationError("description", "description is required")
	}
	if t.Date.IsZero() {
		return NewValidationError("date", "date is required")
	}
	if t.Division == "" {
		return NewValidationError("division", "division is required")
	}
	if !validDivisions[t.Division] {
		return NewValidationError("division", "division must be Office or Personal")
	}
	if t.Account == "" {
		return NewValidationError("account", "account is required")
	}
	if !validAccounts[t.Account] {
		return NewValidationError("account", "account must be Cash, Bank, UPI or Savings")
	}
	return nil
}
