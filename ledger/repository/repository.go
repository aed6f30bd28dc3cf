// Package repository defines the store-facing contract of the ledger engine.
package repository

import (
	"context"
	"time"

	"moneymanager/backend/ledger/model"
)

// ListFilter holds the optional, independently-omittable list criteria.
// A nil/empty field imposes no constraint; set fields compose with AND.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Division  model.Division
	Type      model.TransactionType
}

// Patch carries the mutable fields of an update. Identity fields (id,
// createdAt, transferId) are never part of a patch.
type Patch struct {
	Type        model.TransactionType
	Amount      float64
	Category    string
	Description string
	Date        time.Time
	Division    model.Division
	Account     model.Account
}

// Repository defines the interface for ledger persistence operations.
type Repository interface {
	// Insert persists one record and returns it with its assigned id.
	Insert(ctx context.Context, tx model.Transaction) (model.Transaction, error)

	// InsertTransferPair persists both legs of a transfer as one logical unit
	// of work. If the second write fails after the first succeeded the
	// implementation attempts one compensating delete of the first leg and
	// reports the outcome via *model.PartialTransferWriteError.
	InsertTransferPair(ctx context.Context, expense, income model.Transaction) ([]model.Transaction, error)

	// Find returns the records matching filter, sorted by date descending.
	Find(ctx context.Context, filter ListFilter) ([]model.Transaction, error)

	// FindByID returns the record with the given id, or
	// *model.ErrNotFound when no such record exists.
	FindByID(ctx context.Context, id string) (model.Transaction, error)

	// UpdateByID replaces the mutable fields of the record and returns the
	// updated document.
	UpdateByID(ctx context.Context, id string, patch Patch) (model.Transaction, error)

	// DeleteByID removes exactly one record.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByTransferID removes every record sharing the transfer token in a
	// single store-level operation and returns how many were removed.
	DeleteByTransferID(ctx context.Context, transferID string) (int64, error)
}
