// Package ledger implements the ledger engine: transaction creation with
// transfer expansion, the edit-lock policy, cascading deletion, and the
// aggregation of summaries and time series. All state lives in the
// repository; the engine itself is stateless between requests.
package ledger

import (
	"context"
	"fmt"
	"time"

	"moneymanager/backend/appcontext"
	"moneymanager/backend/ledger/model"
	"moneymanager/backend/ledger/repository"
)

// DeletionSummary reports what a delete removed so callers can distinguish a
// single delete from a transfer-pair cascade.
type DeletionSummary struct {
	ID              string `json:"id"`
	Deleted         int64  `json:"deleted"`
	TransferCascade bool   `json:"transferCascade"`
}

// Summary is the whole-ledger aggregate view.
type Summary struct {
	TotalIncome   float64         `json:"totalIncome"`
	TotalExpense  float64         `json:"totalExpense"`
	CategoryStats []CategoryTotal `json:"categoryStats"`
}

// Service is the ledger engine over a repository.
type Service struct {
	repo repository.Repository
}

// NewService creates a Service backed by the given repository.
func NewService(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the records matching filter, newest first.
func (s *Service) List(ctx context.Context, filter repository.ListFilter) ([]model.Transaction, error) {
	records, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return records, nil
}

// Create validates and persists the intent: one record for a simple entry,
// the expanded expense/income pair for a transfer. CreatedAt is stamped from
// the supplied now and never changes afterwards.
func (s *Service) Create(ctx context.Context, intent model.CreateIntent, now time.Time) ([]model.Transaction, error) {
	logger := appcontext.LoggerFromContext(ctx)

	if intent.Transfer != nil {
		expense, income, err := ExpandTransfer(*intent.Transfer)
		if err != nil {
			return nil, err
		}
		expense.CreatedAt = now
		income.CreatedAt = now

		legs, err := s.repo.InsertTransferPair(ctx, expense, income)
		if err != nil {
			return nil, fmt.Errorf("persisting transfer pair: %w", err)
		}

		logger.InfoContext(ctx, "transfer recorded",
			"transferId", expense.TransferID,
			"from", intent.Transfer.SourceAccount,
			"to", intent.Transfer.DestinationAccount,
			"amount", intent.Transfer.Amount,
		)
		return legs, nil
	}

	if intent.Simple == nil {
		return nil, model.NewValidationError("type", "transaction intent is required")
	}
	if intent.Simple.Category == model.CategoryTransfer {
		return nil, model.NewValidationError("category", "Transfer is reserved for account transfers")
	}

	record := intent.Simple.Record()
	record.CreatedAt = now
	if err := record.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("persisting transaction: %w", err)
	}
	return []model.Transaction{created}, nil
}

// Update applies the patch to the record with the given id, gated by the
// edit-lock policy. Identity fields (id, createdAt, transferId) are never
// altered.
func (s *Service) Update(ctx context.Context, id string, patch repository.Patch, now time.Time) (model.Transaction, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("loading transaction %s: %w", id, err)
	}

	if !CanEdit(existing.CreatedAt, now) {
		return model.Transaction{}, model.ErrEditLocked
	}

	if patch.Category == model.CategoryTransfer && existing.TransferID == "" {
		return model.Transaction{}, model.NewValidationError("category", "Transfer is reserved for account transfers")
	}

	candidate := model.Transaction{
		Type:        patch.Type,
		Amount:      patch.Amount,
		Category:    patch.Category,
		Description: patch.Description,
		Date:        patch.Date,
		Division:    patch.Division,
		Account:     patch.Account,
	}
	if err := candidate.Validate(); err != nil {
		return model.Transaction{}, err
	}

	updated, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("updating transaction %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes the record with the given id. When the record is a transfer
// leg, every record sharing its transfer token goes with it in one store
// operation, so a concurrent delete cannot strand the sibling leg.
func (s *Service) Delete(ctx context.Context, id string) (DeletionSummary, error) {
	logger := appcontext.LoggerFromContext(ctx)

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DeletionSummary{}, fmt.Errorf("loading transaction %s: %w", id, err)
	}

	if existing.TransferID != "" {
		deleted, err := s.repo.DeleteByTransferID(ctx, existing.TransferID)
		if err != nil {
			return DeletionSummary{}, fmt.Errorf("deleting transfer %s: %w", existing.TransferID, err)
		}
		logger.InfoContext(ctx, "transfer pair deleted", "transferId", existing.TransferID, "deleted", deleted)
		return DeletionSummary{ID: id, Deleted: deleted, TransferCascade: true}, nil
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return DeletionSummary{}, fmt.Errorf("deleting transaction %s: %w", id, err)
	}
	return DeletionSummary{ID: id, Deleted: 1}, nil
}

// Analytics computes type and category totals over the entire ledger from a
// single unfiltered read.
func (s *Service) Analytics(ctx context.Context) (Summary, error) {
	records, err := s.repo.Find(ctx, repository.ListFilter{})
	if err != nil {
		return Summary{}, fmt.Errorf("reading ledger for analytics: %w", err)
	}

	totals := TotalsByType(records)
	return Summary{
		TotalIncome:   totals.Income,
		TotalExpense:  totals.Expense,
		CategoryStats: TotalsByCategory(records),
	}, nil
}

// TimeSeries computes the bucketed income/expense series for the granularity,
// over one read covering its window ending at now.
func (s *Service) TimeSeries(ctx context.Context, granularity Granularity, now time.Time) ([]SeriesBucket, error) {
	start := SeriesWindowStart(granularity, now)
	records, err := s.repo.Find(ctx, repository.ListFilter{StartDate: &start, EndDate: &now})
	if err != nil {
		return nil, fmt.Errorf("reading ledger for time series: %w", err)
	}
	return TimeSeries(records, granularity, now), nil
}
