package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"moneymanager/backend/appcontext"
	"moneymanager/backend/ledger"
	"moneymanager/backend/ledger/model"
	"moneymanager/backend/ledger/repository"
)

// Ledger is the slice of the ledger engine the transport layer needs.
type Ledger interface {
	List(ctx context.Context, filter repository.ListFilter) ([]model.Transaction, error)
	Create(ctx context.Context, intent model.CreateIntent, now time.Time) ([]model.Transaction, error)
	Update(ctx context.Context, id string, patch repository.Patch, now time.Time) (model.Transaction, error)
	Delete(ctx context.Context, id string) (ledger.DeletionSummary, error)
	Analytics(ctx context.Context) (ledger.Summary, error)
	TimeSeries(ctx context.Context, granularity ledger.Granularity, now time.Time) ([]ledger.SeriesBucket, error)
}

// Handler holds the transaction route handlers.
type Handler struct {
	svc Ledger
}

// transactionRequest is the wire shape of create and update requests. A
// create with type "transfer" carries the two account fields instead of
// category and account.
type transactionRequest struct {
	Type               string    `json:"type"`
	Amount             float64   `json:"amount"`
	Category           string    `json:"category"`
	Description        string    `json:"description"`
	Date               time.Time `json:"date"`
	Division           string    `json:"division"`
	Account            string    `json:"account"`
	SourceAccount      string    `json:"sourceAccount"`
	DestinationAccount string    `json:"destinationAccount"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type transferResponse struct {
	Message      string              `json:"message"`
	Transactions []model.Transaction `json:"transactions"`
}

// ListTransactions handles GET /api/transactions.
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(messageResponse{Message: err.Error()})
	}

	records, err := h.svc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	if records == nil {
		records = []model.Transaction{}
	}
	return c.Status(http.StatusOK).JSON(records)
}

// CreateTransaction handles POST /api/transactions, covering both ordinary
// entries and transfers.
func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(messageResponse{Message: "invalid request body"})
	}

	intent := req.intent()
	records, err := h.svc.Create(c.UserContext(), intent, time.Now())
	if err != nil {
		return respondError(c, err)
	}

	if intent.Transfer != nil {
		return c.Status(http.StatusCreated).JSON(transferResponse{
			Message:      "Transfer successful",
			Transactions: records,
		})
	}
	return c.Status(http.StatusCreated).JSON(records[0])
}

// UpdateTransaction handles PUT /api/transactions/:id.
func (h *Handler) UpdateTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(messageResponse{Message: "invalid request body"})
	}

	patch := repository.Patch{
		Type:        model.TransactionType(req.Type),
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		Division:    model.Division(req.Division),
		Account:     model.Account(req.Account),
	}

	updated, err := h.svc.Update(c.UserContext(), c.Params("id"), patch, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(updated)
}

// DeleteTransaction handles DELETE /api/transactions/:id.
func (h *Handler) DeleteTransaction(c *fiber.Ctx) error {
	summary, err := h.svc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(summary)
}

// GetAnalytics handles GET /api/transactions/analytics/summary.
func (h *Handler) GetAnalytics(c *fiber.Ctx) error {
	summary, err := h.svc.Analytics(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(summary)
}

// GetTimeSeries handles GET /api/transactions/analytics/timeseries.
func (h *Handler) GetTimeSeries(c *fiber.Ctx) error {
	granularity := ledger.Granularity(c.Query("range", string(ledger.GranularityDaily)))
	switch granularity {
	case ledger.GranularityDaily, ledger.GranularityWeekly, ledger.GranularityYearly:
	default:
		return c.Status(http.StatusBadRequest).JSON(messageResponse{
			Message: "range must be daily, weekly or yearly",
		})
	}

	series, err := h.svc.TimeSeries(c.UserContext(), granularity, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(series)
}

// intent maps the wire request onto the tagged create intent.
func (r *transactionRequest) intent() model.CreateIntent {
	if r.Type == "transfer" {
		return model.CreateIntent{Transfer: &model.TransferIntent{
			Amount:             r.Amount,
			Date:               r.Date,
			Description:        r.Description,
			SourceAccount:      model.Account(r.SourceAccount),
			DestinationAccount: model.Account(r.DestinationAccount),
			Division:           model.Division(r.Division),
		}}
	}
	return model.CreateIntent{Simple: &model.SimpleIntent{
		Type:        model.TransactionType(r.Type),
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        r.Date,
		Division:    model.Division(r.Division),
		Account:     model.Account(r.Account),
	}}
}

func parseListFilter(c *fiber.Ctx) (repository.ListFilter, error) {
	var filter repository.ListFilter

	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("startDate must be an RFC3339 timestamp")
		}
		filter.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("endDate must be an RFC3339 timestamp")
		}
		filter.EndDate = &t
	}
	filter.Category = c.Query("category")
	filter.Division = model.Division(c.Query("division"))
	filter.Type = model.TransactionType(c.Query("type"))

	return filter, nil
}

// respondError maps the engine error taxonomy onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	logger := appcontext.LoggerFromContext(c.UserContext())

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrMissingAccount):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrEditLocked):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(messageResponse{Message: err.Error()})
}
