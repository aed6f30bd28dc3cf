package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moneymanager/backend/ledger"
	"moneymanager/backend/ledger/model"
)

// seed loads a small fixture set so a fresh database has something to show.
func seed(ctx context.Context, svc *ledger.Service, logger *slog.Logger) error {
	now := time.Now()

	intents := []model.CreateIntent{
		{Simple: &model.SimpleIntent{
			Type:        model.TypeIncome,
			Amount:      50000,
			Category:    "Salary",
			Description: "Monthly Salary",
			Date:        now.AddDate(0, 0, -20),
			Division:    model.DivisionPersonal,
			Account:     model.AccountBank,
		}},
		{Simple: &model.SimpleIntent{
			Type:        model.TypeExpense,
			Amount:      2000,
			Category:    "Food",
			Description: "Grocery Shopping",
			Date:        now.AddDate(0, 0, -16),
			Division:    model.DivisionPersonal,
			Account:     model.AccountCash,
		}},
		{Simple: &model.SimpleIntent{
			Type:        model.TypeExpense,
			Amount:      1500,
			Category:    "Fuel",
			Description: "Car Petrol",
			Date:        now.AddDate(0, 0, -14),
			Division:    model.DivisionOffice,
			Account:     model.AccountUPI,
		}},
		{Simple: &model.SimpleIntent{
			Type:        model.TypeIncome,
			Amount:      10000,
			Category:    "Freelance",
			Description: "Web Design Project",
			Date:        now.AddDate(0, 0, -11),
			Division:    model.DivisionPersonal,
			Account:     model.AccountSavings,
		}},
		{Simple: &model.SimpleIntent{
			Type:        model.TypeExpense,
			Amount:      500,
			Category:    "Medical",
			Description: "Medicine",
			Date:        now,
			Division:    model.DivisionPersonal,
			Account:     model.AccountCash,
		}},
		{Transfer: &model.TransferIntent{
			Amount:             5000,
			Date:               now.AddDate(0, 0, -5),
			Description:        "Monthly savings",
			SourceAccount:      model.AccountBank,
			DestinationAccount: model.AccountSavings,
			Division:           model.DivisionPersonal,
		}},
	}

	total := 0
	for _, intent := range intents {
		records, err := svc.Create(ctx, intent, now)
		if err != nil {
			return fmt.Errorf("seeding transaction: %w", err)
		}
		total += len(records)
	}

	logger.InfoContext(ctx, "Seed data imported", "records", total)
	return nil
}
