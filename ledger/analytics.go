package ledger

import (
	"time"

	"moneymanager/backend/ledger/model"
)

// Totals holds the summed income and expense over a record set.
type Totals struct {
	Income  float64 `json:"totalIncome"`
	Expense float64 `json:"totalExpense"`
}

// CategoryTotal is the aggregate for one category. Type is the type of an
// arbitrary member of the group; categories are type-homogeneous in practice
// (the Transfer category spans both and reports one representative type), so
// callers must not use it to disambiguate mixed-type categories.
type CategoryTotal struct {
	Category string                `json:"category"`
	Total    float64               `json:"total"`
	Type     model.TransactionType `json:"type"`
}

// Granularity selects the time-series window and bucket size.
type Granularity string

const (
	// GranularityDaily buckets the trailing 7 days, one per day.
	GranularityDaily Granularity = "daily"
	// GranularityWeekly splits the trailing month into four 7-day buckets.
	GranularityWeekly Granularity = "weekly"
	// GranularityYearly buckets the trailing 12 calendar months.
	GranularityYearly Granularity = "yearly"
)

// SeriesBucket is one interval of a time series with its summed flows.
type SeriesBucket struct {
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// TotalsByType sums amounts per transaction type. A type with no matching
// records sums to zero.
func TotalsByType(records []model.Transaction) Totals {
	var t Totals
	for _, r := range records {
		switch r.Type {
		case model.TypeIncome:
			t.Income += r.Amount
		case model.TypeExpense:
			t.Expense += r.Amount
		}
	}
	return t
}

// TotalsByCategory groups records by category, summing amounts and keeping
// the first-seen type as the group's representative. Order follows first
// appearance in the input.
func TotalsByCategory(records []model.Transaction) []CategoryTotal {
	index := make(map[string]int, len(records))
	stats := make([]CategoryTotal, 0)
	for _, r := range records {
		i, ok := index[r.Category]
		if !ok {
			i = len(stats)
			index[r.Category] = i
			stats = append(stats, CategoryTotal{Category: r.Category, Type: r.Type})
		}
		stats[i].Total += r.Amount
	}
	return stats
}

// TimeSeries folds records into the buckets of the requested granularity,
// ending at now. Records outside every bucket contribute to none.
func TimeSeries(records []model.Transaction, granularity Granularity, now time.Time) []SeriesBucket {
	switch granularity {
	case GranularityWeekly:
		return weeklySeries(records, now)
	case GranularityYearly:
		return yearlySeries(records, now)
	default:
		return dailySeries(records, now)
	}
}

// SeriesWindowStart is the inclusive lower bound of the read window feeding
// TimeSeries for the given granularity.
func SeriesWindowStart(granularity Granularity, now time.Time) time.Time {
	switch granularity {
	case GranularityWeekly:
		return now.AddDate(0, -1, 0)
	case GranularityYearly:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// One bucket per calendar day for the trailing 7 days; a record lands in the
// bucket whose local date matches, ignoring time of day.
func dailySeries(records []model.Transaction, now time.Time) []SeriesBucket {
	buckets := make([]SeriesBucket, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		b := SeriesBucket{Label: day.Format("Mon")}
		for _, r := range records {
			if !sameDay(r.Date, day) {
				continue
			}
			addToBucket(&b, r)
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// Four contiguous 7-day spans measured from one month before now. A record's
// bucket is floor((date - windowStart) / 7d); indices outside [0,3] are
// dropped, not clamped.
func weeklySeries(records []model.Transaction, now time.Time) []SeriesBucket {
	const week = 7 * 24 * time.Hour

	buckets := []SeriesBucket{
		{Label: "Week 1"}, {Label: "Week 2"}, {Label: "Week 3"}, {Label: "Week 4"},
	}
	start := now.AddDate(0, -1, 0)
	for _, r := range records {
		diff := r.Date.Sub(start)
		if diff < 0 {
			continue
		}
		idx := int(diff / week)
		if idx > 3 {
			continue
		}
		addToBucket(&buckets[idx], r)
	}
	return buckets
}

// One bucket per calendar month for the trailing 12 months. Matching uses
// month and year together so same-month records a year apart stay separate.
func yearlySeries(records []model.Transaction, now time.Time) []SeriesBucket {
	buckets := make([]SeriesBucket, 0, 12)
	for i := 11; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		b := SeriesBucket{Label: month.Format("Jan")}
		for _, r := range records {
			d := r.Date.Local()
			if d.Month() != month.Month() || d.Year() != month.Year() {
				continue
			}
			addToBucket(&b, r)
		}
		buckets = append(buckets, b)
	}
	return buckets
}

func addToBucket(b *SeriesBucket, r model.Transaction) {
	switch r.Type {
	case model.TypeIncome:
		b.Income += r.Amount
	case model.TypeExpense:
		b.Expense += r.Amount
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
