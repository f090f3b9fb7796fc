package services

import (
	"context"
	"math"
	"sort"
	"time"

	"tracker/src/models"
	"tracker/src/repositories"
	"tracker/src/schemas"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AnalyticsServiceI interface {
	GetSummary(ctx context.Context, ownerID int64, period schemas.Period, mainCurrency string, accountID *string) (*schemas.Summary, error)
	GetTopCategories(ctx context.Context, query schemas.TopQuery) ([]schemas.TopGroup, error)
	GetTopTags(ctx context.Context, query schemas.TopQuery) ([]schemas.TopGroup, error)
	GetTopTransfers(ctx context.Context, query schemas.TopQuery) ([]schemas.TopTransfer, error)
	GetAnomalies(ctx context.Context, query schemas.AnomalyQuery) ([]schemas.AnomalyRow, error)
	GetByType(ctx context.Context, ownerID int64, period schemas.Period, mainCurrency string, accountID *string) (*schemas.TypeSplit, error)
	GetCategoryDetail(ctx context.Context, query schemas.DetailQuery) (*schemas.DetailPage, error)
	GetTagDetail(ctx context.Context, query schemas.DetailQuery) (*schemas.DetailPage, error)
}

// AnalyticsService summarizes the ledger over reporting windows in one
// currency. It never fails on missing data: empty windows produce zeroed
// results.
type AnalyticsService struct {
	transactionRepo repositories.TransactionRepository
	assetRepo       repositories.AccountAssetRepository
	currency        CurrencyServiceI
	log             *logrus.Logger

	// now is swapped in tests to pin the reporting windows.
	now func() time.Time
}

func NewAnalyticsService(
	transactionRepo repositories.TransactionRepository,
	assetRepo repositories.AccountAssetRepository,
	currency CurrencyServiceI,
	log *logrus.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
		currency:        currency,
		log:             log,
		now:             time.Now,
	}
}

// WithClock overrides the time source used to resolve reporting windows.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// DateRange resolves a period to its reporting window. Rolling periods are
// whole-day windows: they end at 23:59:59.999 today and start N-1 days
// earlier at midnight. Calendar periods run from their boundary (Monday,
// first of month, first of the month two months back) through now.
func (s *AnalyticsService) DateRange(period schemas.Period) (time.Time, time.Time) {
	now := s.now()
	switch period {
	case schemas.Period7Days:
		return rollingDayRange(now, 7)
	case schemas.Period90Days:
		return rollingDayRange(now, 90)
	case schemas.PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7
		monday := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
		return monday, now
	case schemas.PeriodMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, now
	case schemas.Period3Months:
		first := time.Date(now.Year(), now.Month()-2, 1, 0, 0, 0, 0, now.Location())
		return first, now
	default:
		return rollingDayRange(now, 30)
	}
}

// PrevDateRange is the window of identical span immediately before the
// current one, ending 1ms before it starts.
func (s *AnalyticsService) PrevDateRange(period schemas.Period) (time.Time, time.Time) {
	from, to := s.DateRange(period)
	span := to.Sub(from)
	prevTo := from.Add(-time.Millisecond)
	return prevTo.Add(-span), prevTo
}

// PeriodDays is the window length in whole days, floored at 1 so burn-rate
// math never divides by zero.
func (s *AnalyticsService) PeriodDays(period schemas.Period) int64 {
	from, to := s.DateRange(period)
	days := int64(math.Ceil(to.Sub(from).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

func rollingDayRange(now time.Time, days int) (time.Time, time.Time) {
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), now.Location())
	from := time.Date(now.Year(), now.Month(), now.Day()-days+1, 0, 0, 0, 0, now.Location())
	return from, to
}

func (s *AnalyticsService) GetSummary(ctx context.Context, ownerID int64, period schemas.Period, mainCurrency string, accountID *string) (*schemas.Summary, error) {
	from, to := s.DateRange(period)
	prevFrom, prevTo := s.PrevDateRange(period)

	expenses, err := s.sumWindow(ctx, ownerID, models.DirectionExpense, from, to, mainCurrency, accountID)
	if err != nil {
		return nil, err
	}
	income, err := s.sumWindow(ctx, ownerID, models.DirectionIncome, from, to, mainCurrency, accountID)
	if err != nil {
		return nil, err
	}
	expensesPrev, err := s.sumWindow(ctx, ownerID, models.DirectionExpense, prevFrom, prevTo, mainCurrency, accountID)
	if err != nil {
		return nil, err
	}
	incomePrev, err := s.sumWindow(ctx, ownerID, models.DirectionIncome, prevFrom, prevTo, mainCurrency, accountID)
	if err != nil {
		return nil, err
	}

	balance, err := s.currentBalance(ctx, ownerID, mainCurrency, accountID)
	if err != nil {
		return nil, err
	}

	return &schemas.Summary{
		Period:           period,
		MainCurrency:     mainCurrency,
		From:             from,
		To:               to,
		Balance:          balance,
		Expenses:         expenses,
		Income:           income,
		ExpensesPrev:     expensesPrev,
		IncomePrev:       incomePrev,
		ExpensesTrendPct: trendPct(expenses, expensesPrev),
		IncomeTrendPct:   trendPct(income, incomePrev),
		BurnRate:         expenses.Div(decimal.NewFromInt(s.PeriodDays(period))),
	}, nil
}

func (s *AnalyticsService) GetTopCategories(ctx context.Context, query schemas.TopQuery) ([]schemas.TopGroup, error) {
	return s.topGroups(ctx, query, func(row models.TransactionWithRefs) (string, bool) {
		if row.CategoryName == nil {
			return "uncategorized", true
		}
		return *row.CategoryName, true
	})
}

func (s *AnalyticsService) GetTopTags(ctx context.Context, query schemas.TopQuery) ([]schemas.TopGroup, error) {
	return s.topGroups(ctx, query, func(row models.TransactionWithRefs) (string, bool) {
		if row.TagName == nil {
			return "", false
		}
		return *row.TagName, true
	})
}

// topGroups groups expense rows of the window by a name, converts and sums
// each group and ranks descending. The percentage denominator is the
// beginning balance when positive; otherwise shares degrade to the raw
// converted sums.
func (s *AnalyticsService) topGroups(ctx context.Context, query schemas.TopQuery, groupName func(models.TransactionWithRefs) (string, bool)) ([]schemas.TopGroup, error) {
	rows, err := s.windowRows(ctx, query.OwnerID, models.DirectionExpense, query.Period, query.AccountID)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	for _, row := range rows {
		name, ok := groupName(row)
		if !ok {
			continue
		}
		sums[name] = sums[name].Add(s.convertRow(ctx, &row.Transaction, query.MainCurrency))
	}

	denom := decimal.NewFromInt(1)
	if query.BeginningBalance != nil && query.BeginningBalance.IsPositive() {
		denom = *query.BeginningBalance
	}

	groups := make([]schemas.TopGroup, 0, len(sums))
	for name, sum := range sums {
		groups = append(groups, schemas.TopGroup{
			Name: name,
			Sum:  sum,
			Pct:  sum.Div(denom).Mul(decimal.NewFromInt(100)),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Sum.GreaterThan(groups[j].Sum)
	})
	if query.Limit > 0 && len(groups) > query.Limit {
		groups = groups[:query.Limit]
	}
	return groups, nil
}

const maxTransferItems = 3

func (s *AnalyticsService) GetTopTransfers(ctx context.Context, query schemas.TopQuery) ([]schemas.TopTransfer, error) {
	rows, err := s.windowRows(ctx, query.OwnerID, models.DirectionTransfer, query.Period, query.AccountID)
	if err != nil {
		return nil, err
	}

	type pair struct{ from, to string }
	grouped := make(map[pair]*schemas.TopTransfer)
	for _, row := range rows {
		if row.ToAccountID == nil {
			continue
		}
		key := pair{from: row.AccountID, to: *row.ToAccountID}
		converted := s.convertRow(ctx, &row.Transaction, query.MainCurrency)

		group, ok := grouped[key]
		if !ok {
			group = &schemas.TopTransfer{FromAccountID: key.from, ToAccountID: key.to}
			grouped[key] = group
		}
		group.Sum = group.Sum.Add(converted)
		group.Items = append(group.Items, schemas.TransferItem{
			ID:              row.ID,
			ConvertedAmount: converted,
			Description:     row.Description,
			Date:            row.TransactionDate,
		})
	}

	transfers := make([]schemas.TopTransfer, 0, len(grouped))
	for _, group := range grouped {
		sort.Slice(group.Items, func(i, j int) bool {
			return group.Items[i].ConvertedAmount.GreaterThan(group.Items[j].ConvertedAmount)
		})
		if len(group.Items) > maxTransferItems {
			group.Items = group.Items[:maxTransferItems]
		}
		transfers = append(transfers, *group)
	}

	sort.Slice(transfers, func(i, j int) bool {
		return transfers[i].Sum.GreaterThan(transfers[j].Sum)
	})
	if query.Limit > 0 && len(transfers) > query.Limit {
		transfers = transfers[:query.Limit]
	}
	return transfers, nil
}

// GetAnomalies flags expense rows whose converted amount meets the effective
// threshold: half the beginning balance when one is known, so sensitivity
// scales with the account's own size, else the caller's static threshold.
func (s *AnalyticsService) GetAnomalies(ctx context.Context, query schemas.AnomalyQuery) ([]schemas.AnomalyRow, error) {
	threshold := query.Threshold
	if query.BeginningBalance != nil && query.BeginningBalance.IsPositive() {
		threshold = query.BeginningBalance.Mul(decimal.NewFromFloat(0.5))
	}

	rows, err := s.windowRows(ctx, query.OwnerID, models.DirectionExpense, query.Period, query.AccountID)
	if err != nil {
		return nil, err
	}

	var anomalies []schemas.AnomalyRow
	for _, row := range rows {
		converted := s.convertRow(ctx, &row.Transaction, query.MainCurrency)
		if converted.LessThan(threshold) {
			continue
		}
		anomalies = append(anomalies, schemas.AnomalyRow{
			ID:              row.ID,
			AccountID:       row.AccountID,
			Amount:          row.Amount,
			Currency:        row.Currency,
			ConvertedAmount: converted,
			CategoryName:    row.CategoryName,
			Description:     row.Description,
			Date:            row.TransactionDate,
		})
	}
	return anomalies, nil
}

func (s *AnalyticsService) GetByType(ctx context.Context, ownerID int64, period schemas.Period, mainCurrency string, accountID *string) (*schemas.TypeSplit, error) {
	from, to := s.DateRange(period)
	rows, err := s.transactionRepo.Find(ctx, s.windowFilter(ownerID, nil, from, to, accountID))
	if err != nil {
		return nil, err
	}

	var split schemas.TypeSplit
	for _, row := range rows {
		converted := s.convertRow(ctx, &row.Transaction, mainCurrency)
		switch row.Direction {
		case models.DirectionExpense:
			split.Expenses = split.Expenses.Add(converted)
		case models.DirectionIncome:
			split.Income = split.Income.Add(converted)
		case models.DirectionTransfer:
			split.Transfers = split.Transfers.Add(converted)
		}
	}
	return &split, nil
}

func (s *AnalyticsService) GetCategoryDetail(ctx context.Context, query schemas.DetailQuery) (*schemas.DetailPage, error) {
	filter := s.detailFilter(query)
	filter.CategoryID = query.CategoryID
	return s.detailPage(ctx, query, filter)
}

func (s *AnalyticsService) GetTagDetail(ctx context.Context, query schemas.DetailQuery) (*schemas.DetailPage, error) {
	filter := s.detailFilter(query)
	filter.TagID = query.TagID
	return s.detailPage(ctx, query, filter)
}

func (s *AnalyticsService) detailFilter(query schemas.DetailQuery) repositories.TransactionFilter {
	from, to := s.DateRange(query.Period)
	direction := models.DirectionExpense
	filter := s.windowFilter(query.OwnerID, &direction, from, to, query.AccountID)
	filter.Limit = query.Limit
	filter.Offset = query.Offset
	return filter
}

func (s *AnalyticsService) detailPage(ctx context.Context, query schemas.DetailQuery, filter repositories.TransactionFilter) (*schemas.DetailPage, error) {
	rows, err := s.transactionRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	countFilter := filter
	countFilter.Limit = 0
	countFilter.Offset = 0
	total, err := s.transactionRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	items := make([]schemas.DetailRow, 0, len(rows))
	for _, row := range rows {
		items = append(items, schemas.DetailRow{
			ID:              row.ID,
			AccountID:       row.AccountID,
			Amount:          row.Amount,
			Currency:        row.Currency,
			ConvertedAmount: s.convertRow(ctx, &row.Transaction, query.MainCurrency),
			Description:     row.Description,
			Date:            row.TransactionDate,
		})
	}

	return &schemas.DetailPage{
		Items:  items,
		Total:  total,
		Limit:  query.Limit,
		Offset: query.Offset,
	}, nil
}

func (s *AnalyticsService) windowFilter(ownerID int64, direction *models.TransactionDirection, from, to time.Time, accountID *string) repositories.TransactionFilter {
	return repositories.TransactionFilter{
		OwnerID:       ownerID,
		Direction:     direction,
		From:          &from,
		To:            &to,
		AccountID:     accountID,
		ExcludeHidden: accountID == nil,
	}
}

func (s *AnalyticsService) windowRows(ctx context.Context, ownerID int64, direction models.TransactionDirection, period schemas.Period, accountID *string) ([]models.TransactionWithRefs, error) {
	from, to := s.DateRange(period)
	return s.transactionRepo.Find(ctx, s.windowFilter(ownerID, &direction, from, to, accountID))
}

func (s *AnalyticsService) sumWindow(ctx context.Context, ownerID int64, direction models.TransactionDirection, from, to time.Time, mainCurrency string, accountID *string) (decimal.Decimal, error) {
	rows, err := s.transactionRepo.Find(ctx, s.windowFilter(ownerID, &direction, from, to, accountID))
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(s.convertRow(ctx, &row.Transaction, mainCurrency))
	}
	return sum, nil
}

// currentBalance is "balance as of now": the sum of current holdings
// converted at the live rate, not a point-in-time historical balance.
func (s *AnalyticsService) currentBalance(ctx context.Context, ownerID int64, mainCurrency string, accountID *string) (decimal.Decimal, error) {
	var assets []models.AccountAsset
	var err error
	if accountID != nil {
		assets, err = s.assetRepo.GetByAccount(ctx, *accountID)
	} else {
		assets, err = s.assetRepo.GetByOwner(ctx, ownerID, false)
	}
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, asset := range assets {
		balance = balance.Add(s.currency.Convert(ctx, asset.Amount, asset.Currency, mainCurrency))
	}
	return balance, nil
}

func (s *AnalyticsService) convertRow(ctx context.Context, t *models.Transaction, mainCurrency string) decimal.Decimal {
	date := t.TransactionDate
	return s.currency.ToMainCurrency(ctx, t.Amount, t.Currency, mainCurrency, &date, t.AmountUSD)
}

// trendPct is nil when the previous period had nothing to compare against.
func trendPct(current, previous decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	pct := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	return &pct
}
