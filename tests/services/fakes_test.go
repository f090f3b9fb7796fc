package services_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tracker/src/models"
	"tracker/src/repositories"
	"tracker/src/services"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// fakeTxManager runs the function without a real storage transaction; the
// repositories below accept a nil tx.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}

// fakeAssetRepo keeps balances in memory keyed by (account, currency).
type fakeAssetRepo struct {
	balances map[string]map[string]decimal.Decimal
	owners   map[string]int64
	hidden   map[string]bool
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{
		balances: make(map[string]map[string]decimal.Decimal),
		owners:   make(map[string]int64),
		hidden:   make(map[string]bool),
	}
}

func (r *fakeAssetRepo) seed(accountID string, ownerID int64, currency string, amount decimal.Decimal) {
	r.owners[accountID] = ownerID
	if r.balances[accountID] == nil {
		r.balances[accountID] = make(map[string]decimal.Decimal)
	}
	r.balances[accountID][currency] = amount
}

func (r *fakeAssetRepo) balance(accountID, currency string) decimal.Decimal {
	return r.balances[accountID][currency]
}

func (r *fakeAssetRepo) AddDelta(ctx context.Context, tx pgx.Tx, accountID, currency string, delta decimal.Decimal) error {
	if r.balances[accountID] == nil {
		r.balances[accountID] = make(map[string]decimal.Decimal)
	}
	r.balances[accountID][currency] = r.balances[accountID][currency].Add(delta)
	return nil
}

func (r *fakeAssetRepo) GetByAccount(ctx context.Context, accountID string) ([]models.AccountAsset, error) {
	var assets []models.AccountAsset
	for currency, amount := range r.balances[accountID] {
		assets = append(assets, models.AccountAsset{
			AccountID: accountID,
			Currency:  currency,
			Amount:    amount,
		})
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Currency < assets[j].Currency })
	return assets, nil
}

func (r *fakeAssetRepo) GetByOwner(ctx context.Context, ownerID int64, includeHidden bool) ([]models.AccountAsset, error) {
	var assets []models.AccountAsset
	accountIDs := make([]string, 0, len(r.balances))
	for accountID := range r.balances {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)
	for _, accountID := range accountIDs {
		if r.owners[accountID] != ownerID {
			continue
		}
		if r.hidden[accountID] && !includeHidden {
			continue
		}
		byAccount, _ := r.GetByAccount(ctx, accountID)
		assets = append(assets, byAccount...)
	}
	return assets, nil
}

// fakeTransactionRepo stores transactions in memory and evaluates the same
// filter semantics as the SQL queries.
type fakeTransactionRepo struct {
	transactions  map[string]models.Transaction
	categoryNames map[string]string
	tagNames      map[string]string
	hiddenAccount map[string]bool
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions:  make(map[string]models.Transaction),
		categoryNames: make(map[string]string),
		tagNames:      make(map[string]string),
		hiddenAccount: make(map[string]bool),
	}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	r.transactions[t.ID] = *t
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id string, ownerID int64) (*models.Transaction, error) {
	t, ok := r.transactions[id]
	if !ok || t.OwnerID != ownerID {
		return nil, nil
	}
	copied := t
	return &copied, nil
}

func (r *fakeTransactionRepo) Update(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	if _, ok := r.transactions[t.ID]; !ok {
		return fmt.Errorf("transaction %s not found", t.ID)
	}
	r.transactions[t.ID] = *t
	return nil
}

func (r *fakeTransactionRepo) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	delete(r.transactions, id)
	return nil
}

func (r *fakeTransactionRepo) matches(t models.Transaction, f repositories.TransactionFilter) bool {
	if t.OwnerID != f.OwnerID {
		return false
	}
	if f.Direction != nil && t.Direction != *f.Direction {
		return false
	}
	if f.From != nil && t.TransactionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && t.TransactionDate.After(*f.To) {
		return false
	}
	if f.AccountID != nil {
		onEitherSide := t.AccountID == *f.AccountID ||
			(t.ToAccountID != nil && *t.ToAccountID == *f.AccountID)
		if !onEitherSide {
			return false
		}
	}
	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}
	if f.TagID != nil && (t.TagID == nil || *t.TagID != *f.TagID) {
		return false
	}
	if f.ExcludeHidden && r.hiddenAccount[t.AccountID] {
		return false
	}
	return true
}

func (r *fakeTransactionRepo) Find(ctx context.Context, f repositories.TransactionFilter) ([]models.TransactionWithRefs, error) {
	var rows []models.TransactionWithRefs
	for _, t := range r.transactions {
		if !r.matches(t, f) {
			continue
		}
		row := models.TransactionWithRefs{Transaction: t}
		if t.CategoryID != nil {
			if name, ok := r.categoryNames[*t.CategoryID]; ok {
				row.CategoryName = &name
			}
		}
		if t.TagID != nil {
			if name, ok := r.tagNames[*t.TagID]; ok {
				row.TagName = &name
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TransactionDate.After(rows[j].TransactionDate)
	})
	if f.Offset > 0 {
		if f.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[f.Offset:]
		}
	}
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}
	return rows, nil
}

func (r *fakeTransactionRepo) Count(ctx context.Context, f repositories.TransactionFilter) (int64, error) {
	var count int64
	for _, t := range r.transactions {
		if r.matches(t, f) {
			count++
		}
	}
	return count, nil
}

// fakeAccountRepo backs the account service tests.
type fakeAccountRepo struct {
	accounts map[string]models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]models.Account)}
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string, ownerID int64) (*models.Account, error) {
	account, ok := r.accounts[id]
	if !ok || account.OwnerID != ownerID {
		return nil, nil
	}
	copied := account
	return &copied, nil
}

func (r *fakeAccountRepo) GetByOwner(ctx context.Context, ownerID int64, includeHidden bool) ([]models.Account, error) {
	var accounts []models.Account
	for _, account := range r.accounts {
		if account.OwnerID != ownerID {
			continue
		}
		if account.Hidden && !includeHidden {
			continue
		}
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (r *fakeAccountRepo) SetHidden(ctx context.Context, id string, ownerID int64, hidden bool) (bool, error) {
	account, ok := r.accounts[id]
	if !ok || account.OwnerID != ownerID {
		return false, nil
	}
	account.Hidden = hidden
	r.accounts[id] = account
	return true, nil
}

// stubRateService serves a fixed base-relative table and canned historical
// rates keyed by "date|from|to".
type stubRateService struct {
	table      *models.RateTable
	historical map[string]float64
	crypto     map[string]bool
}

func newStubRateService(rates map[string]float64) *stubRateService {
	return &stubRateService{
		table: &models.RateTable{
			Base:      "USD",
			Rates:     rates,
			FetchedAt: time.Now(),
		},
		historical: make(map[string]float64),
		crypto:     map[string]bool{"BTC": true, "ETH": true, "USDT": true},
	}
}

func (s *stubRateService) setHistorical(date time.Time, from, to string, rate float64) {
	s.historical[date.Format("2006-01-02")+"|"+from+"|"+to] = rate
}

func (s *stubRateService) GetRates(ctx context.Context) *models.RateTable     { return s.table }
func (s *stubRateService) RefreshRates(ctx context.Context) *models.RateTable { return s.table }

func (s *stubRateService) GetHistoricalRate(ctx context.Context, date time.Time, from, to string) (float64, bool) {
	if from == to {
		return 1, true
	}
	rate, ok := s.historical[date.Format("2006-01-02")+"|"+from+"|"+to]
	return rate, ok
}

func (s *stubRateService) IsCrypto(code string) bool { return s.crypto[code] }

var _ services.RateServiceI = (*stubRateService)(nil)
var _ repositories.TransactionRepository = (*fakeTransactionRepo)(nil)
var _ repositories.AccountAssetRepository = (*fakeAssetRepo)(nil)
var _ repositories.AccountRepository = (*fakeAccountRepo)(nil)
var _ repositories.TxManager = (*fakeTxManager)(nil)
