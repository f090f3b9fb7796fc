package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tracker/src/models"
	"tracker/src/repositories"
	"tracker/src/schemas"
	"tracker/src/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type LedgerServiceI interface {
	CreateTransaction(ctx context.Context, params schemas.CreateTransactionParams) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, ownerID int64, params schemas.UpdateTransactionParams) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string, ownerID int64) (*models.Transaction, error)
}

// LedgerService owns the balance bookkeeping for transactions. Every
// mutation is exactly reversible: updating or deleting a transaction first
// undoes its prior balance effect using the stored pre-change values, so
// repeated edits cannot drift.
type LedgerService struct {
	transactionRepo repositories.TransactionRepository
	assetRepo       repositories.AccountAssetRepository
	currency        CurrencyServiceI
	txManager       repositories.TxManager
}

func NewLedgerService(
	transactionRepo repositories.TransactionRepository,
	assetRepo repositories.AccountAssetRepository,
	currency CurrencyServiceI,
	txManager repositories.TxManager,
) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		assetRepo:       assetRepo,
		currency:        currency,
		txManager:       txManager,
	}
}

// CreateTransaction validates the input, snapshots a USD equivalent for
// later historical fallback, persists the transaction and applies its
// balance effect, all within one storage transaction.
func (s *LedgerService) CreateTransaction(ctx context.Context, params schemas.CreateTransactionParams) (*models.Transaction, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(params.Currency) == "" {
		return nil, ErrInvalidCurrency
	}
	if params.Detail == nil {
		return nil, ErrMissingDetail
	}

	t := &models.Transaction{
		ID:              uuid.NewString(),
		OwnerID:         params.OwnerID,
		Direction:       params.Detail.Direction(),
		AccountID:       params.AccountID,
		Amount:          params.Amount,
		Currency:        params.Currency,
		Description:     params.Description,
		TransactionDate: params.Date,
	}
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now()
	}

	switch detail := params.Detail.(type) {
	case schemas.ExpenseDetail:
		t.CategoryID = detail.CategoryID
		t.TagID = detail.TagID
		t.ConvertedAmount = detail.ConvertedAmount
		t.ConvertedCurrency = detail.ConvertedCurrency
	case schemas.IncomeDetail:
		t.CategoryID = detail.CategoryID
		t.ConvertedAmount = detail.ConvertedAmount
		t.ConvertedCurrency = detail.ConvertedCurrency
	case schemas.TransferDetail:
		if detail.ToAccountID == "" {
			return nil, ErrMissingToAccount
		}
		toAccount := detail.ToAccountID
		t.ToAccountID = &toAccount
		t.ConvertedAmount = detail.ConvertedAmount
		t.ConvertedCurrency = detail.ConvertedCurrency
		if detail.Trade != nil {
			tradeType := detail.Trade.Type
			t.TradeType = &tradeType
			t.BaseCurrency = &detail.Trade.BaseCurrency
			t.BaseAmount = &detail.Trade.BaseAmount
			t.QuoteCurrency = &detail.Trade.QuoteCurrency
			t.QuoteAmount = &detail.Trade.QuoteAmount
			t.ExecutionPrice = &detail.Trade.ExecutionPrice
			t.FeeAmount = detail.Trade.FeeAmount
			t.FeeCurrency = detail.Trade.FeeCurrency
		}
	default:
		return nil, fmt.Errorf("unsupported transaction detail %T", params.Detail)
	}

	t.AmountUSD = s.usdSnapshot(ctx, t.Amount, t.Currency)

	err := s.txManager.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.transactionRepo.Create(ctx, tx, t); err != nil {
			return fmt.Errorf("failed to persist transaction: %w", err)
		}
		return s.applyBalanceEffect(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithFields(logrus.Fields{
		"transaction": t.ID,
		"direction":   t.Direction,
		"account":     t.AccountID,
	}).Info("transaction created")
	return t, nil
}

// UpdateTransaction reverses the stored transaction's balance effect,
// merges the new field values and reapplies. Reverse and reapply run inside
// a single storage transaction so the ledger is never inconsistent across
// calls.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, ownerID int64, params schemas.UpdateTransactionParams) (*models.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	updated := *existing
	amountChanged := false

	if params.Amount != nil {
		if !params.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		updated.Amount = *params.Amount
		amountChanged = true
	}
	if params.Currency != nil {
		if strings.TrimSpace(*params.Currency) == "" {
			return nil, ErrInvalidCurrency
		}
		updated.Currency = *params.Currency
		amountChanged = true
	}
	if params.Description != nil {
		updated.Description = *params.Description
	}
	if params.Date != nil {
		updated.TransactionDate = *params.Date
	}
	if params.CategoryID != nil {
		updated.CategoryID = params.CategoryID
	}
	if params.TagID != nil {
		updated.TagID = params.TagID
	}
	if params.ToAccountID != nil && updated.Direction == models.DirectionTransfer {
		updated.ToAccountID = params.ToAccountID
	}
	if params.ConvertedAmount != nil {
		updated.ConvertedAmount = params.ConvertedAmount
	}
	if params.ConvertedCurrency != nil {
		updated.ConvertedCurrency = params.ConvertedCurrency
	}

	if amountChanged {
		updated.AmountUSD = s.usdSnapshot(ctx, updated.Amount, updated.Currency)
	}

	err = s.txManager.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.reverseBalanceEffect(ctx, tx, existing); err != nil {
			return err
		}
		if err := s.transactionRepo.Update(ctx, tx, &updated); err != nil {
			return fmt.Errorf("failed to persist transaction update: %w", err)
		}
		return s.applyBalanceEffect(ctx, tx, &updated)
	})
	if err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithField("transaction", id).Info("transaction updated")
	return &updated, nil
}

// DeleteTransaction reverses the transaction's balance effect and removes
// the record.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string, ownerID int64) (*models.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	err = s.txManager.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.reverseBalanceEffect(ctx, tx, existing); err != nil {
			return err
		}
		if err := s.transactionRepo.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithField("transaction", id).Info("transaction deleted")
	return existing, nil
}

func (s *LedgerService) applyBalanceEffect(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	return s.postBalanceEffect(ctx, tx, t, false)
}

func (s *LedgerService) reverseBalanceEffect(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	return s.postBalanceEffect(ctx, tx, t, true)
}

// postBalanceEffect posts the balance deltas of a transaction, or their
// exact algebraic inverse when invert is set. The credited side uses the
// effective (possibly converted) pair; a transfer debits its source by the
// raw pair, which models a transfer that itself converts currencies.
func (s *LedgerService) postBalanceEffect(ctx context.Context, tx pgx.Tx, t *models.Transaction, invert bool) error {
	effectiveAmount, effectiveCurrency := t.EffectivePosting()

	type delta struct {
		accountID string
		currency  string
		amount    decimal.Decimal
	}

	var deltas []delta
	switch t.Direction {
	case models.DirectionExpense:
		deltas = []delta{{t.AccountID, effectiveCurrency, effectiveAmount.Neg()}}
	case models.DirectionIncome:
		deltas = []delta{{t.AccountID, effectiveCurrency, effectiveAmount}}
	case models.DirectionTransfer:
		if t.ToAccountID == nil {
			return ErrMissingToAccount
		}
		deltas = []delta{
			{t.AccountID, t.Currency, t.Amount.Neg()},
			{*t.ToAccountID, effectiveCurrency, effectiveAmount},
		}
	default:
		return fmt.Errorf("unknown transaction direction %q", t.Direction)
	}

	for _, d := range deltas {
		amount := d.amount
		if invert {
			amount = amount.Neg()
		}
		if err := s.applyAssetDelta(ctx, tx, d.accountID, d.currency, amount); err != nil {
			return err
		}
	}
	return nil
}

// applyAssetDelta is the single balance mutation primitive: one atomic
// increment, so two transactions hitting the same (account, currency) pair
// cannot lose each other's write even when the row does not exist yet.
func (s *LedgerService) applyAssetDelta(ctx context.Context, tx pgx.Tx, accountID, currency string, delta decimal.Decimal) error {
	if err := s.assetRepo.AddDelta(ctx, tx, accountID, currency, delta); err != nil {
		return fmt.Errorf("failed to adjust balance for account %s %s: %w", accountID, currency, err)
	}
	return nil
}

// usdSnapshot records the USD equivalent at creation time. Best-effort: with
// no usable rate the snapshot simply equals the raw amount for USD and the
// live conversion otherwise.
func (s *LedgerService) usdSnapshot(ctx context.Context, amount decimal.Decimal, currency string) *decimal.Decimal {
	if currency == utils.USDCurrencyCode {
		return &amount
	}
	usd := s.currency.Convert(ctx, amount, currency, utils.USDCurrencyCode)
	return &usd
}
