package services

import (
	"context"
	"strings"

	"tracker/src/models"
	"tracker/src/repositories"
	"tracker/src/schemas"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AccountServiceI interface {
	CreateAccount(ctx context.Context, ownerID int64, name, defaultCurrency string) (*models.Account, error)
	SetAccountHidden(ctx context.Context, id string, ownerID int64, hidden bool) error
	GetBalances(ctx context.Context, ownerID int64, mainCurrency string) ([]schemas.AccountBalance, error)
	GetPortfolioSplit(ctx context.Context, ownerID int64, mainCurrency string) (*schemas.PortfolioSplit, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	assetRepo   repositories.AccountAssetRepository
	currency    CurrencyServiceI
	log         *logrus.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	assetRepo repositories.AccountAssetRepository,
	currency CurrencyServiceI,
	log *logrus.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		assetRepo:   assetRepo,
		currency:    currency,
		log:         log,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, ownerID int64, name, defaultCurrency string) (*models.Account, error) {
	if strings.TrimSpace(defaultCurrency) == "" {
		return nil, ErrInvalidCurrency
	}

	account := &models.Account{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Name:            name,
		DefaultCurrency: defaultCurrency,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"account": account.ID, "owner": ownerID}).Info("account created")
	return account, nil
}

// SetAccountHidden soft-hides an account. Hidden accounts are excluded from
// totals but remain usable as transfer endpoints.
func (s *AccountService) SetAccountHidden(ctx context.Context, id string, ownerID int64, hidden bool) error {
	updated, err := s.accountRepo.SetHidden(ctx, id, ownerID, hidden)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

// GetBalances lists every visible account with its holdings converted to the
// main currency.
func (s *AccountService) GetBalances(ctx context.Context, ownerID int64, mainCurrency string) ([]schemas.AccountBalance, error) {
	accounts, err := s.accountRepo.GetByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}

	balances := make([]schemas.AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		assets, err := s.assetRepo.GetByAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		balance := schemas.AccountBalance{
			AccountID:    account.ID,
			Name:         account.Name,
			Hidden:       account.Hidden,
			MainCurrency: mainCurrency,
			Holdings:     make([]schemas.AccountHolding, 0, len(assets)),
		}
		for _, asset := range assets {
			converted := s.currency.Convert(ctx, asset.Amount, asset.Currency, mainCurrency)
			balance.Total = balance.Total.Add(converted)
			balance.Holdings = append(balance.Holdings, schemas.AccountHolding{
				Currency:        asset.Currency,
				Amount:          asset.Amount,
				ConvertedAmount: converted,
			})
		}
		balances = append(balances, balance)
	}
	return balances, nil
}

// GetPortfolioSplit reports the fiat vs crypto share of all visible
// holdings in the main currency.
func (s *AccountService) GetPortfolioSplit(ctx context.Context, ownerID int64, mainCurrency string) (*schemas.PortfolioSplit, error) {
	assets, err := s.assetRepo.GetByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}

	split := &schemas.PortfolioSplit{MainCurrency: mainCurrency}
	for _, asset := range assets {
		converted := s.currency.Convert(ctx, asset.Amount, asset.Currency, mainCurrency)
		if s.currency.IsCrypto(asset.Currency) {
			split.Crypto = split.Crypto.Add(converted)
		} else {
			split.Fiat = split.Fiat.Add(converted)
		}
	}

	total := split.Fiat.Add(split.Crypto)
	if total.IsPositive() {
		hundred := decimal.NewFromInt(100)
		split.FiatPct = split.Fiat.Div(total).Mul(hundred)
		split.CryptoPct = split.Crypto.Div(total).Mul(hundred)
	}
	return split, nil
}
