package repositories

import (
	"context"

	"tracker/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// AccountAssetRepository is the balance store. Rows are keyed by
// (account_id, currency); a row appears the first time a transaction touches
// that currency on that account.
type AccountAssetRepository interface {
	// AddDelta adds delta to the pair's amount, creating the row when
	// absent. The add happens inside the statement, so concurrent writers
	// serialize on the unique index and no increment is lost.
	AddDelta(ctx context.Context, tx pgx.Tx, accountID, currency string, delta decimal.Decimal) error
	GetByAccount(ctx context.Context, accountID string) ([]models.AccountAsset, error)
	GetByOwner(ctx context.Context, ownerID int64, includeHidden bool) ([]models.AccountAsset, error)
}

type accountAssetRepo struct {
	db *pgxpool.Pool
}

func NewAccountAssetRepository(db *pgxpool.Pool) AccountAssetRepository {
	return &accountAssetRepo{db: db}
}

func (r *accountAssetRepo) conn(tx pgx.Tx) DBTX {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *accountAssetRepo) AddDelta(ctx context.Context, tx pgx.Tx, accountID, currency string, delta decimal.Decimal) error {
	_, err := r.conn(tx).Exec(ctx,
		`INSERT INTO account_assets (id, account_id, currency, amount, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (account_id, currency) DO UPDATE SET
			amount = account_assets.amount + EXCLUDED.amount,
			updated_at = now()`,
		uuid.NewString(), accountID, currency, delta,
	)
	return err
}

func (r *accountAssetRepo) GetByAccount(ctx context.Context, accountID string) ([]models.AccountAsset, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, account_id, currency, amount, updated_at
		 FROM account_assets WHERE account_id = $1 ORDER BY currency`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssets(rows)
}

func (r *accountAssetRepo) GetByOwner(ctx context.Context, ownerID int64, includeHidden bool) ([]models.AccountAsset, error) {
	query := `SELECT s.id, s.account_id, s.currency, s.amount, s.updated_at
		FROM account_assets s
		JOIN accounts a ON a.id = s.account_id
		WHERE a.owner_id = $1`
	if !includeHidden {
		query += ` AND a.hidden = FALSE`
	}
	query += ` ORDER BY s.account_id, s.currency`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssets(rows)
}

func scanAssets(rows pgx.Rows) ([]models.AccountAsset, error) {
	var assets []models.AccountAsset
	for rows.Next() {
		var a models.AccountAsset
		if err := rows.Scan(&a.ID, &a.AccountID, &a.Currency, &a.Amount, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}
