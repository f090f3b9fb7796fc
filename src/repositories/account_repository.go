package repositories

import (
	"context"
	"errors"

	"tracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string, ownerID int64) (*models.Account, error)
	GetByOwner(ctx context.Context, ownerID int64, includeHidden bool) ([]models.Account, error)
	SetHidden(ctx context.Context, id string, ownerID int64, hidden bool) (bool, error)
}

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, account *models.Account) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO accounts (id, owner_id, name, default_currency, hidden)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		account.ID, account.OwnerID, account.Name, account.DefaultCurrency, account.Hidden,
	).Scan(&account.CreatedAt)
}

func (r *accountRepo) GetByID(ctx context.Context, id string, ownerID int64) (*models.Account, error) {
	var a models.Account
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, name, default_currency, hidden, created_at
		 FROM accounts WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&a.ID, &a.OwnerID, &a.Name, &a.DefaultCurrency, &a.Hidden, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) GetByOwner(ctx context.Context, ownerID int64, includeHidden bool) ([]models.Account, error) {
	query := `SELECT id, owner_id, name, default_currency, hidden, created_at
		FROM accounts WHERE owner_id = $1`
	if !includeHidden {
		query += ` AND hidden = FALSE`
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.DefaultCurrency, &a.Hidden, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepo) SetHidden(ctx context.Context, id string, ownerID int64, hidden bool) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET hidden = $3 WHERE id = $1 AND owner_id = $2`,
		id, ownerID, hidden,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
