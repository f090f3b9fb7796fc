package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionFilter scopes the read queries used by analytics. AccountID
// matches either side of a transfer; ExcludeHidden drops rows whose source
// account is hidden and only applies when no explicit account scope is set.
type TransactionFilter struct {
	OwnerID       int64
	Direction     *models.TransactionDirection
	From          *time.Time
	To            *time.Time
	AccountID     *string
	CategoryID    *string
	TagID         *string
	ExcludeHidden bool
	Limit         int
	Offset        int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	GetByID(ctx context.Context, id string, ownerID int64) (*models.Transaction, error)
	Update(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	Delete(ctx context.Context, tx pgx.Tx, id string) error

	// Find returns matching rows joined with category/tag names, ordered by
	// transaction date descending.
	Find(ctx context.Context, f TransactionFilter) ([]models.TransactionWithRefs, error)
	Count(ctx context.Context, f TransactionFilter) (int64, error)
}

type transactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) conn(tx pgx.Tx) DBTX {
	if tx != nil {
		return tx
	}
	return r.db
}

const transactionColumns = `id, owner_id, direction, account_id, to_account_id,
	amount, currency, amount_usd, converted_amount, converted_currency,
	category_id, tag_id,
	trade_type, base_currency, base_amount, quote_currency, quote_amount,
	execution_price, fee_amount, fee_currency,
	description, transaction_date, created_at`

func (r *transactionRepo) Create(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	return r.conn(tx).QueryRow(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, now())
		 RETURNING created_at`,
		t.ID, t.OwnerID, t.Direction, t.AccountID, t.ToAccountID,
		t.Amount, t.Currency, t.AmountUSD, t.ConvertedAmount, t.ConvertedCurrency,
		t.CategoryID, t.TagID,
		t.TradeType, t.BaseCurrency, t.BaseAmount, t.QuoteCurrency, t.QuoteAmount,
		t.ExecutionPrice, t.FeeAmount, t.FeeCurrency,
		t.Description, t.TransactionDate,
	).Scan(&t.CreatedAt)
}

func (r *transactionRepo) GetByID(ctx context.Context, id string, ownerID int64) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(transactionFields(&t)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) Update(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	_, err := r.conn(tx).Exec(ctx,
		`UPDATE transactions SET
			account_id = $2, to_account_id = $3,
			amount = $4, currency = $5, amount_usd = $6,
			converted_amount = $7, converted_currency = $8,
			category_id = $9, tag_id = $10,
			description = $11, transaction_date = $12
		 WHERE id = $1`,
		t.ID, t.AccountID, t.ToAccountID,
		t.Amount, t.Currency, t.AmountUSD,
		t.ConvertedAmount, t.ConvertedCurrency,
		t.CategoryID, t.TagID,
		t.Description, t.TransactionDate,
	)
	return err
}

func (r *transactionRepo) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	_, err := r.conn(tx).Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	return err
}

func (r *transactionRepo) Find(ctx context.Context, f TransactionFilter) ([]models.TransactionWithRefs, error) {
	where, args := buildTransactionWhere(f)

	query := `SELECT ` + prefixColumns("t", transactionColumns) + `, c.name, g.name
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		LEFT JOIN tags g ON g.id = t.tag_id
		JOIN accounts a ON a.id = t.account_id
		` + where + `
		ORDER BY t.transaction_date DESC, t.created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, f.Limit, f.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.TransactionWithRefs
	for rows.Next() {
		var t models.TransactionWithRefs
		fields := transactionFields(&t.Transaction)
		fields = append(fields, &t.CategoryName, &t.TagName)
		if err := rows.Scan(fields...); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *transactionRepo) Count(ctx context.Context, f TransactionFilter) (int64, error) {
	where, args := buildTransactionWhere(f)

	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions t JOIN accounts a ON a.id = t.account_id `+where,
		args...,
	).Scan(&count)
	return count, err
}

func buildTransactionWhere(f TransactionFilter) (string, []any) {
	clauses := []string{"t.owner_id = $1"}
	args := []any{f.OwnerID}

	next := func() int { return len(args) + 1 }

	if f.Direction != nil {
		clauses = append(clauses, fmt.Sprintf("t.direction = $%d", next()))
		args = append(args, *f.Direction)
	}
	if f.From != nil {
		clauses = append(clauses, fmt.Sprintf("t.transaction_date >= $%d", next()))
		args = append(args, *f.From)
	}
	if f.To != nil {
		clauses = append(clauses, fmt.Sprintf("t.transaction_date <= $%d", next()))
		args = append(args, *f.To)
	}
	if f.AccountID != nil {
		clauses = append(clauses, fmt.Sprintf("(t.account_id = $%d OR t.to_account_id = $%d)", next(), next()+1))
		args = append(args, *f.AccountID, *f.AccountID)
	} else if f.ExcludeHidden {
		clauses = append(clauses, "a.hidden = FALSE")
	}
	if f.CategoryID != nil {
		clauses = append(clauses, fmt.Sprintf("t.category_id = $%d", next()))
		args = append(args, *f.CategoryID)
	}
	if f.TagID != nil {
		clauses = append(clauses, fmt.Sprintf("t.tag_id = $%d", next()))
		args = append(args, *f.TagID)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func transactionFields(t *models.Transaction) []any {
	return []any{
		&t.ID, &t.OwnerID, &t.Direction, &t.AccountID, &t.ToAccountID,
		&t.Amount, &t.Currency, &t.AmountUSD, &t.ConvertedAmount, &t.ConvertedCurrency,
		&t.CategoryID, &t.TagID,
		&t.TradeType, &t.BaseCurrency, &t.BaseAmount, &t.QuoteCurrency, &t.QuoteAmount,
		&t.ExecutionPrice, &t.FeeAmount, &t.FeeCurrency,
		&t.Description, &t.TransactionDate, &t.CreatedAt,
	}
}
