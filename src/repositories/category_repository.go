package repositories

import (
	"context"
	"errors"

	"tracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string, ownerID int64) (*models.Category, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]models.Category, error)
}

type categoryRepo struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO categories (id, owner_id, name) VALUES ($1, $2, $3)
		 ON CONFLICT (owner_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, created_at`,
		category.ID, category.OwnerID, category.Name,
	).Scan(&category.ID, &category.CreatedAt)
}

func (r *categoryRepo) GetByID(ctx context.Context, id string, ownerID int64) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, name, created_at FROM categories WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) GetByOwner(ctx context.Context, ownerID int64) ([]models.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, name, created_at FROM categories WHERE owner_id = $1 ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
