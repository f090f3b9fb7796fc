package repositories

import (
	"context"
	"errors"

	"tracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id string, ownerID int64) (*models.Tag, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]models.Tag, error)
}

type tagRepo struct {
	db *pgxpool.Pool
}

func NewTagRepository(db *pgxpool.Pool) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) Create(ctx context.Context, tag *models.Tag) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tags (id, owner_id, name) VALUES ($1, $2, $3)
		 ON CONFLICT (owner_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, created_at`,
		tag.ID, tag.OwnerID, tag.Name,
	).Scan(&tag.ID, &tag.CreatedAt)
}

func (r *tagRepo) GetByID(ctx context.Context, id string, ownerID int64) (*models.Tag, error) {
	var t models.Tag
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, name, created_at FROM tags WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	).Scan(&t.ID, &t.OwnerID, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) GetByOwner(ctx context.Context, ownerID int64) ([]models.Tag, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, owner_id, name, created_at FROM tags WHERE owner_id = $1 ORDER BY name`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
