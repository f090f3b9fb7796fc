package models

import "time"

type Category struct {
	ID        string    `db:"id"`
	OwnerID   int64     `db:"owner_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type Tag struct {
	ID        string    `db:"id"`
	OwnerID   int64     `db:"owner_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
