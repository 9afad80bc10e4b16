package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

func newFromURL(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	return &DB{Pool: pool}, nil
}
