package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hotel_finder/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects with pool settings suited to a small API process and pings once.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

func (r *Repo) AddItem(ctx context.Context, userID, hotelID string) error {
	if _, err := r.db.ExecContext(ctx, addItemSQL, userID, hotelID); err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

// RemoveItem deletes the pair; removing an absent item is not an error.
func (r *Repo) RemoveItem(ctx context.Context, userID, hotelID string) error {
	if _, err := r.db.ExecContext(ctx, removeItemSQL, userID, hotelID); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}

func (r *Repo) ListItems(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	rows, err := r.db.QueryContext(ctx, listItemsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	out := []domain.WishlistItem{}
	for rows.Next() {
		var it domain.WishlistItem
		if err := rows.Scan(&it.UserID, &it.HotelID, &it.CreatedAt); err != nil {
			return nil, err
		}
		it.CreatedAt = it.CreatedAt.UTC()
		out = append(out, it)
	}
	return out, rows.Err()
}
