package favorite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines favorites data access
type Repository interface {
	// Add is idempotent and reports whether a new row was written
	Add(ctx context.Context, userID, campID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, campID uuid.UUID) error
	Exists(ctx context.Context, userID, campID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Item, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates favorites repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(ctx context.Context, userID, campID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, camp_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, camp_id) DO NOTHING
	`, userID, campID, time.Now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) Remove(ctx context.Context, userID, campID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND camp_id = $2`, userID, campID)
	return err
}

func (r *repository) Exists(ctx context.Context, userID, campID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND camp_id = $2)`, userID, campID)
	return exists, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Item, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM favorites WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	items := []*Item{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT f.camp_id, c.name, c.province, c.status,
			COALESCE(c.images[1], '') AS cover_image,
			c.rating, c.review_count,
			COALESCE((SELECT MIN(a.price_per_night) FROM accommodations a
				WHERE a.camp_id = c.id AND a.available), 0) AS min_price,
			f.created_at
		FROM favorites f
		JOIN camps c ON c.id = f.camp_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
