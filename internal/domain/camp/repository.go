package camp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines camp data access
type Repository interface {
	Create(ctx context.Context, camp *Camp) error
	GetByID(ctx context.Context, id uuid.UUID) (*Camp, error)
	Update(ctx context.Context, camp *Camp) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	AddImage(ctx context.Context, id uuid.UUID, url string) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, count int) error
	Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Summary, int, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]*Camp, error)

	CreateAccommodation(ctx context.Context, acc *Accommodation) error
	GetAccommodation(ctx context.Context, id uuid.UUID) (*Accommodation, error)
	UpdateAccommodation(ctx context.Context, acc *Accommodation) error
	ListAccommodations(ctx context.Context, campID uuid.UUID) ([]*Accommodation, error)

	CreateAddon(ctx context.Context, addon *Addon) error
	ListAddons(ctx context.Context, campID uuid.UUID) ([]*Addon, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates camp repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const campColumns = `c.id, c.host_id, c.name, c.description, c.province, c.location, c.status,
	c.images, c.rating, c.review_count, c.created_at, c.updated_at`

func (r *repository) Create(ctx context.Context, camp *Camp) error {
	query := `
		INSERT INTO camps (id, host_id, name, description, province, location, status, images, created_at, updated_at)
		VALUES (:id, :host_id, :name, :description, :province, :location, :status, :images, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, camp); err != nil {
		return fmt.Errorf("camp repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Camp, error) {
	var camp Camp
	query := `SELECT ` + campColumns + ` FROM camps c WHERE c.id = $1`
	if err := r.db.GetContext(ctx, &camp, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &camp, nil
}

func (r *repository) Update(ctx context.Context, camp *Camp) error {
	query := `
		UPDATE camps SET name = :name, description = :description, province = :province,
			location = :location, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, camp)
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.db.ExecContext(ctx, `UPDATE camps SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (r *repository) AddImage(ctx context.Context, id uuid.UUID, url string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE camps SET images = array_append(images, $2), updated_at = NOW() WHERE id = $1`, id, url)
	return err
}

func (r *repository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, count int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE camps SET rating = $2, review_count = $3, updated_at = NOW() WHERE id = $1`, id, rating, count)
	return err
}

// Search lists published camps. Accommodation-level filters (type, price,
// party size, free dates) match when at least one accommodation qualifies.
func (r *repository) Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Summary, int, error) {
	conditions := []string{"c.status = 'published'"}
	accConditions := []string{"a.camp_id = c.id", "a.available"}
	args := []interface{}{}
	argIndex := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(c.name ILIKE $%d OR c.description ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+filter.Query+"%")
		argIndex++
	}
	if filter.Province != "" {
		conditions = append(conditions, fmt.Sprintf("c.province ILIKE $%d", argIndex))
		args = append(args, filter.Province)
		argIndex++
	}
	if filter.Type != "" {
		accConditions = append(accConditions, fmt.Sprintf("a.type = $%d", argIndex))
		args = append(args, filter.Type)
		argIndex++
	}
	if filter.MinPrice != nil {
		accConditions = append(accConditions, fmt.Sprintf("a.price_per_night >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}
	if filter.MaxPrice != nil {
		accConditions = append(accConditions, fmt.Sprintf("a.price_per_night <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}
	if filter.Guests > 0 {
		accConditions = append(accConditions, fmt.Sprintf("a.max_guests >= $%d", argIndex))
		args = append(args, filter.Guests)
		argIndex++
	}
	if filter.CheckIn != nil && filter.CheckOut != nil {
		accConditions = append(accConditions, fmt.Sprintf(`NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.accommodation_id = a.id
			  AND b.status IN ('pending', 'confirmed')
			  AND b.check_in < $%d AND b.check_out > $%d)`, argIndex+1, argIndex))
		args = append(args, *filter.CheckIn, *filter.CheckOut)
		argIndex += 2
	}

	conditions = append(conditions, "EXISTS (SELECT 1 FROM accommodations a WHERE "+strings.Join(accConditions, " AND ")+")")
	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM camps c "+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s,
			COALESCE((SELECT MIN(a.price_per_night) FROM accommodations a WHERE a.camp_id = c.id AND a.available), 0) AS min_price
		FROM camps c
		%s
		ORDER BY c.rating DESC, c.created_at DESC
		LIMIT $%d OFFSET $%d
	`, campColumns, where, argIndex, argIndex+1)
	args = append(args, limit, offset)

	var camps []*Summary
	if err := r.db.SelectContext(ctx, &camps, query, args...); err != nil {
		return nil, 0, err
	}
	return camps, total, nil
}

func (r *repository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]*Camp, error) {
	var camps []*Camp
	query := `SELECT ` + campColumns + ` FROM camps c WHERE c.host_id = $1 ORDER BY c.created_at DESC`
	if err := r.db.SelectContext(ctx, &camps, query, hostID); err != nil {
		return nil, err
	}
	return camps, nil
}

const accommodationColumns = `id, camp_id, type, name, description, price_per_night, max_guests,
	extra_adult_price, extra_child_price, amenities, available, created_at, updated_at`

func (r *repository) CreateAccommodation(ctx context.Context, acc *Accommodation) error {
	query := `
		INSERT INTO accommodations (` + accommodationColumns + `)
		VALUES (:id, :camp_id, :type, :name, :description, :price_per_night, :max_guests,
			:extra_adult_price, :extra_child_price, :amenities, :available, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, acc); err != nil {
		return fmt.Errorf("accommodation create: %w", err)
	}
	return nil
}

func (r *repository) GetAccommodation(ctx context.Context, id uuid.UUID) (*Accommodation, error) {
	var acc Accommodation
	if err := r.db.GetContext(ctx, &acc, `SELECT `+accommodationColumns+` FROM accommodations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &acc, nil
}

func (r *repository) UpdateAccommodation(ctx context.Context, acc *Accommodation) error {
	query := `
		UPDATE accommodations SET name = :name, description = :description, price_per_night = :price_per_night,
			max_guests = :max_guests, extra_adult_price = :extra_adult_price, extra_child_price = :extra_child_price,
			amenities = :amenities, available = :available, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, acc)
	return err
}

func (r *repository) ListAccommodations(ctx context.Context, campID uuid.UUID) ([]*Accommodation, error) {
	var accs []*Accommodation
	query := `SELECT ` + accommodationColumns + ` FROM accommodations WHERE camp_id = $1 ORDER BY price_per_night`
	if err := r.db.SelectContext(ctx, &accs, query, campID); err != nil {
		return nil, err
	}
	return accs, nil
}

func (r *repository) CreateAddon(ctx context.Context, addon *Addon) error {
	query := `
		INSERT INTO addons (id, camp_id, name, description, price, active, created_at)
		VALUES (:id, :camp_id, :name, :description, :price, :active, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, addon); err != nil {
		return fmt.Errorf("addon create: %w", err)
	}
	return nil
}

func (r *repository) ListAddons(ctx context.Context, campID uuid.UUID) ([]*Addon, error) {
	var addons []*Addon
	query := `SELECT id, camp_id, name, description, price, active, created_at FROM addons WHERE camp_id = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &addons, query, campID); err != nil {
		return nil, err
	}
	return addons, nil
}
