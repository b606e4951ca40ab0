package consent

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/campy/campy-api/internal/pkg/database"
)

// Repository defines consent history storage
type Repository interface {
	Latest(ctx context.Context, subject Subject) (*Record, error)
	// Append stores rec as the subject's next version and sets rec.Version
	Append(ctx context.Context, rec *Record) error
	History(ctx context.Context, subject Subject, limit int) ([]*Record, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates consent repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const recordColumns = `id, subject_type, subject_id, version, policy_version, settings, ip_address, user_agent, created_at`

func (r *repository) Latest(ctx context.Context, subject Subject) (*Record, error) {
	var rec Record
	err := r.db.GetContext(ctx, &rec, `
		SELECT `+recordColumns+` FROM consents
		WHERE subject_type = $1 AND subject_id = $2
		ORDER BY version DESC
		LIMIT 1
	`, subject.Type, subject.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Append(ctx context.Context, rec *Record) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// serialize writers of the same subject
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, rec.SubjectID.String()); err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &rec.Version, `
			SELECT COALESCE(MAX(version), 0) + 1 FROM consents
			WHERE subject_type = $1 AND subject_id = $2
		`, rec.SubjectType, rec.SubjectID); err != nil {
			return err
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO consents (`+recordColumns+`)
			VALUES (:id, :subject_type, :subject_id, :version, :policy_version, :settings, :ip_address, :user_agent, :created_at)
		`, rec)
		return err
	})
}

func (r *repository) History(ctx context.Context, subject Subject, limit int) ([]*Record, error) {
	records := []*Record{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT `+recordColumns+` FROM consents
		WHERE subject_type = $1 AND subject_id = $2
		ORDER BY version DESC
		LIMIT $3
	`, subject.Type, subject.ID, limit)
	return records, err
}
