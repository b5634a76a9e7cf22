package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

type Filter struct {
	Status     *Status
	TargetType *TargetType
}

type Repository interface {
	Create(ctx context.Context, rep *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	List(ctx context.Context, filter *Filter, offset, limit int) ([]*Report, int, error)
	Resolve(ctx context.Context, id uuid.UUID, status Status, resolution string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rep *Report) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO reports (id, reporter_id, target_type, target_id, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rep.ID, rep.ReporterID, rep.TargetType, rep.TargetID, rep.Reason, rep.Status)
	if err != nil {
		return fmt.Errorf("%w: create report", ErrInternal)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rep Report
	err := r.db.GetContext(ctx2, &rep, `
		SELECT id, reporter_id, target_type, target_id, reason, status, resolution, created_at, resolved_at
		FROM reports
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get report", ErrInternal)
	}

	return &rep, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, offset, limit int) ([]*Report, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where := " WHERE 1=1"
	args := make([]interface{}, 0, 4)
	idx := 1

	if filter != nil && filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter != nil && filter.TargetType != nil {
		where += fmt.Sprintf(" AND target_type = $%d", idx)
		args = append(args, *filter.TargetType)
		idx++
	}

	var total int
	if err := r.db.GetContext(ctx2, &total, `SELECT COUNT(*) FROM reports`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: count reports", ErrInternal)
	}

	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, reporter_id, target_type, target_id, reason, status, resolution, created_at, resolved_at
		FROM reports` + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	reports := make([]*Report, 0)
	if err := r.db.SelectContext(ctx2, &reports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: list reports", ErrInternal)
	}

	return reports, total, nil
}

// Resolve only transitions open reports; resolving twice is a conflict.
func (r *repository) Resolve(ctx context.Context, id uuid.UUID, status Status, resolution string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE reports
		SET status = $2, resolution = $3, resolved_at = NOW()
		WHERE id = $1 AND status = 'open'
	`, id, status, resolution)
	if err != nil {
		return fmt.Errorf("%w: resolve report", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyResolved
	}

	return nil
}
