package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "github.com/Kamar-Folarin/issue-stats/internal/errors"
	"github.com/Kamar-Folarin/issue-stats/internal/models"
)

// uniqueViolation is the Postgres error code for a uniqueness
// constraint violation.
const uniqueViolation = "23505"

func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// SaveDayStat inserts a single day record. A record already existing
// for the date is reported as a duplicate-date error.
func (s *PostgresStore) SaveDayStat(ctx context.Context, stat *models.DayStat) error {
	if stat == nil {
		return fmt.Errorf("stat cannot be nil")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issue_day_stats (date, total_opened, total_closed, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`, stat.Date, stat.TotalOpened, stat.TotalClosed)

	if err != nil {
		if isDuplicateKey(err) {
			return apperrors.NewDuplicateDateError(stat.Date, err)
		}
		return fmt.Errorf("failed to save day stat: %w", err)
	}

	return nil
}

// SaveDayStats inserts a batch of day records in one transaction. The
// batch is all-or-nothing: any uniqueness violation rolls everything
// back and surfaces as a duplicate-date error.
func (s *PostgresStore) SaveDayStats(ctx context.Context, stats []*models.DayStat) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO issue_day_stats (date, total_opened, total_closed, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare day stat insert statement: %w", err)
	}
	defer stmt.Close()

	for _, stat := range stats {
		if _, err := stmt.ExecContext(ctx, stat.Date, stat.TotalOpened, stat.TotalClosed); err != nil {
			if isDuplicateKey(err) {
				return apperrors.NewDuplicateDateError(stat.Date, err)
			}
			return fmt.Errorf("failed to insert day stat for %s: %w", stat.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit day stats transaction: %w", err)
	}

	return nil
}

// GetDayStat retrieves the day record for a date, or nil when none exists.
func (s *PostgresStore) GetDayStat(ctx context.Context, date string) (*models.DayStat, error) {
	var stat models.DayStat

	err := s.db.QueryRowContext(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), total_opened, total_closed
		FROM issue_day_stats
		WHERE date = $1
	`, date).Scan(&stat.Date, &stat.TotalOpened, &stat.TotalClosed)

	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get day stat: %w", err)
	}

	return &stat, nil
}

// ListDayStats retrieves stored day records, most recent first. A
// nonpositive limit returns the whole history.
func (s *PostgresStore) ListDayStats(ctx context.Context, limit int) ([]*models.DayStat, error) {
	query := `
		SELECT to_char(date, 'YYYY-MM-DD'), total_opened, total_closed
		FROM issue_day_stats
		ORDER BY date DESC`

	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query day stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.DayStat
	for rows.Next() {
		var stat models.DayStat
		if err := rows.Scan(&stat.Date, &stat.TotalOpened, &stat.TotalClosed); err != nil {
			return nil, fmt.Errorf("failed to scan day stat row: %w", err)
		}
		stats = append(stats, &stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day stat rows: %w", err)
	}

	return stats, nil
}
