package postgres

import (
	"context"
	"database/sql"

	"stayride-backend/internal/repository"
)

type platformConfigRepository struct {
	db *sql.DB
}

func NewPlatformConfigRepository(db *sql.DB) repository.PlatformConfigRepository {
	return &platformConfigRepository{db: db}
}

// GetFeePercentage reads the singleton platform fee row. Absence of the row
// is not an error; callers fall back to the default percentage.
func (r *platformConfigRepository) GetFeePercentage(ctx context.Context) (*float64, error) {
	var pct float64
	query := `SELECT percentage FROM platform_fee_configs ORDER BY id LIMIT 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&pct)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pct, nil
}
