package postgres

import (
	"context"
	"database/sql"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/repository"
)

const markupColumns = `id, owner_user_id, target_id, target_type, percentage, fixed_amount, original_amount, is_active, created_on`

type markupRepository struct {
	db *sql.DB
}

func NewMarkupRepository(db *sql.DB) repository.MarkupRepository {
	return &markupRepository{db: db}
}

func (r *markupRepository) GetByID(ctx context.Context, id int32) (*domain.Markup, error) {
	query := `SELECT ` + markupColumns + ` FROM markups WHERE id = $1`
	m, err := scanMarkup(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *markupRepository) GetActiveByTarget(ctx context.Context, targetID int32, targetType domain.Vertical) (*domain.Markup, error) {
	query := `SELECT ` + markupColumns + ` FROM markups
	          WHERE target_id = $1 AND target_type = $2 AND is_active = true
	          ORDER BY created_on DESC LIMIT 1`
	m, err := scanMarkup(r.db.QueryRowContext(ctx, query, targetID, targetType))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func scanMarkup(row rowScanner) (*domain.Markup, error) {
	m := &domain.Markup{}
	err := row.Scan(&m.ID, &m.OwnerUserID, &m.TargetID, &m.TargetType,
		&m.Percentage, &m.FixedAmount, &m.OriginalAmount, &m.IsActive, &m.CreatedOn)
	if err != nil {
		return nil, err
	}
	return m, nil
}
