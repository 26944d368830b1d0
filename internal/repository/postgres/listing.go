package postgres

import (
	"context"
	"database/sql"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	l := &domain.Listing{}
	query := `SELECT id, vertical, owner_id, name, base_amount, is_active, created_on
	          FROM listings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Vertical, &l.OwnerID, &l.Name, &l.BaseAmount, &l.IsActive, &l.CreatedOn)
	if err != nil {
		return nil, err
	}
	return l, nil
}
