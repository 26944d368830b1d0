package postgres

import (
	"context"
	"database/sql"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, phone, is_admin FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.IsAdmin)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, name, email, phone, is_admin FROM users WHERE is_admin = true`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.IsAdmin); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
