package postgres

import (
	"database/sql"

	"stayride-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ReservationRepository
	repository.PaymentRepository
	repository.RefundRepository
	repository.MarkupRepository
	repository.ListingRepository
	repository.PlatformConfigRepository
	repository.UserRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		ReservationRepository:    NewReservationRepository(db),
		PaymentRepository:        NewPaymentRepository(db),
		RefundRepository:         NewRefundRepository(db),
		MarkupRepository:         NewMarkupRepository(db),
		ListingRepository:        NewListingRepository(db),
		PlatformConfigRepository: NewPlatformConfigRepository(db),
		UserRepository:           NewUserRepository(db),
		NotificationRepository:   NewNotificationRepository(db),
	}
}
