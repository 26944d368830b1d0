package service

import (
	"context"

	"stayride-backend/internal/domain"
	"stayride-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.noteRepo.List(ctx, userID, pageSize, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, userID)
}
