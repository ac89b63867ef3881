package service

import (
	"context"
	"time"

	"github.com/maheshrc27/reelpay/internal/models"
	"github.com/maheshrc27/reelpay/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, recipientID int64, message, category string) error
}

type notificationService struct {
	n repository.NotificationRepository
}

func NewNotificationService(n repository.NotificationRepository) NotificationService {
	return &notificationService{n: n}
}

func (s *notificationService) Notify(ctx context.Context, recipientID int64, message, category string) error {
	_, err := s.n.Create(ctx, &models.Notification{
		RecipientID: recipientID,
		Message:     message,
		Category:    category,
		CreatedAt:   time.Now(),
	})
	return err
}
