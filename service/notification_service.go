package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

type NotificationService interface {
	UpsertForOrder(ctx context.Context, orderID uuid.UUID, driverID *uuid.UUID, status models.NotificationStatus, message string) (*models.Notification, error)
	ForDriver(ctx context.Context, driverID uuid.UUID) ([]*models.Notification, error)
	Recent(ctx context.Context, limit int) ([]*models.Notification, error)
}

type notificationService struct {
	stg storage.INotificationStorage
	log logger.ILogger
}

func NewNotificationService(stg storage.IStorage, log logger.ILogger) NotificationService {
	return &notificationService{
		stg: stg.Notification(),
		log: log,
	}
}

func (s *notificationService) UpsertForOrder(ctx context.Context, orderID uuid.UUID, driverID *uuid.UUID, status models.NotificationStatus, message string) (*models.Notification, error) {
	return s.stg.UpsertForOrder(ctx, orderID, driverID, status, message)
}

func (s *notificationService) ForDriver(ctx context.Context, driverID uuid.UUID) ([]*models.Notification, error) {
	return s.stg.GetForDriver(ctx, driverID)
}

func (s *notificationService) Recent(ctx context.Context, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.stg.GetRecent(ctx, limit)
}
