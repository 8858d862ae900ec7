package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

type DriverService interface {
	Register(ctx context.Context, name, phone string) (*models.Driver, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	GetAll(ctx context.Context) ([]*models.Driver, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	LinkTelegram(ctx context.Context, id uuid.UUID, chatID int64) error
}

type driverService struct {
	stg storage.IDriverStorage
	log logger.ILogger
}

func NewDriverService(stg storage.IStorage, log logger.ILogger) DriverService {
	return &driverService{
		stg: stg.Driver(),
		log: log,
	}
}

func (s *driverService) Register(ctx context.Context, name, phone string) (*models.Driver, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: driver name is required", models.ErrValidation)
	}
	driver, err := s.stg.Create(ctx, &models.Driver{
		Name:   name,
		Phone:  phone,
		Status: models.DriverPending,
	})
	if err != nil {
		return nil, fmt.Errorf("register driver: %w", err)
	}
	s.log.Info("driver registered", logger.String("driver_id", driver.ID.String()))
	return driver, nil
}

func (s *driverService) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	driver, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, fmt.Errorf("%w: driver %s", models.ErrNotFound, id)
	}
	return driver, nil
}

func (s *driverService) GetAll(ctx context.Context) ([]*models.Driver, error) {
	return s.stg.GetAll(ctx)
}

func (s *driverService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case models.DriverPending, models.DriverActive, models.DriverBlocked:
	default:
		return fmt.Errorf("%w: unknown driver status %q", models.ErrValidation, status)
	}
	return s.stg.UpdateStatus(ctx, id, status)
}

func (s *driverService) LinkTelegram(ctx context.Context, id uuid.UUID, chatID int64) error {
	if chatID == 0 {
		return fmt.Errorf("%w: chat id is required", models.ErrValidation)
	}
	return s.stg.SetTelegramChatID(ctx, id, chatID)
}
