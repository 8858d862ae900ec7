package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

type driverRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewDriverRepo(db *pgxpool.Pool, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{db: db, log: log}
}

func (r *driverRepo) Create(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	if driver.ID == uuid.Nil {
		driver.ID = uuid.New()
	}
	if driver.Status == "" {
		driver.Status = models.DriverPending
	}
	query := `
		INSERT INTO drivers (id, name, phone, status, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		driver.ID, driver.Name, driver.Phone, driver.Status, driver.TelegramChatID,
	).Scan(&driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		r.log.Error("failed to create driver", logger.Error(err))
		return nil, err
	}
	return driver, nil
}

func (r *driverRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	var driver models.Driver
	query := `SELECT id, name, phone, status, telegram_chat_id, created_at, updated_at FROM drivers WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&driver.ID, &driver.Name, &driver.Phone, &driver.Status, &driver.TelegramChatID, &driver.CreatedAt, &driver.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error("failed to get driver by id", logger.String("id", id.String()), logger.Error(err))
		return nil, err
	}
	return &driver, nil
}

func (r *driverRepo) GetAll(ctx context.Context) ([]*models.Driver, error) {
	query := `SELECT id, name, phone, status, telegram_chat_id, created_at, updated_at FROM drivers ORDER BY created_at DESC`
	return r.scanDrivers(ctx, query)
}

func (r *driverRepo) GetActive(ctx context.Context) ([]*models.Driver, error) {
	query := `SELECT id, name, phone, status, telegram_chat_id, created_at, updated_at FROM drivers WHERE status = 'active' ORDER BY created_at DESC`
	return r.scanDrivers(ctx, query)
}

func (r *driverRepo) scanDrivers(ctx context.Context, query string, args ...interface{}) ([]*models.Driver, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*models.Driver
	for rows.Next() {
		var d models.Driver
		err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Status, &d.TelegramChatID, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, &d)
	}
	return drivers, rows.Err()
}

func (r *driverRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE drivers SET status = $2, updated_at = $3 WHERE id = $1`, id, status, time.Now().UTC())
	if err != nil {
		r.log.Error("failed to update driver status", logger.String("id", id.String()), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *driverRepo) SetTelegramChatID(ctx context.Context, id uuid.UUID, chatID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE drivers SET telegram_chat_id = $2, updated_at = $3 WHERE id = $1`, id, chatID, time.Now().UTC())
	if err != nil {
		r.log.Error("failed to set driver chat id", logger.String("id", id.String()), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
