package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
	"github.com/AliIzzat/FlamingoBackend/storage"
)

type notificationRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewNotificationRepo(db *pgxpool.Pool, log logger.ILogger) storage.INotificationStorage {
	return &notificationRepo{db: db, log: log}
}

func (r *notificationRepo) UpsertForOrder(ctx context.Context, orderID uuid.UUID, driverID *uuid.UUID, status models.NotificationStatus, message string) (*models.Notification, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO notifications (order_id, driver_id, status, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (order_id) DO UPDATE
		SET driver_id = EXCLUDED.driver_id,
		    status = EXCLUDED.status,
		    message = EXCLUDED.message,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, order_id, driver_id, status, message, created_at, updated_at
	`
	var n models.Notification
	err := r.db.QueryRow(ctx, query, orderID, driverID, status, message, now).Scan(
		&n.ID, &n.OrderID, &n.DriverID, &n.Status, &n.Message, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		r.log.Error("failed to upsert notification", logger.String("order_id", orderID.String()), logger.Error(err))
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) GetForDriver(ctx context.Context, driverID uuid.UUID) ([]*models.Notification, error) {
	query := `
		SELECT id, order_id, driver_id, status, message, created_at, updated_at
		FROM notifications
		WHERE driver_id = $1
		ORDER BY created_at DESC
	`
	return r.scanNotifications(ctx, query, driverID)
}

func (r *notificationRepo) GetRecent(ctx context.Context, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, order_id, driver_id, status, message, created_at, updated_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`
	return r.scanNotifications(ctx, query, limit)
}

func (r *notificationRepo) scanNotifications(ctx context.Context, query string, args ...interface{}) ([]*models.Notification, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.OrderID, &n.DriverID, &n.Status, &n.Message, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
