package models

import (
	"time"

	"github.com/google/uuid"
)

type Driver struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Status         string    `json:"status"`
	TelegramChatID *int64    `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const (
	DriverPending = "pending"
	DriverActive  = "active"
	DriverBlocked = "blocked"
)
