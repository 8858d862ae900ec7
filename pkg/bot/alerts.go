// Package bot delivers best-effort Telegram alerts to drivers and
// admins. Nothing here is authoritative; a failed send is logged and
// forgotten.
package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v3"

	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/models"
)

type Alerts struct {
	bot         *tele.Bot
	adminChatID int64
	log         logger.ILogger
}

// New builds a send-only bot. No poller is started; the bot is used
// purely as an outbound channel.
func New(token string, adminChatID int64, log logger.ILogger) (*Alerts, error) {
	b, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("init alert bot: %w", err)
	}
	return &Alerts{bot: b, adminChatID: adminChatID, log: log}, nil
}

func (a *Alerts) send(chatID int64, msg string) {
	if chatID == 0 {
		return
	}
	if _, err := a.bot.Send(&tele.User{ID: chatID}, msg); err != nil {
		a.log.Warning("alert send failed", logger.Int64("chat_id", chatID), logger.Error(err))
	}
}

// OrderAvailable tells registered drivers a new order can be claimed.
func (a *Alerts) OrderAvailable(order *models.Order, drivers []*models.Driver) {
	msg := fmt.Sprintf("New order %s available: %s, total %.2f", order.ID, order.Customer.AddressText, order.Totals.Total)
	for _, d := range drivers {
		if d.TelegramChatID != nil {
			a.send(*d.TelegramChatID, msg)
		}
	}
}

// OrderClaimed tells the admin channel an order was taken.
func (a *Alerts) OrderClaimed(order *models.Order, driver *models.Driver) {
	a.send(a.adminChatID, fmt.Sprintf("Order %s claimed by %s", order.ID, driver.Name))
}

// DisputeOpened tells the admin channel a customer contested an order.
func (a *Alerts) DisputeOpened(order *models.Order) {
	a.send(a.adminChatID, fmt.Sprintf("Dispute opened on order %s: %s", order.ID, order.Dispute.Reason))
}
