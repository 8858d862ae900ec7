package main

import (
	"context"
	"fmt"

	"github.com/AliIzzat/FlamingoBackend/config"
	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/storage/postgres"
)

// Dev helper: wipes orders and drivers so seed scripts can start clean.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	defer pg.Close()

	_, err = pg.GetPool().Exec(context.Background(), "TRUNCATE TABLE notifications, order_items, orders, drivers CASCADE")
	if err != nil {
		log.Error(fmt.Sprintf("Failed to truncate tables: %v", err))
	} else {
		log.Info("Successfully truncated notifications, order_items, orders and drivers tables.")
	}
}
