package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AliIzzat/FlamingoBackend/config"
	"github.com/AliIzzat/FlamingoBackend/pkg/api"
	"github.com/AliIzzat/FlamingoBackend/pkg/bot"
	"github.com/AliIzzat/FlamingoBackend/pkg/logger"
	"github.com/AliIzzat/FlamingoBackend/pkg/myfatoorah"
	"github.com/AliIzzat/FlamingoBackend/service"
	"github.com/AliIzzat/FlamingoBackend/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	pgStore, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()

	gateway := myfatoorah.NewClient(myfatoorah.Config{
		BaseURL: cfg.MyFatoorahBaseURL,
		Token:   cfg.MyFatoorahToken,
		Timeout: cfg.GatewayTimeout,
	})

	// Driver alerting is optional; without a token the core runs the same.
	var alerts service.Alerter
	if cfg.DriverBotToken != "" {
		a, err := bot.New(cfg.DriverBotToken, cfg.AdminChatID, log)
		if err != nil {
			log.Warning("driver alert bot disabled", logger.Error(err))
		} else {
			alerts = a
		}
	}

	svc := service.New(pgStore, gateway, alerts, service.Options{
		Pricing: service.Pricing{
			DeliveryFee: cfg.DeliveryFee,
			Currency:    cfg.Currency,
		},
		DisputeWindow: cfg.DisputeWindow,
		AppBaseURL:    cfg.AppBaseURL,
	}, log)

	router := api.New(svc, log)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", logger.Int("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", logger.Error(err))
	}
}
