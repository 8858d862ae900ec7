package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	AppPort    int
	AppBaseURL string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	DeliveryFee   float64
	Currency      string
	DisputeWindow time.Duration

	MyFatoorahBaseURL string
	MyFatoorahToken   string
	GatewayTimeout    time.Duration

	DriverBotToken string
	AdminChatID    int64
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "flamingo-backend"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 4000))
	cfg.AppBaseURL = cast.ToString(getOrReturnDefault("APP_BASE_URL", "http://localhost:4000"))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "flamingo"))

	cfg.DeliveryFee = cast.ToFloat64(getOrReturnDefault("DELIVERY_FEE", 10.0))
	cfg.Currency = cast.ToString(getOrReturnDefault("CURRENCY", "QAR"))
	cfg.DisputeWindow = time.Duration(cast.ToInt(getOrReturnDefault("DISPUTE_WINDOW_HOURS", 24))) * time.Hour

	cfg.MyFatoorahBaseURL = cast.ToString(getOrReturnDefault("MF_BASE_URL", "https://apitest.myfatoorah.com"))
	cfg.MyFatoorahToken = cast.ToString(getOrReturnDefault("MF_TOKEN", ""))
	cfg.GatewayTimeout = time.Duration(cast.ToInt(getOrReturnDefault("GATEWAY_TIMEOUT_SECONDS", 15))) * time.Second

	cfg.DriverBotToken = cast.ToString(getOrReturnDefault("DRIVER_BOT_TOKEN", ""))
	cfg.AdminChatID = cast.ToInt64(getOrReturnDefault("ADMIN_CHAT_ID", 0))

	return cfg
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
