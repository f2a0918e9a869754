package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	XenditBaseURL       string
	XenditAPIKey        string
	XenditCallbackToken string

	BookingHold   time.Duration
	SweepInterval time.Duration

	AMQPURL string
}

// Cfg holds the loaded environment for call sites that, like the shared
// DB handle, rely on package-level access.
var Cfg Env

func LoadEnv() Env {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	env := Env{
		AppAddr:             getEnv("APP_ADDR", ":8080"),
		GinMode:             strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:              getEnv("DB_USER", "root"),
		DBPass:              strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost:              getEnv("DB_HOST", "127.0.0.1:3306"),
		DBName:              getEnv("DB_NAME", "ferry_app"),
		JWTSecret:           getEnv("JWT_SECRET", "super-secret-key-change-me"),
		XenditBaseURL:       getEnv("XENDIT_BASE_URL", "https://api.xendit.co"),
		XenditAPIKey:        strings.TrimSpace(os.Getenv("XENDIT_API_KEY")),
		XenditCallbackToken: strings.TrimSpace(os.Getenv("XENDIT_CALLBACK_TOKEN")),
		BookingHold:         getMinutes("BOOKING_HOLD_MINUTES", 30),
		SweepInterval:       getMinutes("SWEEP_INTERVAL_MINUTES", 1),
		AMQPURL:             strings.TrimSpace(os.Getenv("AMQP_URL")),
	}

	Cfg = env
	return env
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getMinutes(key string, def int) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return time.Duration(def) * time.Minute
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return time.Duration(def) * time.Minute
	}
	return time.Duration(n) * time.Minute
}
