package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// College football data API
	CFBDBaseURL  string
	CFBDAPIKey   string
	APIRateLimit float64 // requests per second
	APITimeout   time.Duration
	FetchWorkers int

	// Season and stat
	Season int
	Stat   string

	// Model
	Penalties     []float64
	Folds         int
	ForcedPenalty float64

	// Inputs / outputs
	CategoriesPath string
	StorePath      string
	OutputDir      string

	// Notifications
	DiscordWebhookURL string

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		CFBDBaseURL:  envStr("CFBD_BASE_URL", "https://api.collegefootballdata.com"),
		CFBDAPIKey:   envStr("CFBD_API_KEY", ""),
		APIRateLimit: envFloat("CFBD_RPS", 5),
		APITimeout:   time.Duration(envInt("CFBD_TIMEOUT_SEC", 30)) * time.Second,
		FetchWorkers: envInt("FETCH_WORKERS", 4),

		Season: envInt("SEASON", 2023),
		Stat:   envStr("STAT", "ppa"),

		// Full-season play-by-play usually selects 150-200.
		Penalties:     envFloats("PENALTIES", []float64{75, 100, 125, 150, 175, 200, 225, 250, 275, 300, 325}),
		Folds:         envInt("CV_FOLDS", 5),
		ForcedPenalty: envFloat("FORCED_PENALTY", 0),

		CategoriesPath: envStr("CATEGORIES_PATH", "internal/config/categories.yaml"),
		StorePath:      envStr("STORE_PATH", "data/oppadj.db"),
		OutputDir:      envStr("OUTPUT_DIR", "data"),

		DiscordWebhookURL: envStr("DISCORD_WEBHOOK_URL", ""),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// envFloats parses a comma-separated list. Any unparsable entry discards the
// whole value in favour of the fallback.
func envFloats(key string, fallback []float64) []float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []float64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return fallback
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
