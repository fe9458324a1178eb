package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	LogLevel string

	// Location is used for every calendar-day comparison (grid cells,
	// day queries). Stored timestamps stay UTC.
	Location *time.Location

	CategoriesFile string
	ICSProdID      string

	// ExportCron enables the periodic ICS snapshot when non-empty.
	ExportCron string
	ExportDir  string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getenv("DATABASE_URL", "evcal.db"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		LogLevel:             strings.ToLower(getenv("LOG_LEVEL", "info")),
		CategoriesFile:       getenv("CATEGORIES_FILE", ""),
		ICSProdID:            getenv("ICS_PRODID", "-//Calendar App//EN"),
		ExportCron:           getenv("EXPORT_CRON", ""),
		ExportDir:            getenv("EXPORT_DIR", "export"),
		Location:             time.Local,
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if tz := getenv("APP_TIMEZONE", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
