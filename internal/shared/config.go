package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string

	PlacesBase string
	PlacesKey  string
	CacheTTL   time.Duration

	CaptchaSiteKey   string
	CaptchaSecretKey string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
	MailTo   []string

	SessionTTL      time.Duration
	OutboundTimeout time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/directory?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		PlacesBase:  env("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesKey:   env("PLACES_API_KEY", ""),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		CaptchaSiteKey:   env("RECAPTCHA_SITE_KEY", ""),
		CaptchaSecretKey: env("RECAPTCHA_SECRET_KEY", ""),

		SMTPHost: env("SMTP_HOST", ""),
		SMTPPort: atoi("SMTP_PORT", 587),
		SMTPUser: env("SMTP_USER", ""),
		SMTPPass: env("SMTP_PASSWORD", ""),
		MailFrom: env("MAIL_FROM", ""),
		MailTo:   split(env("MAIL_TO", "")),

		SessionTTL:      time.Duration(atoi("SESSION_TTL_HOURS", 720)) * time.Hour,
		OutboundTimeout: time.Duration(atoi("OUTBOUND_TIMEOUT_SECONDS", 8)) * time.Second,
	}

	// Optional features degrade to a "not configured" page state, but
	// flag them at startup so a missing key is not a silent surprise.
	if c.PlacesKey == "" {
		log.Warn().Msg("PLACES_API_KEY is empty; external ratings disabled")
	}
	if c.CaptchaSiteKey == "" || c.CaptchaSecretKey == "" {
		log.Warn().Msg("RECAPTCHA keys are empty; review and contact submissions disabled")
	}
	if c.SMTPHost == "" || c.MailFrom == "" || len(c.MailTo) == 0 {
		log.Warn().Msg("SMTP settings incomplete; contact mail disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func split(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
