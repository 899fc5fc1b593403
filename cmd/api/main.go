package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/cavanpasek/ouray-info/internal/adapters/captcha"
	server "github.com/cavanpasek/ouray-info/internal/adapters/http_server"
	"github.com/cavanpasek/ouray-info/internal/adapters/mail"
	"github.com/cavanpasek/ouray-info/internal/adapters/observability"
	"github.com/cavanpasek/ouray-info/internal/adapters/places"
	redisad "github.com/cavanpasek/ouray-info/internal/adapters/redis"
	"github.com/cavanpasek/ouray-info/internal/adapters/session"
	"github.com/cavanpasek/ouray-info/internal/app"
	"github.com/cavanpasek/ouray-info/internal/shared"
	mysqlrepo "github.com/cavanpasek/ouray-info/internal/storage/mysql"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	rdb := redisad.Connect(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cache := redisad.NewCache(rdb)
	sessions := session.NewStore(rdb, cfg.SessionTTL)
	placeClient := places.New(cfg.PlacesBase, cfg.PlacesKey, cfg.OutboundTimeout, 10)
	verifier := captcha.New(cfg.CaptchaSiteKey, cfg.CaptchaSecretKey, cfg.OutboundTimeout)
	mailer := mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.MailTo, cfg.OutboundTimeout)

	q := app.NewDirectoryService(repo, placeClient, cache, cfg.CacheTTL)
	s := app.NewSubmissionService(repo, verifier, sessions, mailer)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, S: s, Captcha: verifier, Sessions: sessions})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("directory listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
