package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk-platform/internal/audit"
	"newsdesk-platform/internal/auth"
	"newsdesk-platform/internal/config"
	"newsdesk-platform/internal/employees"
	"newsdesk-platform/internal/expenses"
	"newsdesk-platform/internal/httpapi"
	"newsdesk-platform/internal/notify"
	"newsdesk-platform/internal/reporting"
	"newsdesk-platform/internal/tasks"
	"newsdesk-platform/internal/whatsapp"
	"newsdesk-platform/pkg/logger"
	"newsdesk-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local development convenience; real deployments inject env directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, "newsdesk-api")
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	nc, err := nats.Connect(cfg.NATS.URL, nats.Name("newsdesk-api"))
	if err != nil {
		log.Error("nats connect failed", "err", err)
		os.Exit(1)
	}
	defer nc.Drain()

	notifier, err := notify.NewNATSNotifier(nc)
	if err != nil {
		log.Error("notifier init failed", "err", err)
		os.Exit(1)
	}

	waClient, err := whatsapp.NewClient(whatsapp.ClientConfig{
		BaseURL:       cfg.WhatsApp.APIBaseURL,
		AccessToken:   cfg.WhatsApp.AccessToken,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
	})
	if err != nil {
		log.Error("whatsapp client init failed", "err", err)
		os.Exit(1)
	}

	// Storage and services
	taskRepo := tasks.NewRepo(db)
	directory := employees.NewRepo(db)
	auditor := audit.NewService(audit.NewRepo(db))
	expenseSvc := expenses.NewService(expenses.NewRepo(db), "BD")

	taskSvc := tasks.NewService(taskRepo, directory, notifier, auditor, waClient).
		WithExpenses(expenseSvc)

	reportSvc := reporting.NewService(reporting.NewRepo(db))

	webhook := whatsapp.WebhookHandler{
		VerifyToken: cfg.WhatsApp.VerifyToken,
		Processor:   taskSvc,
		Links:       taskRepo,
		Dedupe:      whatsapp.NewRedisDeduper(rdb, 24*time.Hour),
	}

	handlers := httpapi.Handlers{
		Auth:     authManager,
		Tasks:    taskSvc,
		Expenses: expenseSvc,
		Reports:  reportSvc,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, webhook, handlers, auth.RequireAccessToken(authManager))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
