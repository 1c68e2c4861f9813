package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"homeworkbot/internal/adapters/bot"
	web "homeworkbot/internal/adapters/http"
	"homeworkbot/internal/adapters/storage"
	approvalStore "homeworkbot/internal/adapters/storage/approval"
	homeworkStore "homeworkbot/internal/adapters/storage/homework"
	userStore "homeworkbot/internal/adapters/storage/user"
	appsession "homeworkbot/internal/application/session"
	"homeworkbot/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A missing .env is fine; the environment may carry everything already.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// WAL mode, foreign keys, and busy timeout baked into the DSN
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Wrap DB with slow-query instrumentation
	timedDB := storage.NewTimedDB(db)
	users := userStore.NewSQLiteStore(timedDB)
	homework := homeworkStore.NewSQLiteStore(timedDB)
	approvals := approvalStore.NewSQLiteStore(timedDB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := appsession.NewStore(cfg.SessionIdle)
	sessions.StartSweeper(ctx, 5*time.Minute)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("failed to connect to Telegram: %v", err)
	}
	slog.Info("bot_authorized", "username", api.Self.UserName)

	// Health endpoint for the hosting platform's probe
	healthSrv := &http.Server{
		Addr:    cfg.HealthAddr,
		Handler: web.NewMux(db, sessions, version),
	}
	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("health server failed: %v", err)
		}
	}()

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := api.GetUpdatesChan(updateCfg)

	b := bot.New(api, users, homework, approvals, sessions, bot.Config{
		AdminChatIDs: cfg.AdminChatIDs,
		MinGrade:     cfg.MinGrade,
		MaxGrade:     cfg.MaxGrade,
	})

	slog.Info("bot_started", "version", version, "env", cfg.Env,
		"health_addr", cfg.HealthAddr, "schema", storage.LatestSchemaVersion())
	b.Run(ctx, updates)

	// ctx is cancelled: stop polling and drain the health server.
	api.StopReceivingUpdates()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("health_shutdown_failed", "error", err.Error())
	}
	slog.Info("bot_stopped")
}
