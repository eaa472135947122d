package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/suzume/renamebot/health"
	"github.com/suzume/renamebot/session"
	"github.com/suzume/renamebot/store"
	"github.com/suzume/renamebot/tgbot"
	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/transfer"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if cfg.UseScratchDir != "" {
		appCfg.ScratchDir = cfg.UseScratchDir
		tool.CurrentConfig.ScratchDir = cfg.UseScratchDir
	}

	// initialize logger
	tool.InitLogger()
	switch strings.ToLower(cfg.Log) {
	case "", "prod":
		tool.DefaultLogger.SetLevel(log.InfoLevel)
	case "dev":
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	case "none":
		tool.DefaultLogger.SetLevel(log.FatalLevel)
	default:
		tool.DefaultLogger.Warnf("Unknown log mode %q, using info level", cfg.Log)
		tool.DefaultLogger.SetLevel(log.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Connect(ctx, appCfg.MongoURI, appCfg.MongoDB)
	if err != nil {
		tool.DefaultLogger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close(context.Background())

	var (
		orch     *transfer.Orchestrator
		sessions *session.Store
	)
	sessions = session.NewStore(session.DefaultTTL, func(s session.Session) {
		if orch == nil || orch.Bot == nil {
			return
		}
		notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		orch.NotifyExpired(notifyCtx, s)
	})

	orch = &transfer.Orchestrator{
		DB:         db,
		Sessions:   sessions,
		ScratchDir: appCfg.ScratchDir,
	}
	gate := tgbot.NewGate(db, appCfg.Owners)
	handlers := tgbot.NewHandlers(db, sessions, orch, gate, appCfg.MaxFileSize)

	b, err := tgbot.New(appCfg.BotToken, handlers)
	if err != nil {
		tool.DefaultLogger.Fatalf("Bot initialization failed: %v", err)
	}
	orch.Bot = b

	me, err := b.GetMe(ctx)
	if err != nil {
		tool.DefaultLogger.Fatalf("Failed to look up the bot account: %v", err)
	}
	handlers.SetBotUsername(me.Username)
	tool.DefaultLogger.Infof("Authorized as @%s", me.Username)

	sessions.StartSweep()
	defer sessions.StopSweep()

	hs := health.NewServer(appCfg.HealthAddr, sessions, db)
	go func() {
		if err := hs.Start(); err != nil {
			tool.DefaultLogger.Errorf("[Health] Server failed: %v", err)
		}
	}()
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutCtx); err != nil {
			tool.DefaultLogger.Warnf("[Health] Shutdown failed: %v", err)
		}
	}()

	tool.DefaultLogger.Infof("Starting update polling")
	b.Start(ctx)
	tool.DefaultLogger.Infof("Shutting down")
}
