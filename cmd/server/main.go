package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatwire/chatwire/internal/api"
	"github.com/chatwire/chatwire/internal/chat"
	"github.com/chatwire/chatwire/internal/config"
	"github.com/chatwire/chatwire/internal/database"
	"github.com/chatwire/chatwire/internal/stats"
	_ "github.com/lib/pq"
)

var migrationsDir string

func main() {
	flag.StringVar(&migrationsDir, "migrations", "migrations", "path to the schema migrations directory")
	flag.Parse()

	logger := log.New(os.Stderr, "[chatwire] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config: ", err)
	}

	// an empty DSN selects the in-memory store for local development
	var db database.ChatRepository
	if cfg.DatabaseDSN == "" {
		logger.Println("no database DSN configured, using in-memory store")
		db = database.NewMemoryChatRepository()
	} else {
		if err := database.RunMigrations(cfg.DatabaseDSN, migrationsDir); err != nil {
			logger.Fatal("migrations: ", err)
		}

		db, err = database.NewPgChatRepository(cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("db open: ", err)
		}
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Println("db close: ", err)
		}
	}()

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	chatServer, err := chat.NewChatServer(logger, db, statsUpdater, cfg.HistoryLimit)
	if err != nil {
		logger.Fatal("new chat server: ", err)
	}

	app := api.NewChatApp(mux, logger, chatServer, db, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := app.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutting down chat server...")
	if err := chatServer.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("chat server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
