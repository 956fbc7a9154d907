package main

import (
	"context"
	"os"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/auth"
	"spendwise/internal/cli"
	apphttp "spendwise/internal/http"
	applog "spendwise/internal/log"
	"spendwise/internal/reports"
	"spendwise/internal/services"
	"spendwise/internal/sheets"
	gsheet "spendwise/internal/sheets/google"

	"golang.org/x/sync/errgroup"
)

const (
	amqpDialAttempts = 5
	shutdownTimeout  = 30 * time.Second
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close SQLite repository", "error", err)
		}
	}()

	// A nil *amqp.Client must not reach the services as a non-nil interface.
	var events services.EventPublisher
	if cfg.AMQPEnabled() {
		client, err := amqp.Dial(ctx, cfg.AMQPURL, cfg.AMQPExchange, amqpDialAttempts)
		if err != nil {
			logger.Error("Failed to connect to AMQP, events disabled", "error", err)
		} else {
			defer client.Close()
			events = client
		}
	}

	var sheetWriter sheets.TableWriter
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sheetWriter = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Invalid time zone", "error", err, "time_zone", cfg.TimeZone)
		os.Exit(1)
	}

	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, auth.WithSecureCookie(cfg.SecureCookies))
	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Accounts:       auth.NewService(repo, auth.NewHasher(cfg.BcryptCost)),
		Sessions:       sessions,
		Categories:     services.NewCategoryService(repo, events),
		Transactions:   services.NewTransactionService(repo, events),
		Reports:        reports.NewEngine(repo, reports.WithLocation(loc)),
		Sheets:         sheetWriter,
		DB:             repo,
		Logger:         logger.WithComponent(applog.ComponentHTTP),
		LoginRateLimit: cfg.LoginRateLimit,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting spendwise server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			"amqp", events != nil,
			"sheets", sheetWriter != nil)
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
