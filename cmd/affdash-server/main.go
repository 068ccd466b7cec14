package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"affdash-backend/lib/browser"
	"affdash-backend/lib/configutil"
	"affdash-backend/lib/serviceutil"
	"affdash-backend/lib/sqliteutil"
	"affdash-backend/lib/telemetry"
	"affdash-backend/services/keychain"
	keychaindb "affdash-backend/services/keychain/db"
	"affdash-backend/services/reports"
)

type Config struct {
	Database string `json:"database"`
	Port     int    `json:"port"`
	Headful  bool   `json:"headful"`
}

func main() {
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Parse()

	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(*verbose)

	t, err := telemetry.SetupFromEnv(ctx, "affdash-server")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	if err == nil {
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Database == "" {
		config.Database = "affdash.db"
	}
	if config.Port == 0 {
		config.Port = 8080
	}

	db, err := sqliteutil.OpenDB(keychaindb.Schema, config.Database)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}

	kc := keychain.NewService(db)
	service := reports.NewService(kc, browser.Options{
		Headful: config.Headful,
	})

	api := Api{keychain: kc, reports: service}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.Healthz)
	mux.HandleFunc("POST /v1/accounts", api.SetAccount)
	mux.HandleFunc("GET /v1/accounts", api.ListAccounts)
	mux.HandleFunc("DELETE /v1/accounts", api.DeleteAccount)
	mux.HandleFunc("POST /v1/validate", api.Validate)
	mux.HandleFunc("POST /v1/fetch", api.Fetch)
	mux.HandleFunc("POST /v1/fetchall", api.FetchAll)
	mux.HandleFunc("POST /v1/page", api.Page)
	go serviceutil.StartHttpServer(config.Port, mux)

	<-ctx.Done()
}
