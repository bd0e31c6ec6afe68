package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/supersaver/internal/app"
	"github.com/MrJamesThe3rd/supersaver/internal/config"
	apiHttp "github.com/MrJamesThe3rd/supersaver/internal/http"
	billHandler "github.com/MrJamesThe3rd/supersaver/internal/http/bill"
	catalogHandler "github.com/MrJamesThe3rd/supersaver/internal/http/catalog"
	ledgerHandler "github.com/MrJamesThe3rd/supersaver/internal/http/ledger"
	reportHandler "github.com/MrJamesThe3rd/supersaver/internal/http/report"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.New(context.Background(), cfg, reg)
	if err != nil {
		slog.Error("failed to start register", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.API.JWTSecret == "" {
		slog.Warn("API_JWT_SECRET not set, API is unauthenticated")
	}

	var (
		catalogH = catalogHandler.NewHandler(a.POS)
		ledgerH  = ledgerHandler.NewHandler(a.POS)
		reportH  = reportHandler.NewHandler(a.POS)
		billH    = billHandler.NewHandler(a.POS)
	)

	router := apiHttp.New(apiHttp.Options{
		JWTSecret:   []byte(cfg.API.JWTSecret),
		RateLimit:   cfg.API.RateLimit,
		RateBurst:   cfg.API.RateBurst,
		CORSOrigins: cfg.CORSOrigins(),
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}, catalogH, ledgerH, reportH, billH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "addr", srv.Addr, "ledger", cfg.Ledger.Driver)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
