package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/company/internal/config"
	"github.com/Skotchmaster/company/internal/events"
	"github.com/Skotchmaster/company/internal/httpserver"
	"github.com/Skotchmaster/company/internal/repo"
	"github.com/Skotchmaster/company/internal/search"
	"github.com/Skotchmaster/company/internal/service"
	pkgdb "github.com/Skotchmaster/company/pkg/db"
	"github.com/Skotchmaster/company/pkg/logging"
	loggingmw "github.com/Skotchmaster/company/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("notice: no .env loaded: %v", err)
	}

	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	addr, err := pkgdb.ParseAddr(cfg.DatabaseURL, cfg.SSLKeyFormat)
	if err != nil {
		log.Fatalf("database url: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, addr, pkgdb.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Logger:       logger,
		LogLevel:     cfg.LogLevel,
	})
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	logger.Info("database connected", "addr", addr.Redacted())

	if err := repo.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		publisher = producer
		logger.Info("change events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	var index search.Index = search.Disabled{}
	if cfg.ESURL != "" {
		client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		index = search.NewES(client, cfg.ESIndex)
		logger.Info("product search enabled", "index", cfg.ESIndex)
	}

	r := &repo.GormRepo{DB: db}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		DB:          db,
		ServiceName: cfg.ServiceName,
		Customers:   &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: r, Events: publisher}},
		Orders:      &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: publisher}},
		Products:    &httpserver.ProductHTTP{Svc: &service.ProductService{Repo: r, Events: publisher, Index: index}},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}

	logger.Info("stopped")
}
