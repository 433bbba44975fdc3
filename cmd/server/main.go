package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chekib1978/cafe-flow-print/config"
	"github.com/chekib1978/cafe-flow-print/internal/api"
	"github.com/chekib1978/cafe-flow-print/internal/broker"
	"github.com/chekib1978/cafe-flow-print/internal/localstore"
	"github.com/chekib1978/cafe-flow-print/internal/printer"
	"github.com/chekib1978/cafe-flow-print/internal/receipt"
	"github.com/chekib1978/cafe-flow-print/internal/redisclient"
	"github.com/chekib1978/cafe-flow-print/internal/service"
	"github.com/chekib1978/cafe-flow-print/internal/store"
	"github.com/chekib1978/cafe-flow-print/internal/ticket"
	"github.com/chekib1978/cafe-flow-print/internal/util"
	"github.com/chekib1978/cafe-flow-print/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting cafeteria POS service")

	tp, err := util.InitTracer("cafeteria-pos", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	gen, err := ticket.NewGenerator(0)
	if err != nil {
		log.Fatalf("Failed to create ticket generator: %v", err)
	}

	ctx := context.Background()

	// Resolve the ledger backend.
	var (
		posStore   service.Store
		stockGuard service.StockGuard
		processed  worker.ProcessedMarker
	)
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := store.NewStore(cfg.Storage.DatabaseURL, gen)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		log.Println("Database connected")

		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")

		if err := service.SyncStockToCache(ctx, db, redisClient); err != nil {
			log.Printf("Failed to sync stock to cache: %v", err)
		}

		posStore = db
		stockGuard = redisClient
		processed = db

	case "local":
		local, err := localstore.Open(cfg.Storage.LocalPath, gen, localstore.Options{
			ResetOnCorrupt: cfg.Storage.ResetOnCorrupt,
		})
		if err != nil {
			log.Fatalf("Failed to open local store: %v", err)
		}
		defer local.Close()
		log.Println("Local store opened")

		posStore = local

	default:
		log.Fatalf("Unknown backend: %s", cfg.Storage.Backend)
	}

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicSales)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalogService := service.NewCatalogService(posStore, eventPublisher)
	salesService := service.NewSalesService(posStore, stockGuard, eventPublisher, cfg.Business.LowStockThreshold)
	settingsService := service.NewSettingsService(posStore)

	printers := printer.NewInventory(cfg.Printing.Printers, cfg.Printing.DefaultPrinter)
	spooler, err := printer.NewSpooler(cfg.Printing.SpoolDir)
	if err != nil {
		log.Fatalf("Failed to create spooler: %v", err)
	}
	renderer := receipt.NewRenderer(cfg.Business.CurrencyCode)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	printConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicSales, cfg.Kafka.ConsumerGroup)
	printWorker := worker.NewPrintWorker(printConsumer, renderer, spooler, posStore, processed)
	go func() {
		if err := printWorker.Start(workerCtx); err != nil {
			log.Printf("Print worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(catalogService, salesService, settingsService, printers)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	printWorker.Stop()

	log.Println("Server exited")
}
