package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/reelpay/configs"
	"github.com/maheshrc27/reelpay/internal/api/handlers"
	"github.com/maheshrc27/reelpay/internal/api/middleware"
	job "github.com/maheshrc27/reelpay/internal/jobs"
	"github.com/maheshrc27/reelpay/internal/metrics"
	"github.com/maheshrc27/reelpay/internal/queue"
	"github.com/maheshrc27/reelpay/internal/repository"
	"github.com/maheshrc27/reelpay/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	contentItemRepo := repository.NewContentItemRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	userRepo := repository.NewUserRepository(db)
	earningRepo := repository.NewReferralEarningRepository(db)
	claimRepo := repository.NewReferralClaimRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	txManager := repository.NewTxManager(db)

	statsService, err := service.NewStatsService(cfg.StatsAPI, m)
	if err != nil {
		log.Fatalf("Invalid stats provider config: %v", err)
	}
	notificationService := service.NewNotificationService(notificationRepo)
	emailService := service.NewEmailService(cfg.SMTP)

	var archive service.InvoiceArchive
	if cfg.R2.Enabled() {
		archive = service.NewR2Service(cfg.R2)
	}
	invoiceService := service.NewInvoiceService(cfg, emailService, archive)
	earningsService := service.NewEarningsService(campaignRepo, contentItemRepo, userRepo, earningRepo, txManager, invoiceService, m)
	claimService := service.NewClaimService(earningRepo, claimRepo, txManager, m)

	var syncOpts []service.SyncOption
	var asynqServer *asynq.Server
	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		client := asynq.NewClient(redisConn)
		defer client.Close()

		syncOpts = append(syncOpts, service.WithDispatcher(queue.NewAsynqDispatcher(client)))
		asynqServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: cfg.SyncWorkerConcurrent,
		})
	} else {
		log.Println("REDIS_URI not set, refresh runs execute in-process")
	}
	syncService := service.NewSyncService(campaignRepo, contentItemRepo, statsService, notificationService, m, syncOpts...)

	if asynqServer != nil {
		queueW := queue.NewQueue(syncService)
		mux := asynq.NewServeMux()
		queueW.Register(mux)

		log.Println("Starting the Asynq server...")
		if err := asynqServer.Start(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}

	// cron jobs
	scheduler := cron.New()
	if cfg.SettlementCron != "" {
		settlementJob := job.NewSettlementJob(earningsService)
		if err := scheduler.AddFunc(cfg.SettlementCron, settlementJob.SettleActiveCampaigns); err != nil {
			log.Fatalf("Invalid SETTLEMENT_CRON %q: %v", cfg.SettlementCron, err)
		}
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	claims := handlers.NewClaimHandler(claimService)
	api.Post("/referrals/claims", claims.CreateClaim)
	api.Get("/referrals/summary", claims.Summary)

	admin := api.Group("/admin", authMiddleware.AdminOnly())

	refresh := handlers.NewSyncHandler(syncService)
	admin.Post("/campaigns/:id/force-refresh", refresh.ForceRefresh)

	settlement := handlers.NewSettlementHandler(earningsService)
	admin.Post("/settlements", settlement.Settle)

	admin.Put("/referrals/claims/:id", claims.ResolveClaim)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, scheduler, asynqServer)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, scheduler *cron.Cron, worker *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	scheduler.Stop()
	if worker != nil {
		worker.Shutdown()
	}

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}
