package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jobconnect-ng/jobconnect/internal/ai"
	"github.com/jobconnect-ng/jobconnect/internal/bot"
	"github.com/jobconnect-ng/jobconnect/internal/channel"
	"github.com/jobconnect-ng/jobconnect/internal/config"
	"github.com/jobconnect-ng/jobconnect/internal/domain/fiber/handler"
	"github.com/jobconnect-ng/jobconnect/internal/extract"
	"github.com/jobconnect-ng/jobconnect/internal/middleware"
	"github.com/jobconnect-ng/jobconnect/internal/model"
	"github.com/jobconnect-ng/jobconnect/internal/notify"
	"github.com/jobconnect-ng/jobconnect/internal/payment"
	"github.com/jobconnect-ng/jobconnect/internal/repository"
	"github.com/jobconnect-ng/jobconnect/internal/session"
	"github.com/jobconnect-ng/jobconnect/internal/task"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := newLogger(cfg.App.Env)
	defer logger.Sync()

	db := connectDB(cfg, logger)

	jobRepo := repository.NewJobRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	sessions := session.NewStore()
	defer sessions.Close()
	searchCache := session.NewSearchCache()
	defer searchCache.Close()

	whatsapp := channel.NewWhatsApp(cfg.WhatsApp)
	telegram, err := channel.NewTelegram(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal("telegram setup failed", zap.Error(err))
	}
	sink := notify.NewSink(whatsapp, telegram)
	mailer := notify.NewMailer(cfg.SMTP)

	gate := payment.NewGate(paymentRepo, payment.NewPaystack(cfg.Paystack), sessions, sink, logger)

	aiClient, err := ai.NewClient(ctx, cfg.Gemini, logger)
	if err != nil {
		logger.Fatal("ai client setup failed", zap.Error(err))
	}

	extractor := extract.NewWorker(extract.NewClamScanner(cfg.Clamd.Address), logger)

	tasks := task.NewOrchestrator(logger, task.Options{})
	b := bot.New(bot.Deps{
		Sessions:     sessions,
		SearchCache:  searchCache,
		Jobs:         jobRepo,
		Applications: applicationRepo,
		Gate:         gate,
		Tasks:        tasks,
		AI:           aiClient,
		Extractor:    extractor,
		Sink:         sink,
		Mailer:       mailer,
		Logger:       logger,
	})
	tasks.Start()
	defer tasks.Close()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.App.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	webhooks := handler.NewWebhookHandler(b, gate, telegram, cfg.Paystack.SecretKey, cfg.App.Env != "production", logger)
	webhooks.RegisterRoutes(app)

	logger.Info("server starting", zap.String("port", cfg.App.Port))
	if err := app.Listen(cfg.App.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	return logger
}

func connectDB(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Africa/Lagos",
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		logger.Fatal("database handle unavailable", zap.Error(err))
	}
	if cfg.App.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&model.Job{}, &model.Payment{}, &model.Application{}); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	return db
}
