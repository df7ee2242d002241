package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xavierca1/leadstack/internal/config"
	"github.com/xavierca1/leadstack/internal/infra/database"
	"github.com/xavierca1/leadstack/internal/infra/http/handlers"
	"github.com/xavierca1/leadstack/internal/infra/http/middleware"
	"github.com/xavierca1/leadstack/internal/infra/integration/supabase"
	"github.com/xavierca1/leadstack/internal/infra/mail"
	"github.com/xavierca1/leadstack/internal/infra/queue"
	"github.com/xavierca1/leadstack/internal/logger"
	"github.com/xavierca1/leadstack/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog := logger.New(cfg.Env)
	defer zlog.Sync()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	// 1. Provedor de identidade
	authClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)

	// 2. Fila de eventos (opcional)
	var producer usecase.QueueProducerInterface
	var rabbitConn *amqp.Connection
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			zlog.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	}

	// 3. Notificação de import (opcional)
	var mailSender usecase.EmailService
	if cfg.MailHost != "" {
		mailSender = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass)
	}

	// 4. Repositório e UseCases
	leadRepo := database.NewLeadRepository(db)
	createUC := usecase.NewCreateLeadUseCase(leadRepo, producer, zlog)
	updateUC := usecase.NewUpdateLeadUseCase(leadRepo, producer, zlog)
	deleteUC := usecase.NewDeleteLeadUseCase(leadRepo, producer, zlog)
	importUC := usecase.NewImportLeadsUseCase(leadRepo, producer, mailSender, cfg.ImportNotifyEmail, zlog)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(leadRepo, createUC, updateUC, deleteUC, importUC, zlog)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, cfg.SupabaseURL)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Use(middleware.Metrics)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	importLimiter := middleware.NewRateLimiter(10, time.Minute) // 10 req/min por IP

	r.Route("/leads", func(r chi.Router) {
		r.Use(middleware.RequireUser(authClient))

		r.Get("/", leadHandler.List)
		r.Post("/", leadHandler.Create)
		r.Get("/{id}", leadHandler.Get)
		r.Put("/{id}", leadHandler.Update)
		r.Delete("/{id}", leadHandler.Delete)
		r.Post("/{id}/tags", leadHandler.AddTag)

		r.Group(func(r chi.Router) {
			r.Use(importLimiter.Middleware)
			r.Post("/import", leadHandler.Import)
			r.Post("/import/csv", leadHandler.ImportCSV)
		})
	})

	zlog.Info("leadstack API listening", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
