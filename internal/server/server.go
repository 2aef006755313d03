package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Petroslyros/musical-instrument-shop/config"
	"github.com/Petroslyros/musical-instrument-shop/internal/db"
	"github.com/Petroslyros/musical-instrument-shop/internal/events"
	"github.com/Petroslyros/musical-instrument-shop/internal/handlers"
	"github.com/Petroslyros/musical-instrument-shop/internal/mq"
	"github.com/Petroslyros/musical-instrument-shop/internal/services"
	"github.com/Petroslyros/musical-instrument-shop/internal/storage"
	"github.com/Petroslyros/musical-instrument-shop/internal/store"
	"github.com/Petroslyros/musical-instrument-shop/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server, router and shared resources.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	queue      *mq.MQ
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(cfg.Auth.JWTSecret)
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}
	codec := token.NewCodec(jwtSecret, cfg.Auth.TokenTTL)

	queue, err := openQueue(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	photos, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		closeQueue(queue)
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	brandRepo := store.NewBrandRepository(dbConn)
	categoryRepo := store.NewCategoryRepository(dbConn)
	instrumentRepo := store.NewInstrumentRepository(dbConn)
	orderRepo := store.NewOrderRepository(dbConn)

	var publisher services.EventPublisher
	if queue != nil {
		publisher = events.NewPublisher(queue)
	}

	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userService, codec)
	brandService := services.NewBrandService(brandRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	instrumentService := services.NewInstrumentService(instrumentRepo, categoryRepo, brandRepo, photos)
	orderService := services.NewOrderService(orderRepo, userRepo, publisher)

	authMiddleware := handlers.NewAuthMiddleware(codec, userService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authService, authMiddleware)
	})
	router.Route("/brands", func(r chi.Router) {
		handlers.BrandRouter(r, brandService, authMiddleware)
	})
	router.Route("/categories", func(r chi.Router) {
		handlers.CategoryRouter(r, categoryService, authMiddleware)
	})
	router.Route("/instruments", func(r chi.Router) {
		handlers.InstrumentRouter(r, instrumentService, authMiddleware)
	})
	router.Route("/orders", func(r chi.Router) {
		handlers.OrderRouter(r, orderService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
	}, nil
}

// openQueue builds the configured broker backend, or nil when events
// are disabled.
func openQueue(ctx context.Context, cfg config.EventsConfig) (*mq.MQ, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	case "pubsub":
		backend, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// openStorage builds the configured photo store, or nil when photos
// are disabled.
func openStorage(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	var backend storage.ObjectStorage
	switch cfg.Backend {
	case "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		backend = client
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	wrapped := storage.NewStorage(backend)
	if err := wrapped.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return wrapped, nil
}

func closeQueue(queue *mq.MQ) {
	if queue != nil {
		_ = queue.Close()
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	closeQueue(s.queue)
	return s.httpServer.Close()
}
