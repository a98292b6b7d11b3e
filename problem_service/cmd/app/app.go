package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeadlyParkour777/problemset/pkg/logger"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/cache"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/config"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/handler"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/service"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg config.Config
	log *logger.Logger

	httpServer   *http.Server
	grpcServer   *grpc.Server
	healthServer *health.Server
	db           *sql.DB
	redisClient  *redis.Client
	kafkaWriter  *kafka.Writer
}

func New(cfg config.Config, log *logger.Logger) (*App, error) {
	log.Info("initializing problem service")

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	log.Info("connected to PostgreSQL", "host", cfg.DBHost, "db", cfg.DBName)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis is unavailable, reads will go to the database", "addr", cfg.RedisAddr, "error", err)
	}

	// Topic is set per message.
	kafkaWriter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	log.Info("kafka producer initialized", "brokers", cfg.KafkaBrokers, "topic", cfg.ProblemEventsTopic)

	appStore := store.NewStore(db)
	appCache := cache.NewRedisProblemCache(redisClient, cfg.CacheTTL)
	appService := service.NewService(appStore, appCache, cfg.ProblemEventsTopic, kafkaWriter, log)
	httpHandler := handler.NewHandler(appService, cfg.JWTSecret, cfg.CORSAllowedOrigins, log)
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty, admin routes will reject every request")
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	return &App{
		cfg: cfg,
		log: log,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
			Handler:           httpHandler.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		grpcServer:   grpcServer,
		healthServer: healthServer,
		db:           db,
		redisClient:  redisClient,
		kafkaWriter:  kafkaWriter,
	}, nil
}

// Run serves HTTP and gRPC until one of them fails or the process receives
// SIGINT or SIGTERM.
func (a *App) Run() error {
	defer a.db.Close()
	defer a.redisClient.Close()
	defer a.kafkaWriter.Close()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", a.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	errCh := make(chan error, 2)

	go func() {
		a.log.Info("gRPC server started", "addr", lis.Addr().String())
		if err := a.grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("failed to serve gRPC: %w", err)
		}
	}()

	go func() {
		a.log.Info("HTTP server started", "addr", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	a.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		a.log.Info("shutting down", "signal", sig.String())
	case runErr = <-errCh:
		a.log.Error("server failed, shutting down", "error", runErr)
	}

	a.healthServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("failed to shut down HTTP server", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		a.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		a.grpcServer.Stop()
	}

	return runErr
}
