package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-dungeon/internal/broadcast"
	"github.com/KirkDiggler/rpg-dungeon/internal/config"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/combat"
	"github.com/KirkDiggler/rpg-dungeon/internal/engine/rng"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/dungeon/v1alpha1"
	"github.com/KirkDiggler/rpg-dungeon/internal/metrics"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-dungeon/internal/redis"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/sessions"
)

var configPath string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dungeon server",
	Long:  `Start the gRPC dungeon service and the HTTP side (health, metrics and the event stream).`,
	RunE:  runServer,
}

func init() {
	flags := serverCmd.Flags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flags.Int("grpc-port", 50051, "gRPC server port")
	flags.Int("http-port", 8080, "HTTP server port")
	flags.String("storage", config.BackendMemory, "Snapshot storage: memory or redis")
	flags.String("redis-addr", "localhost:6379", "Redis address for the redis storage")
	flags.Int64("seed", 0, "Dice seed, 0 for random")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "json", "json or text")
}

// flagKeys maps server flags onto config keys
var flagKeys = map[string]string{
	"grpc-port":  "server.grpc_port",
	"http-port":  "server.http_port",
	"storage":    "storage.backend",
	"redis-addr": "storage.redis_addr",
	"seed":       "engine.seed",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// bindFlags lets explicitly set flags override file and environment values
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", flag)
		}
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := config.NewViper()
	if err := config.ReadFile(v, configPath); err != nil {
		return config.Config{}, err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}
	return config.LoadFromViper(v)
}

func setupLogging(cfg config.LoggingConfig) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, opts)
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.Logging)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repo, closeRepo, err := newRepository(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeRepo()

	bus := events.NewBus()

	recorder, err := metrics.NewRecorder(&metrics.Config{EventBus: bus})
	if err != nil {
		return errors.Wrap(err, "failed to create metrics recorder")
	}
	defer recorder.Close()

	hub, err := broadcast.NewHub(&broadcast.Config{EventBus: bus})
	if err != nil {
		return errors.Wrap(err, "failed to create broadcast hub")
	}
	defer hub.Close()

	resolver, err := combat.NewResolver(&combat.ResolverConfig{
		Roller: rng.New(cfg.Engine.Seed),
		Rules:  cfg.Rules.ToRules(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create resolver")
	}

	svc, err := session.NewOrchestrator(&session.Config{
		Engine:             resolver,
		Clock:              clock.New(),
		IDGenerator:        idgen.NewUUID("turn"),
		Repository:         repo,
		EventBus:           bus,
		LockTimeout:        cfg.Engine.LockTimeout,
		MinCommandInterval: cfg.Engine.MinCommandInterval,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create session orchestrator")
	}

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{Service: svc})
	if err != nil {
		return errors.Wrap(err, "failed to create dungeon handler")
	}

	grpcSrv := newGRPCServer(handler)
	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr(),
		Handler:           newRouter(recorder, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	errChan := make(chan error, 2)
	go func() {
		slog.Info("gRPC server starting", "addr", cfg.Server.GRPCAddr())
		if err := grpcSrv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve gRPC: %w", err)
		}
	}()
	go func() {
		slog.Info("HTTP server starting", "addr", cfg.Server.HTTPAddr())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal, gracefully stopping")
	case err := <-errChan:
		grpcSrv.Stop()
		_ = httpSrv.Close()
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown incomplete", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
		grpcSrv.Stop()
	case <-stopped:
		slog.Info("Server stopped gracefully")
	}

	return nil
}

func newRepository(ctx context.Context, cfg config.StorageConfig) (sessions.Repository, func(), error) {
	if cfg.Backend != config.BackendRedis {
		slog.Info("Using in-memory snapshot storage")
		return sessions.NewInMemory(), func() {}, nil
	}

	client, err := redis.NewClient(cfg.RedisAddr, &redis.Options{MaxRetries: 3})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create redis client")
	}
	if err := redis.Ping(ctx, client, 5*time.Second); err != nil {
		_ = client.Close()
		return nil, nil, errors.Wrapf(err, "redis at %s is unreachable", cfg.RedisAddr)
	}

	repo, err := sessions.NewRedis(&sessions.RedisConfig{Client: client})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	slog.Info("Using redis snapshot storage", "addr", cfg.RedisAddr)
	return repo, func() { _ = client.Close() }, nil
}

func newGRPCServer(handler v1alpha1.DungeonServiceServer) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	v1alpha1.RegisterDungeonServiceServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)
	return srv
}

func newRouter(recorder *metrics.Recorder, hub *broadcast.Hub) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", recorder.Handler()).Methods(http.MethodGet)
	r.Handle("/api/v1/events", hub).Methods(http.MethodGet)
	return r
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Log(ctx, slog.Level(level), msg, fields...)
}
