package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/taxsim-backend/internal/adapter/grpc"
	"github.com/simaogato/taxsim-backend/internal/config"
	"github.com/simaogato/taxsim-backend/internal/usecase/simulator"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	// 1. Load configuration
	if err := config.LoadDotEnv(); err != nil {
		logger.WithError(err).Warn("Relying on OS environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	// 2. Initialize Services (Use Cases)
	simulationService := simulator.NewSimulationService(logger)
	results := cache.New(cfg.Cache.TTL(), 2*cfg.Cache.TTL())

	// 3. Start gRPC Server
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(grpcadapter.UnaryInterceptors(logger, cfg.APIToken, limiter)...),
	)

	grpcadapter.RegisterSimulationServer(grpcServer, grpcadapter.NewServer(simulationService, cfg.Defaults, results, logger))

	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.WithError(err).Fatalf("Failed to listen on %s", cfg.GRPCAddr)
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("addr", cfg.GRPCAddr).Info("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			logger.WithError(err).Fatal("Failed to serve gRPC server")
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
// A server still draining after ten seconds is stopped hard.
func waitForShutdown(grpcServer *grpclib.Server, logger logrus.FieldLogger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("Shutting down gracefully")

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		grpcServer.Stop()
	}
	logger.Info("gRPC server stopped")
}
