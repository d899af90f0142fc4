package main

import (
	"context"
	"ctchen222/tictactoe-hotseat/internal/api/controller"
	"ctchen222/tictactoe-hotseat/internal/config"
	"ctchen222/tictactoe-hotseat/internal/db"
	"ctchen222/tictactoe-hotseat/internal/logger"
	"ctchen222/tictactoe-hotseat/internal/movelog"
	"ctchen222/tictactoe-hotseat/internal/repository"
	"ctchen222/tictactoe-hotseat/internal/server"
	"ctchen222/tictactoe-hotseat/internal/session"
	"ctchen222/tictactoe-hotseat/internal/telemetry"
	"ctchen222/tictactoe-hotseat/internal/tui"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	ui := flag.String("ui", "", "front end to run: tui or web (overrides UI)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *ui != "" {
		cfg.UI = *ui
		if err := cfg.Validate(); err != nil {
			log.Fatalf("invalid flags: %v", err)
		}
	}

	if err := run(cfg); err != nil {
		log.Fatalf("tictactoe: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, _ := cfg.Level()
	out, closeOut, err := logOutput(cfg)
	if err != nil {
		return err
	}
	defer closeOut()
	logger.Init(out, level)

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	moves, err := movelog.Open(cfg.MoveLogPath)
	if err != nil {
		return err
	}
	defer moves.Close()

	repo, err := newRepository(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	s, err := session.Open(ctx, cfg.SessionID, repo, moves)
	if err != nil {
		return err
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Close(closeCtx); err != nil {
			slog.Error("Error closing session", "error", err)
		}
	}()

	if cfg.UI == config.UIWeb {
		return serve(ctx, cfg.HTTPAddr, s)
	}
	return tui.Run(ctx, s)
}

// logOutput picks where the console log goes. The terminal UI owns stdout,
// so it only logs to DEBUG_LOG_PATH when that is set.
func logOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.DebugLogPath != "" {
		f, err := os.OpenFile(cfg.DebugLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}
	if cfg.UI == config.UITerminal {
		return io.Discard, func() {}, nil
	}
	return os.Stdout, func() {}, nil
}

func newRepository(ctx context.Context, cfg config.Redis) (repository.GameRepository, error) {
	if cfg.Addr == "" {
		slog.Info("storing session in memory")
		return repository.NewMemoryGameRepository(), nil
	}

	rdb, err := db.NewRedisClient(ctx, cfg.Addr)
	if err != nil {
		return nil, err
	}
	slog.Info("storing session in redis", "redis.addr", cfg.Addr, "redis.ttl", cfg.TTL)
	return repository.NewGameRepository(rdb, cfg.TTL), nil
}

func serve(ctx context.Context, addr string, s *session.Session) error {
	gin.SetMode(gin.ReleaseMode)
	srv := server.NewServer(s, controller.NewGameController(s))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Engine(),
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("http server started", "http.addr", addr, "session.id", s.ID)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Join(errors.New("server forced to shutdown"), err)
	}

	slog.Info("Server exiting")
	return nil
}
