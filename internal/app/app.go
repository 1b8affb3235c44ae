package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sharetube/watchroom/internal/controller"
	conninmemory "github.com/sharetube/watchroom/internal/repository/connection/inmemory"
	metadataredis "github.com/sharetube/watchroom/internal/repository/metadata/redis"
	roominmemory "github.com/sharetube/watchroom/internal/repository/room/inmemory"
	"github.com/sharetube/watchroom/internal/service/metadata"
	"github.com/sharetube/watchroom/internal/service/room"
	"github.com/sharetube/watchroom/pkg/ctxlogger"
	"github.com/sharetube/watchroom/pkg/redisclient"
	"github.com/sharetube/watchroom/pkg/ytvideodata"
)

const writeTimeout = 10 * time.Second

type AppConfig struct {
	Host             string        `json:"host"`
	Port             int           `json:"port"`
	LogLevel         string        `json:"log_level"`
	RoomExpiry       time.Duration `json:"room_expiry"`
	ReconnectWindow  time.Duration `json:"reconnect_window"`
	PongWait         time.Duration `json:"pong_wait"`
	StaticDir        string        `json:"static_dir"`
	RedisHost        string        `json:"redis_host"`
	RedisPort        int           `json:"redis_port"`
	RedisPassword    string        `json:"-"`
	MetadataCacheTTL time.Duration `json:"metadata_cache_ttl"`
	// YoutubeBaseURL overrides the upstream used for metadata. Empty means
	// youtube itself.
	YoutubeBaseURL string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if cfg.RoomExpiry <= 0 {
		return fmt.Errorf("room expiry must be greater than 0")
	}
	if cfg.ReconnectWindow <= 0 {
		return fmt.Errorf("reconnect window must be greater than 0")
	}
	if cfg.PongWait <= 0 {
		return fmt.Errorf("pong wait must be greater than 0")
	}
	if cfg.RedisHost != "" {
		if cfg.RedisPort < 1 || cfg.RedisPort > 65535 {
			return fmt.Errorf("redis port must be between 1 and 65535")
		}
		if cfg.MetadataCacheTTL <= 0 {
			return fmt.Errorf("metadata cache ttl must be greater than 0")
		}
	}
	return nil
}

func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h), nil
}

// NewHandler wires repositories, services and the controller. The returned
// close func releases the redis client, if any.
func NewHandler(ctx context.Context, cfg *AppConfig, logger *slog.Logger) (http.Handler, func() error, error) {
	closeFn := func() error { return nil }

	roomRepo := roominmemory.NewRepo(logger)
	connectionRepo := conninmemory.NewRepo(writeTimeout, logger)
	roomService := room.NewService(roomRepo, connectionRepo, &room.Config{
		RoomExp:         cfg.RoomExpiry,
		ReconnectWindow: cfg.ReconnectWindow,
	}, logger)

	resolver := ytvideodata.NewClient(cfg.YoutubeBaseURL, nil)

	metadataService := metadata.NewService(resolver, nil, logger)
	if cfg.RedisHost != "" {
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		closeFn = rc.Close

		metadataService = metadata.NewService(resolver, metadataredis.NewRepo(rc, cfg.MetadataCacheTTL, logger), logger)
	} else {
		logger.InfoContext(ctx, "metadata cache disabled")
	}

	controller := controller.NewController(roomService, metadataService, &controller.Config{
		StaticDir: cfg.StaticDir,
		PongWait:  cfg.PongWait,
	}, logger)

	return controller.GetMux(), closeFn, nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logger, err := NewLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		return err
	}

	handler, closeFn, err := NewHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: handler}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-serverCtx.Done()

	return nil
}
