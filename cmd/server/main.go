package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/watchroom/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 8000,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	roomExpiry = configVar[time.Duration]{
		envKey:       "SERVER_ROOM_EXPIRY",
		flagKey:      "room-expiry",
		defaultValue: 30 * time.Second,
	}
	reconnectWindow = configVar[time.Duration]{
		envKey:       "SERVER_RECONNECT_WINDOW",
		flagKey:      "reconnect-window",
		defaultValue: 5 * time.Second,
	}
	pongWait = configVar[time.Duration]{
		envKey:       "SERVER_PONG_WAIT",
		flagKey:      "pong-wait",
		defaultValue: 60 * time.Second,
	}
	staticDir = configVar[string]{
		envKey:       "SERVER_STATIC_DIR",
		flagKey:      "static-dir",
		defaultValue: "",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
	metadataCacheTTL = configVar[time.Duration]{
		envKey:       "METADATA_CACHE_TTL",
		flagKey:      "metadata-cache-ttl",
		defaultValue: 10 * time.Minute,
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Duration(roomExpiry.flagKey, roomExpiry.defaultValue, "How long an empty room is kept")
	pflag.Duration(reconnectWindow.flagKey, reconnectWindow.defaultValue, "How long a departed client has to reconnect before the room is told")
	pflag.Duration(pongWait.flagKey, pongWait.defaultValue, "How long a silent connection is kept before it is dropped")
	pflag.String(staticDir.flagKey, staticDir.defaultValue, "Directory of the browser client, empty disables it")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host, empty disables the metadata cache")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Duration(metadataCacheTTL.flagKey, metadataCacheTTL.defaultValue, "Metadata cache ttl")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(port)
	bind(host)
	bind(logLevel)
	bind(roomExpiry)
	bind(reconnectWindow)
	bind(pongWait)
	bind(staticDir)
	bind(redisPort)
	bind(redisHost)
	bind(redisPassword)
	bind(metadataCacheTTL)

	config := &app.AppConfig{
		Host:             viper.GetString(host.flagKey),
		Port:             viper.GetInt(port.flagKey),
		LogLevel:         viper.GetString(logLevel.flagKey),
		RoomExpiry:       viper.GetDuration(roomExpiry.flagKey),
		ReconnectWindow:  viper.GetDuration(reconnectWindow.flagKey),
		PongWait:         viper.GetDuration(pongWait.flagKey),
		StaticDir:        viper.GetString(staticDir.flagKey),
		RedisPort:        viper.GetInt(redisPort.flagKey),
		RedisHost:        viper.GetString(redisHost.flagKey),
		RedisPassword:    viper.GetString(redisPassword.flagKey),
		MetadataCacheTTL: viper.GetDuration(metadataCacheTTL.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatal(err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
