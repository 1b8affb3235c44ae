package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/watchroom/internal/service/metadata"
	"github.com/sharetube/watchroom/internal/service/room"
	"github.com/sharetube/watchroom/pkg/validator"
	"github.com/sharetube/watchroom/pkg/wsrouter"
	"github.com/sharetube/watchroom/pkg/ytvideodata"
)

type iRoomService interface {
	ConnectMember(context.Context, *room.ConnectMemberParams) error
	Init(context.Context, *room.InitParams) (room.InitResponse, error)
	UpdateVideo(context.Context, *room.UpdateVideoParams) error
	Play(context.Context, *room.UpdatePlayerStateParams) error
	Pause(context.Context, *room.UpdatePlayerStateParams) error
	Seek(context.Context, *room.SeekParams) error
	DisconnectMember(context.Context, *room.DisconnectMemberParams) error
}

type iMetadataService interface {
	GetVideo(context.Context, *metadata.GetVideoParams) (*ytvideodata.Video, error)
	GetTrends(context.Context, *metadata.GetTrendsParams) ([]ytvideodata.TrendingVideo, error)
}

type Config struct {
	// StaticDir holds the browser client. Empty disables static serving.
	StaticDir string
	// PongWait is how long a connection may stay silent, pongs included,
	// before it is dropped. Pings are sent at 9/10 of it. Zero disables
	// liveness checks.
	PongWait time.Duration
}

type controller struct {
	roomService     iRoomService
	metadataService iMetadataService
	upgrader        websocket.Upgrader
	wsmux           *wsrouter.WSRouter
	validate        *validator.Validator
	staticDir       string
	pongWait        time.Duration
	logger          *slog.Logger
}

func NewController(roomService iRoomService, metadataService iMetadataService, cfg *Config, logger *slog.Logger) *controller {
	c := &controller{
		roomService:     roomService,
		metadataService: metadataService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate:  validator.NewValidator(),
		staticDir: cfg.StaticDir,
		pongWait:  cfg.PongWait,
		logger:    logger,
	}
	c.wsmux = c.getWSRouter()
	c.wsmux.SetReadTimeout(cfg.PongWait)

	return c
}
