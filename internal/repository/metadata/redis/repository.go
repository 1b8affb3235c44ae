package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sharetube/watchroom/internal/repository/metadata"
	"github.com/sharetube/watchroom/pkg/ytvideodata"
)

type repo struct {
	rc     *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRepo(rc *redis.Client, ttl time.Duration, logger *slog.Logger) *repo {
	return &repo{
		rc:     rc,
		ttl:    ttl,
		logger: logger,
	}
}

func (r repo) getVideoKey(videoId string) string {
	return "metadata:video:" + videoId
}

func (r repo) getTrendsKey() string {
	return "metadata:trends"
}

func (r repo) getJSON(ctx context.Context, key string, v any) error {
	data, err := r.rc.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return metadata.ErrCacheMiss
		}
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode cached %s: %w", key, err)
	}

	return nil
}

func (r repo) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	return r.rc.Set(ctx, key, data, r.ttl).Err()
}

func (r repo) GetVideo(ctx context.Context, videoId string) (*ytvideodata.Video, error) {
	funcName := "redis.GetVideo"
	r.logger.DebugContext(ctx, funcName, "video_id", videoId)

	var video ytvideodata.Video
	if err := r.getJSON(ctx, r.getVideoKey(videoId), &video); err != nil {
		return nil, err
	}

	return &video, nil
}

func (r repo) SetVideo(ctx context.Context, videoId string, video *ytvideodata.Video) error {
	funcName := "redis.SetVideo"
	r.logger.DebugContext(ctx, funcName, "video_id", videoId)

	return r.setJSON(ctx, r.getVideoKey(videoId), video)
}

func (r repo) GetTrends(ctx context.Context) ([]ytvideodata.TrendingVideo, error) {
	funcName := "redis.GetTrends"
	r.logger.DebugContext(ctx, funcName)

	var trends []ytvideodata.TrendingVideo
	if err := r.getJSON(ctx, r.getTrendsKey(), &trends); err != nil {
		return nil, err
	}

	return trends, nil
}

func (r repo) SetTrends(ctx context.Context, trends []ytvideodata.TrendingVideo) error {
	funcName := "redis.SetTrends"
	r.logger.DebugContext(ctx, funcName, "count", len(trends))

	return r.setJSON(ctx, r.getTrendsKey(), trends)
}
