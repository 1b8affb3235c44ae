package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	metadatarepo "github.com/sharetube/watchroom/internal/repository/metadata"
	"github.com/sharetube/watchroom/pkg/ytvideodata"
)

const trendsAttempts = 5

// ErrResolve is returned whenever metadata could not be produced.
var ErrResolve = errors.New("failed to load youtube")

type iResolver interface {
	GetVideo(ctx context.Context, videoId string, header http.Header) (*ytvideodata.Video, error)
	GetTrending(ctx context.Context, header http.Header) ([]ytvideodata.TrendingVideo, error)
}

type iCacheRepo interface {
	GetVideo(ctx context.Context, videoId string) (*ytvideodata.Video, error)
	SetVideo(ctx context.Context, videoId string, video *ytvideodata.Video) error
	GetTrends(ctx context.Context) ([]ytvideodata.TrendingVideo, error)
	SetTrends(ctx context.Context, trends []ytvideodata.TrendingVideo) error
}

type service struct {
	resolver iResolver
	cache    iCacheRepo
	logger   *slog.Logger
}

// NewService builds the metadata service. A nil cache disables caching.
func NewService(resolver iResolver, cache iCacheRepo, logger *slog.Logger) *service {
	return &service{
		resolver: resolver,
		cache:    cache,
		logger:   logger,
	}
}

type GetVideoParams struct {
	VideoId string
	Header  http.Header
}

func (s service) GetVideo(ctx context.Context, params *GetVideoParams) (*ytvideodata.Video, error) {
	if s.cache != nil {
		video, err := s.cache.GetVideo(ctx, params.VideoId)
		if err == nil {
			return video, nil
		}
		if !errors.Is(err, metadatarepo.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "failed to read video cache", "video_id", params.VideoId, "error", err)
		}
	}

	video, err := s.resolver.GetVideo(ctx, params.VideoId, params.Header)
	if err != nil {
		s.logger.InfoContext(ctx, "failed to resolve video", "video_id", params.VideoId, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}

	if s.cache != nil {
		if err := s.cache.SetVideo(ctx, params.VideoId, video); err != nil {
			s.logger.WarnContext(ctx, "failed to cache video", "video_id", params.VideoId, "error", err)
		}
	}

	return video, nil
}

type GetTrendsParams struct {
	Header http.Header
}

func (s service) GetTrends(ctx context.Context, params *GetTrendsParams) ([]ytvideodata.TrendingVideo, error) {
	if s.cache != nil {
		trends, err := s.cache.GetTrends(ctx)
		if err == nil {
			return trends, nil
		}
		if !errors.Is(err, metadatarepo.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "failed to read trends cache", "error", err)
		}
	}

	var errs []error
	for attempt := 1; attempt <= trendsAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		trends, err := s.resolver.GetTrending(ctx, params.Header)
		if err != nil {
			s.logger.InfoContext(ctx, "failed to load trends", "attempt", attempt, "error", err)
			errs = append(errs, err)
			continue
		}

		if s.cache != nil {
			if err := s.cache.SetTrends(ctx, trends); err != nil {
				s.logger.WarnContext(ctx, "failed to cache trends", "error", err)
			}
		}

		return trends, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrResolve, errors.Join(errs...))
}
