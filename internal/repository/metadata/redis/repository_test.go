package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/watchroom/internal/repository/metadata"
	"github.com/sharetube/watchroom/pkg/ytvideodata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*repo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	return NewRepo(rc, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestVideoCache(t *testing.T) {
	r, mr := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetVideo(ctx, "abc")
	assert.ErrorIs(t, err, metadata.ErrCacheMiss)

	video := &ytvideodata.Video{Url: "https://cdn/720", MimeType: "video/mp4", ThumbnailUrl: "thumb", Title: "title"}
	require.NoError(t, r.SetVideo(ctx, "abc", video))

	cached, err := r.GetVideo(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, video, cached)
	assert.Equal(t, time.Minute, mr.TTL("metadata:video:abc"))

	mr.FastForward(time.Minute)
	_, err = r.GetVideo(ctx, "abc")
	assert.ErrorIs(t, err, metadata.ErrCacheMiss)
}

func TestTrendsCache(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetTrends(ctx)
	assert.ErrorIs(t, err, metadata.ErrCacheMiss)

	trends := []ytvideodata.TrendingVideo{{Url: "u1", ThumbnailUrl: "t1", Title: "one"}}
	require.NoError(t, r.SetTrends(ctx, trends))

	cached, err := r.GetTrends(ctx)
	require.NoError(t, err)
	assert.Equal(t, trends, cached)
}

func TestCorruptEntry(t *testing.T) {
	r, mr := newTestRepo(t)

	require.NoError(t, mr.Set("metadata:video:bad", "{not json"))
	_, err := r.GetVideo(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, metadata.ErrCacheMiss)
}
