package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sharetube/watchroom/internal/service/metadata"
)

const resolveErrorMessage = "Failed to load Youtube"

func (c controller) getVideo(w http.ResponseWriter, r *http.Request) {
	videoId := chi.URLParam(r, "video-id")
	if validationErrors, ok := c.validate.ValidateVar("video-id", videoId, "required,max=64"); !ok {
		c.logger.InfoContext(r.Context(), "invalid video id", "errors", validationErrors)
		c.writeJSON(w, http.StatusBadRequest, envelope{"errors": validationErrors})
		return
	}

	video, err := c.metadataService.GetVideo(r.Context(), &metadata.GetVideoParams{
		VideoId: videoId,
		Header:  r.Header,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to get video", "video_id", videoId, "error", err)
		c.writeJSON(w, http.StatusOK, envelope{"error": resolveErrorMessage})
		return
	}

	c.writeJSON(w, http.StatusOK, video)
}

func (c controller) getTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := c.metadataService.GetTrends(r.Context(), &metadata.GetTrendsParams{
		Header: r.Header,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to get trends", "error", err)
		c.writeJSON(w, http.StatusOK, envelope{"error": resolveErrorMessage})
		return
	}

	c.writeJSON(w, http.StatusOK, trends)
}
