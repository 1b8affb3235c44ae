package ytvideodata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
)

type Video struct {
	Url          string `json:"url"`
	MimeType     string `json:"mimeType"`
	ThumbnailUrl string `json:"thumbnailUrl"`
	Title        string `json:"title"`
}

type format struct {
	Url      string `json:"url"`
	MimeType string `json:"mimeType"`
	Width    int    `json:"width"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
	} `json:"playabilityStatus"`
	StreamingData struct {
		Formats []format `json:"formats"`
	} `json:"streamingData"`
	VideoDetails struct {
		VideoId string `json:"videoId"`
		Title   string `json:"title"`
	} `json:"videoDetails"`
}

func ThumbnailUrl(videoId string) string {
	return fmt.Sprintf("https://i3.ytimg.com/vi/%s/maxresdefault.jpg", videoId)
}

// widestFormat returns the widest format that carries a direct url.
func widestFormat(formats []format) (format, bool) {
	playable := slices.DeleteFunc(slices.Clone(formats), func(f format) bool {
		return f.Url == ""
	})
	if len(playable) == 0 {
		return format{}, false
	}

	return slices.MaxFunc(playable, func(a, b format) int {
		return a.Width - b.Width
	}), true
}

// GetVideo resolves a direct stream url and the title of videoId from its
// watch page. header is forwarded minus the client-identifying headers.
func (c *Client) GetVideo(ctx context.Context, videoId string, header http.Header) (*Video, error) {
	body, err := c.fetch(ctx, "/watch?v="+url.QueryEscape(videoId), header)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	p, err := parsePage(body)
	if err != nil {
		return nil, err
	}

	var player playerResponse
	if err := p.decodeVar("ytInitialPlayerResponse", &player); err != nil {
		return nil, err
	}

	if player.PlayabilityStatus.Status == "ERROR" || player.VideoDetails.VideoId == "" {
		return nil, ErrVideoNotFound
	}

	f, ok := widestFormat(player.StreamingData.Formats)
	if !ok {
		return nil, ErrNoPlayableFormat
	}

	title := player.VideoDetails.Title
	if title == "" {
		title = p.title()
	}

	return &Video{
		Url:          f.Url,
		MimeType:     f.MimeType,
		ThumbnailUrl: ThumbnailUrl(videoId),
		Title:        title,
	}, nil
}
