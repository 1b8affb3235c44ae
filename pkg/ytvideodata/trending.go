package ytvideodata

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
)

type TrendingVideo struct {
	Url          string `json:"url"`
	ThumbnailUrl string `json:"thumbnailUrl"`
	Title        string `json:"title"`
}

type thumbnail struct {
	Url   string `json:"url"`
	Width int    `json:"width"`
}

type videoRenderer struct {
	VideoId   string `json:"videoId"`
	Thumbnail struct {
		Thumbnails []thumbnail `json:"thumbnails"`
	} `json:"thumbnail"`
	Title struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"title"`
}

type shelfRenderer struct {
	Title   json.RawMessage `json:"title"`
	Content struct {
		ExpandedShelfContentsRenderer struct {
			Items []struct {
				VideoRenderer *videoRenderer `json:"videoRenderer"`
			} `json:"items"`
		} `json:"expandedShelfContentsRenderer"`
	} `json:"content"`
}

type initialData struct {
	Contents struct {
		TwoColumnBrowseResultsRenderer struct {
			Tabs []struct {
				TabRenderer struct {
					Content struct {
						SectionListRenderer struct {
							Contents []struct {
								ItemSectionRenderer struct {
									Contents []struct {
										ShelfRenderer *shelfRenderer `json:"shelfRenderer"`
									} `json:"contents"`
								} `json:"itemSectionRenderer"`
							} `json:"contents"`
						} `json:"sectionListRenderer"`
					} `json:"content"`
				} `json:"tabRenderer"`
			} `json:"tabs"`
		} `json:"twoColumnBrowseResultsRenderer"`
	} `json:"contents"`
}

// shelves returns the untitled shelves of the first tab. Titled shelves
// are curated extras, not the trending list itself.
func (d *initialData) shelves() ([]*shelfRenderer, error) {
	tabs := d.Contents.TwoColumnBrowseResultsRenderer.Tabs
	if len(tabs) == 0 {
		return nil, ErrUnexpectedPage
	}

	var shelves []*shelfRenderer
	for _, section := range tabs[0].TabRenderer.Content.SectionListRenderer.Contents {
		items := section.ItemSectionRenderer.Contents
		if len(items) == 0 || items[0].ShelfRenderer == nil {
			continue
		}
		if shelf := items[0].ShelfRenderer; len(shelf.Title) == 0 {
			shelves = append(shelves, shelf)
		}
	}

	if len(shelves) == 0 {
		return nil, ErrUnexpectedPage
	}

	return shelves, nil
}

func (v *videoRenderer) toTrendingVideo() (TrendingVideo, bool) {
	if v.VideoId == "" || len(v.Thumbnail.Thumbnails) == 0 || len(v.Title.Runs) == 0 {
		return TrendingVideo{}, false
	}

	widest := slices.MaxFunc(v.Thumbnail.Thumbnails, func(a, b thumbnail) int {
		return a.Width - b.Width
	})

	return TrendingVideo{
		Url:          "https://www.youtube.com/watch?v=" + v.VideoId,
		ThumbnailUrl: widest.Url,
		Title:        v.Title.Runs[0].Text,
	}, true
}

// GetTrending lists the videos of the trending feed in page order.
func (c *Client) GetTrending(ctx context.Context, header http.Header) ([]TrendingVideo, error) {
	body, err := c.fetch(ctx, "/feed/trending", header)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	p, err := parsePage(body)
	if err != nil {
		return nil, err
	}

	var data initialData
	if err := p.decodeVar("ytInitialData", &data); err != nil {
		return nil, err
	}

	shelves, err := data.shelves()
	if err != nil {
		return nil, err
	}

	videos := make([]TrendingVideo, 0)
	for _, shelf := range shelves {
		for _, item := range shelf.Content.ExpandedShelfContentsRenderer.Items {
			if item.VideoRenderer == nil {
				continue
			}
			if video, ok := item.VideoRenderer.toTrendingVideo(); ok {
				videos = append(videos, video)
			}
		}
	}

	return videos, nil
}
