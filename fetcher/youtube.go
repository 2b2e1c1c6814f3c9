package fetcher

import (
	"context"

	"ewintr.nl/tubetrend/model"
	"google.golang.org/api/youtube/v3"
)

// Youtube retrieves metadata and comments through the YouTube Data API v3.
type Youtube struct {
	Client *youtube.Service
}

func NewYoutube(client *youtube.Service) *Youtube {
	return &Youtube{Client: client}
}

// FetchMetadata returns the snippet and statistics for one video, or nil
// without an error when the API does not know the video.
func (y *Youtube) FetchMetadata(ctx context.Context, id model.VideoID) (*model.Metadata, error) {
	call := y.Client.Videos.
		List([]string{"snippet", "statistics"}).
		Id(string(id))

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(response.Items) == 0 {
		return nil, nil
	}

	item := response.Items[0]
	md := &model.Metadata{}
	if item.Snippet != nil {
		md.Title = item.Snippet.Title
		md.Channel = item.Snippet.ChannelTitle
	}
	if item.Statistics != nil {
		md.ViewCount = item.Statistics.ViewCount
		md.CommentCount = item.Statistics.CommentCount
	}

	return md, nil
}

// FetchComments returns up to limit top-level comments, most relevant first.
func (y *Youtube) FetchComments(ctx context.Context, id model.VideoID, limit int) ([]string, error) {
	call := y.Client.CommentThreads.
		List([]string{"snippet"}).
		VideoId(string(id)).
		MaxResults(int64(limit)).
		Order("relevance").
		TextFormat("plainText")

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	comments := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		comments = append(comments, item.Snippet.TopLevelComment.Snippet.TextDisplay)
	}

	return comments, nil
}
