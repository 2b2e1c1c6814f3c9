package model

// VideoID is the canonical YouTube video identifier. The pipeline treats it
// as an opaque key, only the resolver knows its shape.
type VideoID string

// Metadata holds the best-effort video details from the data API. Absence of
// the whole record must not block transcript or comment processing.
type Metadata struct {
	Title        string
	Channel      string
	ViewCount    uint64
	CommentCount uint64
}

// FetchResult collects everything the fetcher could retrieve for one video.
// Transcript and Comments are independent, a failure on one side leaves the
// other intact. An empty Transcript means none was available. Comments keep
// the relevance order the source returned them in.
type FetchResult struct {
	VideoID    VideoID
	Transcript string
	Comments   []string
	Metadata   *Metadata
}

// Title returns the display title for the video, falling back to the ID when
// metadata could not be fetched.
func (fr FetchResult) Title() string {
	if fr.Metadata != nil && fr.Metadata.Title != "" {
		return fr.Metadata.Title
	}

	return "Video " + string(fr.VideoID)
}
