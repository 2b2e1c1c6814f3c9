package model

// Fixed digest texts for the halves that never reach the completion backend.
// They are distinct from backend output and from backend error text, so a
// missing source stays observable downstream.
const (
	NoTranscriptDigest = "Transcript not available for this video."
	NoCommentsDigest   = "No comments available for this video."
)

// Digest is the per-video summarizer output. The two halves are produced by
// independent completion calls. An OK flag is true only when its half came
// back from the backend, sentinels and error text are not usable input for
// the trend aggregation.
type Digest struct {
	VideoID    VideoID
	Title      string
	Content    string
	Audience   string
	ContentOK  bool
	AudienceOK bool
}

// Usable reports whether the digest carries at least one half of real
// backend output.
func (d Digest) Usable() bool {
	return d.ContentOK || d.AudienceOK
}

// TrendReport is the single cross-video synthesis for a batch. The pipeline
// passes the backend response through without interpreting it.
type TrendReport string
