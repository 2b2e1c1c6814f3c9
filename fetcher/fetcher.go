package fetcher

import (
	"context"
	"sync"
	"time"

	"ewintr.nl/tubetrend/model"
	"golang.org/x/exp/slog"
)

// Every external retrieval gets this much time before it counts as failed.
const retrievalTimeout = 10 * time.Second

// A comment request never asks the source for more than this, the data API
// caps page size at 100.
const maxCommentLimit = 100

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, id model.VideoID) (*model.Metadata, error)
}

type CommentFetcher interface {
	FetchComments(ctx context.Context, id model.VideoID, limit int) ([]string, error)
}

type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, id model.VideoID, languages []string) (string, error)
}

// Fetcher retrieves transcript, comments and metadata for one video. The
// three retrievals are independent, each failure is logged and turned into
// an absent value. Fetch never returns an error.
type Fetcher struct {
	metadata    MetadataFetcher
	comments    CommentFetcher
	transcripts TranscriptFetcher
	languages   []string
	logger      *slog.Logger
}

func NewFetcher(metadata MetadataFetcher, comments CommentFetcher, transcripts TranscriptFetcher, languages []string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		metadata:    metadata,
		comments:    comments,
		transcripts: transcripts,
		languages:   languages,
		logger:      logger,
	}
}

// Fetch runs the three retrievals concurrently and assembles whatever they
// produced. A commentLimit of zero or less skips comment retrieval, larger
// limits are clamped to the provider maximum.
func (f *Fetcher) Fetch(ctx context.Context, id model.VideoID, commentLimit int) model.FetchResult {
	if commentLimit > maxCommentLimit {
		commentLimit = maxCommentLimit
	}

	res := model.FetchResult{VideoID: id}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		tctx, cancel := context.WithTimeout(ctx, retrievalTimeout)
		defer cancel()
		transcript, err := f.transcripts.FetchTranscript(tctx, id, f.languages)
		if err != nil {
			f.logger.Error("failed to fetch transcript", err, slog.String("video", string(id)))
			return
		}
		res.Transcript = transcript
	}()

	if commentLimit > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, retrievalTimeout)
			defer cancel()
			comments, err := f.comments.FetchComments(cctx, id, commentLimit)
			if err != nil {
				f.logger.Error("failed to fetch comments", err, slog.String("video", string(id)))
				return
			}
			res.Comments = comments
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		mctx, cancel := context.WithTimeout(ctx, retrievalTimeout)
		defer cancel()
		md, err := f.metadata.FetchMetadata(mctx, id)
		if err != nil {
			f.logger.Error("failed to fetch metadata", err, slog.String("video", string(id)))
			return
		}
		res.Metadata = md
	}()

	wg.Wait()

	f.logger.Info("fetched video",
		slog.String("video", string(id)),
		slog.Bool("transcript", res.Transcript != ""),
		slog.Int("comments", len(res.Comments)),
		slog.Bool("metadata", res.Metadata != nil))

	return res
}
