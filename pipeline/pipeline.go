package pipeline

import (
	"context"

	"ewintr.nl/tubetrend/model"
	"ewintr.nl/tubetrend/resolve"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// At most this many videos are processed at once, the external sources rate
// limit beyond that.
const defaultConcurrency = 10

// Options is the per-run configuration surface.
type Options struct {
	CommentLimit   int
	EnableComments bool
	EnableTrends   bool
	Concurrency    int
}

type Fetcher interface {
	Fetch(ctx context.Context, id model.VideoID, commentLimit int) model.FetchResult
}

type Summarizer interface {
	Summarize(ctx context.Context, res model.FetchResult) model.Digest
}

type Aggregator interface {
	Aggregate(ctx context.Context, digests []model.Digest) model.TrendReport
}

// Result is everything one run produced. Digests appear in input order,
// Skipped lists the references that did not resolve to a video ID.
type Result struct {
	RunID   uuid.UUID
	Digests []model.Digest
	Trends  model.TrendReport
	Skipped []string
}

// Pipeline runs one batch: resolve the references, fetch and summarize each
// video, then aggregate the digests. No failure inside the batch terminates
// it, everything degrades to values in the Result.
type Pipeline struct {
	fetcher    Fetcher
	summarizer Summarizer
	aggregator Aggregator
	opts       Options
	logger     *slog.Logger
}

func New(fetcher Fetcher, summarizer Summarizer, aggregator Aggregator, opts Options, logger *slog.Logger) *Pipeline {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if !opts.EnableComments {
		opts.CommentLimit = 0
	}

	return &Pipeline{
		fetcher:    fetcher,
		summarizer: summarizer,
		aggregator: aggregator,
		opts:       opts,
		logger:     logger,
	}
}

func (p *Pipeline) Run(ctx context.Context, refs []string) Result {
	result := Result{RunID: uuid.New()}
	logger := p.logger.With(slog.String("run", result.RunID.String()))

	ids := make([]model.VideoID, 0, len(refs))
	for _, ref := range refs {
		id, ok := resolve.VideoID(ref)
		if !ok {
			logger.Warn("skipping unresolvable reference", slog.String("ref", ref))
			result.Skipped = append(result.Skipped, ref)
			continue
		}
		ids = append(ids, id)
	}
	logger.Info("starting run", slog.Int("videos", len(ids)), slog.Int("skipped", len(result.Skipped)))

	// Every video writes only its own slot, so completion order does not
	// matter and the digests still come out in input order.
	digests := make([]model.Digest, len(ids))
	done := make([]bool, len(ids))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(p.opts.Concurrency)
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			if gctx.Err() != nil {
				logger.Warn("run cancelled, skipping video", slog.String("video", string(id)))
				return nil
			}
			fetched := p.fetcher.Fetch(gctx, id, p.opts.CommentLimit)
			digests[i] = p.summarizer.Summarize(gctx, fetched)
			done[i] = true
			return nil
		})
	}
	_ = group.Wait() // workers convert every failure to a value

	result.Digests = make([]model.Digest, 0, len(ids))
	for i, digest := range digests {
		if done[i] {
			result.Digests = append(result.Digests, digest)
		}
	}

	if p.opts.EnableTrends {
		result.Trends = p.aggregator.Aggregate(ctx, result.Digests)
	}

	logger.Info("run finished", slog.Int("digests", len(result.Digests)))

	return result
}
