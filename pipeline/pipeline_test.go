package pipeline_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"ewintr.nl/tubetrend/model"
	"ewintr.nl/tubetrend/pipeline"
	"ewintr.nl/tubetrend/summarizer"
	"ewintr.nl/tubetrend/trends"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// fakeFetcher serves canned per-video fetch results.
type fakeFetcher struct {
	mu      sync.Mutex
	results map[model.VideoID]model.FetchResult
	limits  []int
}

func (f *fakeFetcher) Fetch(_ context.Context, id model.VideoID, commentLimit int) model.FetchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, commentLimit)
	if res, ok := f.results[id]; ok {
		return res
	}
	return model.FetchResult{VideoID: id}
}

// fakeSummarizer marks halves OK when their source text is present.
type fakeSummarizer struct{}

func (f *fakeSummarizer) Summarize(_ context.Context, res model.FetchResult) model.Digest {
	digest := model.Digest{
		VideoID:  res.VideoID,
		Title:    res.Title(),
		Content:  model.NoTranscriptDigest,
		Audience: model.NoCommentsDigest,
	}
	if res.Transcript != "" {
		digest.Content = "summary of " + res.Transcript
		digest.ContentOK = true
	}
	if len(res.Comments) > 0 {
		digest.Audience = "audience digest"
		digest.AudienceOK = true
	}
	return digest
}

type fakeAggregator struct {
	report model.TrendReport
	calls  int
	got    []model.Digest
}

func (f *fakeAggregator) Aggregate(_ context.Context, digests []model.Digest) model.TrendReport {
	f.calls++
	f.got = digests
	return f.report
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard))
}

func newPipeline(fetcher *fakeFetcher, aggregator *fakeAggregator, opts pipeline.Options) *pipeline.Pipeline {
	return pipeline.New(fetcher, &fakeSummarizer{}, aggregator, opts, testLogger())
}

func fullResult(id model.VideoID, title string) model.FetchResult {
	return model.FetchResult{
		VideoID:    id,
		Transcript: "transcript of " + title,
		Comments:   []string{"comment on " + title},
		Metadata:   &model.Metadata{Title: title},
	}
}

func TestRunFullBatch(t *testing.T) {
	// scenario: two valid references, both fully fetched
	fetcher := &fakeFetcher{results: map[model.VideoID]model.FetchResult{
		"aaaaaaaaaaa": fullResult("aaaaaaaaaaa", "First"),
		"bbbbbbbbbbb": fullResult("bbbbbbbbbbb", "Second"),
	}}
	aggregator := &fakeAggregator{report: "the trend report"}
	p := newPipeline(fetcher, aggregator, pipeline.Options{
		CommentLimit:   50,
		EnableComments: true,
		EnableTrends:   true,
	})

	result := p.Run(context.Background(), []string{
		"https://www.youtube.com/watch?v=aaaaaaaaaaa",
		"https://youtu.be/bbbbbbbbbbb",
	})

	require.Len(t, result.Digests, 2)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, model.VideoID("aaaaaaaaaaa"), result.Digests[0].VideoID)
	assert.Equal(t, model.VideoID("bbbbbbbbbbb"), result.Digests[1].VideoID)
	assert.Equal(t, model.TrendReport("the trend report"), result.Trends)
	require.Equal(t, 1, aggregator.calls)
	require.Len(t, aggregator.got, 2)
	assert.Equal(t, "First", aggregator.got[0].Title)
	assert.Equal(t, "Second", aggregator.got[1].Title)
	assert.NotEmpty(t, result.RunID)
}

func TestRunDegradedItem(t *testing.T) {
	// scenario: one video's transcript fetch fails but comments succeed
	fetcher := &fakeFetcher{results: map[model.VideoID]model.FetchResult{
		"aaaaaaaaaaa": {
			VideoID:  "aaaaaaaaaaa",
			Comments: []string{"a comment"},
		},
	}}
	aggregator := &fakeAggregator{}
	p := newPipeline(fetcher, aggregator, pipeline.Options{
		CommentLimit:   50,
		EnableComments: true,
		EnableTrends:   true,
	})

	result := p.Run(context.Background(), []string{"aaaaaaaaaaa"})

	require.Len(t, result.Digests, 1)
	digest := result.Digests[0]
	assert.Equal(t, model.NoTranscriptDigest, digest.Content)
	assert.False(t, digest.ContentOK)
	assert.True(t, digest.AudienceOK)
}

func TestRunSkipsMalformedReferences(t *testing.T) {
	// scenario: three references, one does not resolve
	fetcher := &fakeFetcher{results: map[model.VideoID]model.FetchResult{
		"aaaaaaaaaaa": fullResult("aaaaaaaaaaa", "First"),
		"bbbbbbbbbbb": fullResult("bbbbbbbbbbb", "Second"),
	}}
	aggregator := &fakeAggregator{report: "the trend report"}
	p := newPipeline(fetcher, aggregator, pipeline.Options{
		CommentLimit:   50,
		EnableComments: true,
		EnableTrends:   true,
	})

	result := p.Run(context.Background(), []string{
		"aaaaaaaaaaa",
		"not a video reference",
		"bbbbbbbbbbb",
	})

	require.Len(t, result.Digests, 2)
	assert.Equal(t, []string{"not a video reference"}, result.Skipped)
	require.Equal(t, 1, aggregator.calls)
	assert.Len(t, aggregator.got, 2)
}

func TestRunOrderIndependentOfCompletion(t *testing.T) {
	ids := []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc", "ddddddddddd", "eeeeeeeeeee"}
	results := make(map[model.VideoID]model.FetchResult, len(ids))
	for _, id := range ids {
		results[model.VideoID(id)] = fullResult(model.VideoID(id), "Title "+id)
	}
	fetcher := &fakeFetcher{results: results}
	p := newPipeline(fetcher, &fakeAggregator{}, pipeline.Options{
		CommentLimit:   50,
		EnableComments: true,
		Concurrency:    3,
	})

	result := p.Run(context.Background(), ids)

	require.Len(t, result.Digests, len(ids))
	for i, id := range ids {
		assert.Equal(t, model.VideoID(id), result.Digests[i].VideoID)
	}
}

func TestRunTrendsDisabled(t *testing.T) {
	fetcher := &fakeFetcher{results: map[model.VideoID]model.FetchResult{
		"aaaaaaaaaaa": fullResult("aaaaaaaaaaa", "First"),
		"bbbbbbbbbbb": fullResult("bbbbbbbbbbb", "Second"),
	}}
	aggregator := &fakeAggregator{report: "should not appear"}
	p := newPipeline(fetcher, aggregator, pipeline.Options{
		CommentLimit:   50,
		EnableComments: true,
		EnableTrends:   false,
	})

	result := p.Run(context.Background(), []string{"aaaaaaaaaaa", "bbbbbbbbbbb"})

	assert.Zero(t, aggregator.calls)
	assert.Empty(t, result.Trends)
}

func TestRunCommentsDisabled(t *testing.T) {
	fetcher := &fakeFetcher{results: map[model.VideoID]model.FetchResult{}}
	p := newPipeline(fetcher, &fakeAggregator{}, pipeline.Options{
		CommentLimit:   50,
		EnableComments: false,
	})

	p.Run(context.Background(), []string{"aaaaaaaaaaa"})

	require.Len(t, fetcher.limits, 1)
	assert.Zero(t, fetcher.limits[0])
}

type failingBackend struct{}

func (failingBackend) Complete(_ context.Context, _ string, _ int) (string, error) {
	return "", errors.New("backend down")
}

func TestRunBackendAlwaysFails(t *testing.T) {
	// scenario: the completion backend is fully down, the batch still
	// finishes and every would-be summary carries explanatory text
	fetcher := &fakeFetcher{results: map[model.VideoID]model.FetchResult{
		"aaaaaaaaaaa": fullResult("aaaaaaaaaaa", "First"),
		"bbbbbbbbbbb": fullResult("bbbbbbbbbbb", "Second"),
	}}
	p := pipeline.New(fetcher,
		summarizer.NewSummarizer(failingBackend{}, testLogger()),
		trends.NewAggregator(failingBackend{}, testLogger()),
		pipeline.Options{
			CommentLimit:   50,
			EnableComments: true,
			EnableTrends:   true,
		}, testLogger())

	result := p.Run(context.Background(), []string{"aaaaaaaaaaa", "bbbbbbbbbbb"})

	require.Len(t, result.Digests, 2)
	for _, digest := range result.Digests {
		assert.Contains(t, digest.Content, "content analysis failed")
		assert.Contains(t, digest.Audience, "audience analysis failed")
		assert.False(t, digest.Usable())
	}
	// no digest survived, so the aggregation guard answers instead of the backend
	assert.Equal(t, trends.NotEnoughVideos, result.Trends)
}

func TestRunCancelledContext(t *testing.T) {
	fetcher := &fakeFetcher{results: map[model.VideoID]model.FetchResult{}}
	aggregator := &fakeAggregator{}
	p := newPipeline(fetcher, aggregator, pipeline.Options{EnableTrends: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := p.Run(ctx, []string{"aaaaaaaaaaa", "bbbbbbbbbbb"})

	// nothing started, nothing produced, and the run still returns a result
	assert.Empty(t, result.Digests)
	assert.Equal(t, 1, aggregator.calls)
}
