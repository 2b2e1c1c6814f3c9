package summarizer

import (
	"context"
	"fmt"
	"strings"

	"ewintr.nl/tubetrend/model"
	"ewintr.nl/tubetrend/tokens"
	"golang.org/x/exp/slog"
)

// Budgets for the two completion calls. Input budgets bound what we send,
// output caps bound what we ask back. All approximate, see the tokens
// package.
const (
	contentInputBudget  = 5000
	contentOutputCap    = 2000
	audienceInputBudget = 3000
	audienceOutputCap   = 1500

	commentSampleSize = 50
	commentClipBytes  = 200
)

type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Summarizer produces the per-video digest. The content half and the
// audience half are independent completion calls, a missing source or a
// failed call on one side never touches the other. A backend failure
// becomes explanatory text in the digest, it is not retried and it never
// aborts the batch.
type Summarizer struct {
	backend Completer
	logger  *slog.Logger
}

func NewSummarizer(backend Completer, logger *slog.Logger) *Summarizer {
	return &Summarizer{
		backend: backend,
		logger:  logger,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, res model.FetchResult) model.Digest {
	digest := model.Digest{
		VideoID: res.VideoID,
		Title:   res.Title(),
	}
	digest.Content, digest.ContentOK = s.contentDigest(ctx, res, digest.Title)
	digest.Audience, digest.AudienceOK = s.audienceDigest(ctx, res, digest.Title)

	return digest
}

// contentDigest distills the transcript into the ten key points. Without a
// transcript the backend is not called, the sentinel keeps "no transcript"
// distinguishable from an empty summary.
func (s *Summarizer) contentDigest(ctx context.Context, res model.FetchResult, title string) (string, bool) {
	if res.Transcript == "" {
		return model.NoTranscriptDigest, false
	}

	prompt := fmt.Sprintf(contentPrompt, title, tokens.Truncate(res.Transcript, contentInputBudget))
	out, err := s.backend.Complete(ctx, prompt, contentOutputCap)
	if err != nil {
		s.logger.Error("failed to summarize transcript", err, slog.String("video", string(res.VideoID)))
		return fmt.Sprintf("content analysis failed: %v", err), false
	}

	return out, true
}

// audienceDigest distills the comments into the sentiment breakdown. An
// empty comment list short-circuits to the sentinel without a backend call.
func (s *Summarizer) audienceDigest(ctx context.Context, res model.FetchResult, title string) (string, bool) {
	if len(res.Comments) == 0 {
		return model.NoCommentsDigest, false
	}

	prompt := fmt.Sprintf(audiencePrompt, title, tokens.Truncate(sampleComments(res.Comments), audienceInputBudget))
	out, err := s.backend.Complete(ctx, prompt, audienceOutputCap)
	if err != nil {
		s.logger.Error("failed to summarize comments", err, slog.String("video", string(res.VideoID)))
		return fmt.Sprintf("audience analysis failed: %v", err), false
	}

	return out, true
}

// sampleComments keeps the most relevant comments and clips each one, so a
// handful of essays cannot crowd out the rest of the sample.
func sampleComments(comments []string) string {
	if len(comments) > commentSampleSize {
		comments = comments[:commentSampleSize]
	}
	lines := make([]string, 0, len(comments))
	for _, comment := range comments {
		lines = append(lines, "- "+tokens.Clip(comment, commentClipBytes))
	}

	return strings.Join(lines, "\n")
}
