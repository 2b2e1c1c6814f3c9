package trends

import (
	"context"
	"fmt"
	"strings"

	"ewintr.nl/tubetrend/model"
	"ewintr.nl/tubetrend/tokens"
	"golang.org/x/exp/slog"
)

// One aggregation call per batch. The combined corpus is truncated as a
// whole, so with a large batch the trailing videos can fall off. That bias
// toward earlier videos is inherited behavior, accepted for now.
const (
	trendInputBudget = 4500
	trendOutputCap   = 2000
)

// NotEnoughVideos is the report for batches that cannot be aggregated. This
// is an expected outcome, not an error.
const NotEnoughVideos = model.TrendReport("At least two videos with a usable digest are needed to identify common trends.")

type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Aggregator reduces the per-video digests of a batch to one trend report.
type Aggregator struct {
	backend Completer
	logger  *slog.Logger
}

func NewAggregator(backend Completer, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		backend: backend,
		logger:  logger,
	}
}

// Aggregate builds the combined corpus out of the usable digests, in input
// order, and asks the backend for the cross-video synthesis. With fewer
// than two usable digests it returns the fixed message without calling the
// backend. A backend failure becomes explanatory report text.
func (a *Aggregator) Aggregate(ctx context.Context, digests []model.Digest) model.TrendReport {
	usable := make([]model.Digest, 0, len(digests))
	for _, digest := range digests {
		if digest.Usable() {
			usable = append(usable, digest)
		}
	}
	if len(usable) < 2 {
		a.logger.Info("skipping trend analysis", slog.Int("usable", len(usable)))
		return NotEnoughVideos
	}

	corpus := tokens.Truncate(combine(usable), trendInputBudget)
	out, err := a.backend.Complete(ctx, fmt.Sprintf(trendPrompt, corpus), trendOutputCap)
	if err != nil {
		a.logger.Error("failed to aggregate trends", err)
		return model.TrendReport(fmt.Sprintf("trend analysis failed: %v", err))
	}

	return model.TrendReport(out)
}

// combine lays out one labeled block per digest. The label carries the
// position and display title the prompt refers back to, digests stay keyed
// by video ID.
func combine(digests []model.Digest) string {
	var b strings.Builder
	for i, digest := range digests {
		fmt.Fprintf(&b, "\n\n=== Video %d: %s ===\n", i+1, digest.Title)
		b.WriteString("Key points:\n")
		b.WriteString(digest.Content)
		b.WriteString("\nAudience:\n")
		b.WriteString(digest.Audience)
	}

	return strings.TrimSpace(b.String())
}
