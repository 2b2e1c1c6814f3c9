package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"ewintr.nl/tubetrend/fetcher"
	"ewintr.nl/tubetrend/llm"
	"ewintr.nl/tubetrend/pipeline"
	"ewintr.nl/tubetrend/resolve"
	"ewintr.nl/tubetrend/summarizer"
	"ewintr.nl/tubetrend/trends"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var defaultLanguages = []string{"fr", "en", "es", "de", "it", "pt"}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr))
	_ = godotenv.Load()

	var (
		commentLimit = flag.Int("comments", 50, "maximum number of comments per video (1-100), 0 disables comment analysis")
		noTrends     = flag.Bool("no-trends", false, "skip the cross-video trend analysis")
		languages    = flag.String("languages", strings.Join(defaultLanguages, ","), "transcript language preference order, comma separated")
	)
	flag.Parse()

	var refs []string
	for _, arg := range flag.Args() {
		refs = append(refs, resolve.Split(arg)...)
	}
	if len(refs) == 0 {
		logger.Error("no video references given", errors.New("usage: tubetrend [flags] <url or video id> ..."))
		os.Exit(1)
	}

	youtubeKey := getParam("YOUTUBE_API_KEY", "")
	if youtubeKey == "" {
		logger.Error("missing configuration", errors.New("YOUTUBE_API_KEY is not set"))
		os.Exit(1)
	}
	openAIKey := getParam("OPENAI_API_KEY", "")
	if openAIKey == "" {
		logger.Error("missing configuration", errors.New("OPENAI_API_KEY is not set"))
		os.Exit(1)
	}

	ctx := context.Background()
	ytClient, err := youtube.NewService(ctx, option.WithAPIKey(youtubeKey))
	if err != nil {
		logger.Error("unable to create youtube service", err)
		os.Exit(1)
	}
	yt := fetcher.NewYoutube(ytClient)
	backend := llm.NewOpenAI(openAIKey, getParam("OPENAI_MODEL", ""))

	fetch := fetcher.NewFetcher(yt, yt, fetcher.NewTimedText(), strings.Split(*languages, ","), logger)
	p := pipeline.New(fetch,
		summarizer.NewSummarizer(backend, logger),
		trends.NewAggregator(backend, logger),
		pipeline.Options{
			CommentLimit:   *commentLimit,
			EnableComments: *commentLimit > 0,
			EnableTrends:   !*noTrends,
		}, logger)

	render(p.Run(ctx, refs))
}

func render(result pipeline.Result) {
	for _, ref := range result.Skipped {
		fmt.Printf("skipped unresolvable reference: %s\n", ref)
	}
	for _, digest := range result.Digests {
		title := fmt.Sprintf("%s (%s)", digest.Title, digest.VideoID)
		fmt.Printf("\n%s\n%s\n\nKey points:\n%s\n\nAudience:\n%s\n",
			title, strings.Repeat("=", len(title)), digest.Content, digest.Audience)
	}
	if result.Trends != "" {
		const header = "Trends across videos"
		fmt.Printf("\n%s\n%s\n\n%s\n", header, strings.Repeat("=", len(header)), result.Trends)
	}
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}

	return def
}
