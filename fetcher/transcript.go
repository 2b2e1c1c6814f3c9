package fetcher

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ewintr.nl/tubetrend/model"
)

const timedTextURL = "https://video.google.com/timedtext"

// TimedText retrieves captions through the YouTube timedtext endpoint. It
// lists the available caption tracks, picks the first preferred language
// that has one, falls back to whatever track exists, and joins the caption
// lines into one transcript.
type TimedText struct {
	client  *http.Client
	baseURL string
}

func NewTimedText() *TimedText {
	return &TimedText{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: timedTextURL,
	}
}

// newTimedTextWithURL points the client at a custom endpoint for testing.
func newTimedTextWithURL(client *http.Client, baseURL string) *TimedText {
	return &TimedText{
		client:  client,
		baseURL: baseURL,
	}
}

type trackList struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []track  `xml:"track"`
}

type track struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
}

type transcript struct {
	XMLName xml.Name `xml:"transcript"`
	Lines   []string `xml:"text"`
}

// FetchTranscript returns the joined caption text for the video, or an empty
// string without an error when the video has no captions at all.
func (t *TimedText) FetchTranscript(ctx context.Context, id model.VideoID, languages []string) (string, error) {
	tracks, err := t.listTracks(ctx, id)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", nil
	}

	return t.fetchTrack(ctx, id, pickTrack(tracks, languages))
}

func (t *TimedText) listTracks(ctx context.Context, id model.VideoID) ([]track, error) {
	params := url.Values{}
	params.Set("type", "list")
	params.Set("v", string(id))

	body, err := t.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list caption tracks: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var list trackList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse caption track list: %w", err)
	}

	return list.Tracks, nil
}

// pickTrack returns the first track matching the language preference order.
// Region variants count as a match for their base code, "en-GB" satisfies a
// preference for "en". Without a match the first available track wins.
func pickTrack(tracks []track, languages []string) track {
	for _, lang := range languages {
		for _, tr := range tracks {
			if tr.LangCode == lang || strings.HasPrefix(tr.LangCode, lang+"-") {
				return tr
			}
		}
	}

	return tracks[0]
}

func (t *TimedText) fetchTrack(ctx context.Context, id model.VideoID, tr track) (string, error) {
	params := url.Values{}
	params.Set("v", string(id))
	params.Set("lang", tr.LangCode)
	if tr.Name != "" {
		params.Set("name", tr.Name)
	}

	body, err := t.get(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to fetch caption track: %w", err)
	}

	var ts transcript
	if err := xml.Unmarshal(body, &ts); err != nil {
		return "", fmt.Errorf("failed to parse caption track: %w", err)
	}

	lines := make([]string, 0, len(ts.Lines))
	for _, line := range ts.Lines {
		// caption text arrives double-escaped
		line = strings.TrimSpace(html.UnescapeString(line))
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, " "), nil
}

func (t *TimedText) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
