package resolve

import (
	"regexp"
	"strings"

	"ewintr.nl/tubetrend/model"
)

// The supported reference shapes. A YouTube video ID is always exactly 11
// characters from this alphabet.
var (
	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?(?:[^\s&]*&)*v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
	}
	bareID     = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	separators = regexp.MustCompile(`[,\n]+`)
)

// VideoID extracts the video identifier from a raw user-supplied reference.
// It accepts long-form watch URLs, short links, embed and shorts URLs, and
// an already-resolved bare ID. Anything else yields ok == false, never an
// error, so a caller can skip the reference and keep the batch going.
func VideoID(ref string) (model.VideoID, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	for _, pattern := range urlPatterns {
		if m := pattern.FindStringSubmatch(ref); m != nil {
			return model.VideoID(m[1]), true
		}
	}
	if bareID.MatchString(ref) {
		return model.VideoID(ref), true
	}

	return "", false
}

// Split breaks a raw input blob into individual references. References are
// separated by commas or newlines, blanks are dropped.
func Split(text string) []string {
	parts := separators.Split(text, -1)
	refs := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			refs = append(refs, part)
		}
	}

	return refs
}
