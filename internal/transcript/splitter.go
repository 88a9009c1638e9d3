package transcript

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxChars is the maximum chunk size in characters.
	DefaultMaxChars = 800
	// DefaultOverlap is the number of trailing characters a chunk repeats
	// from its predecessor.
	DefaultOverlap = 100
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	sentenceEnd   = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
)

// Splitter accumulates sentences into chunks of at most MaxChars characters,
// prepending the trailing Overlap characters of the previous chunk to the
// next one. A single sentence longer than MaxChars is emitted as its own
// chunk without further splitting.
type Splitter struct {
	maxChars int
	overlap  int
}

// NewSplitter creates a Splitter. Non-positive values fall back to the
// defaults (800 / 100).
func NewSplitter(maxChars, overlap int) *Splitter {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlap <= 0 {
		overlap = DefaultOverlap
	}
	return &Splitter{
		maxChars: maxChars,
		overlap:  overlap,
	}
}

// Split converts raw text into an ordered sequence of overlapping chunks.
// Whitespace is normalized before splitting, so joining the de-overlapped
// chunks with single spaces reproduces the normalized input exactly.
func (s *Splitter) Split(text string) []string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	carry := "" // trailing overlap of the last emitted chunk
	cur := ""
	hasNew := false // cur contains at least one sentence beyond the carry

	emit := func(chunk string) {
		chunks = append(chunks, chunk)
		carry = tailChars(chunk, s.overlap)
		cur = carry
		hasNew = false
	}

	for _, sentence := range sentences {
		if len(sentence) > s.maxChars {
			// Oversized single sentence: flush what we have and emit the
			// sentence as its own chunk, without an overlap prefix.
			if hasNew {
				emit(cur)
			}
			emit(sentence)
			continue
		}

		joined := sentence
		if cur != "" {
			joined = cur + " " + sentence
		}

		if len(joined) <= s.maxChars {
			cur = joined
			hasNew = true
			continue
		}

		if hasNew {
			emit(cur)
			if cur != "" && len(cur)+1+len(sentence) <= s.maxChars {
				cur = cur + " " + sentence
			} else {
				// Carry plus sentence would still overflow; start clean.
				cur = sentence
			}
			hasNew = true
			continue
		}

		// Only the carried overlap is present and it already overflows with
		// this sentence; drop the carry to respect the size bound.
		cur = sentence
		hasNew = true
	}

	if hasNew {
		chunks = append(chunks, cur)
	}
	return chunks
}

// SplitSentences splits normalized text on sentence-ending punctuation
// followed by whitespace. Text without terminal punctuation yields a single
// sentence.
func SplitSentences(text string) []string {
	normalized := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if normalized == "" {
		return nil
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(normalized, -1) {
		segment := strings.TrimSpace(normalized[last:loc[1]])
		if segment != "" {
			sentences = append(sentences, segment)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(normalized[last:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// tailChars returns the last n characters of text, or all of it when shorter.
func tailChars(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[len(text)-n:]
}
