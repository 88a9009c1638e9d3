package transcript

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeSentences builds n distinct sentences of roughly the given length.
func makeSentences(n, length int) []string {
	sentences := make([]string, 0, n)
	for i := 0; i < n; i++ {
		base := fmt.Sprintf("Sentence number %03d ", i)
		for len(base) < length-1 {
			base += "padding "
		}
		sentences = append(sentences, strings.TrimSpace(base)+".")
	}
	return sentences
}

// deoverlap joins chunks back together, stripping the repeated overlap prefix
// from every chunk after the first.
func deoverlap(chunks []string, overlap int) string {
	var b strings.Builder
	for i, chunk := range chunks {
		if i == 0 {
			b.WriteString(chunk)
			continue
		}
		prefix := tailChars(chunks[i-1], overlap) + " "
		if strings.HasPrefix(chunk, prefix) {
			b.WriteString(" ")
			b.WriteString(strings.TrimPrefix(chunk, prefix))
		} else {
			b.WriteString(" ")
			b.WriteString(chunk)
		}
	}
	return b.String()
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := NewSplitter(800, 100)

	chunks := s.Split("This is one sentence. This is another.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "This is one sentence. This is another.", chunks[0])
}

func TestSplitEmptyText(t *testing.T) {
	s := NewSplitter(800, 100)

	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitNormalizesWhitespace(t *testing.T) {
	s := NewSplitter(800, 100)

	chunks := s.Split("First  sentence\nhere.   Second\t\tsentence.")

	require.Len(t, chunks, 1)
	assert.Equal(t, "First sentence here. Second sentence.", chunks[0])
}

func TestSplitRespectsMaxChars(t *testing.T) {
	s := NewSplitter(800, 100)
	text := strings.Join(makeSentences(40, 120), " ")

	chunks := s.Split(text)

	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 800, "chunk %d exceeds size bound", i)
	}
}

func TestSplitOverlapPrefix(t *testing.T) {
	s := NewSplitter(800, 100)
	text := strings.Join(makeSentences(40, 120), " ")

	chunks := s.Split(text)

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		require.GreaterOrEqual(t, len(prev), 100)
		assert.True(t, strings.HasPrefix(chunks[i], prev[len(prev)-100:]),
			"chunk %d does not start with the trailing 100 chars of its predecessor", i)
	}
}

func TestSplitReconstruction(t *testing.T) {
	s := NewSplitter(800, 100)
	original := strings.Join(makeSentences(40, 120), " ")

	chunks := s.Split(original)

	assert.Equal(t, original, deoverlap(chunks, 100))
}

func TestSplitOversizedSentenceEmittedWhole(t *testing.T) {
	s := NewSplitter(800, 100)
	huge := "This single sentence just keeps going " + strings.Repeat("on and on ", 90) + "until it ends."
	require.Greater(t, len(huge), 800)

	text := "A short lead-in sentence. " + huge + " A short closing sentence."
	chunks := s.Split(text)

	found := false
	for _, chunk := range chunks {
		if chunk == huge {
			found = true
		} else {
			assert.LessOrEqual(t, len(chunk), 800)
		}
	}
	assert.True(t, found, "oversized sentence should be emitted as its own chunk")
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "basic punctuation",
			text: "One. Two! Three?",
			want: []string{"One.", "Two!", "Three?"},
		},
		{
			name: "trailing text without punctuation",
			text: "Finished sentence. unfinished trailer",
			want: []string{"Finished sentence.", "unfinished trailer"},
		},
		{
			name: "punctuation runs",
			text: "Really?! Yes... absolutely.",
			want: []string{"Really?!", "Yes...", "absolutely."},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}
