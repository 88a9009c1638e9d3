package courseindex

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/course_materials_chatbot/internal/transcript"
	"github.com/lewisedginton/course_materials_chatbot/internal/vectorstore"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

// keywordEmbedder maps each known keyword to its own axis. Deterministic
// stand-in for the real embedding backend.
type keywordEmbedder struct {
	keywords []string
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, len(e.keywords))
		lower := strings.ToLower(text)
		for j, kw := range e.keywords {
			v[j] = float64(strings.Count(lower, kw))
		}
		out[i] = v
	}
	return out, nil
}

func newTestLogger() logger.Logger {
	return logger.NewLogger(logger.Config{
		Level:  logger.DebugLevel,
		Output: io.Discard,
	})
}

func newTestIndex(t *testing.T, keywords ...string) *Index {
	t.Helper()
	if len(keywords) == 0 {
		keywords = []string{"mcp", "context", "chroma", "retrieval", "embeddings", "server"}
	}
	store := vectorstore.NewMemoryStore(&keywordEmbedder{keywords: keywords})
	index, err := New(Config{
		Store:    store,
		MinScore: 0.2,
		TopK:     5,
		Logger:   newTestLogger(),
	})
	require.NoError(t, err)
	return index
}

func intPtr(n int) *int { return &n }

func addSampleCourses(t *testing.T, index *Index) {
	t.Helper()
	ctx := context.Background()

	mcp := &transcript.Course{
		Title:      "MCP: Build Rich-Context AI Apps",
		Link:       "https://example.com/mcp",
		Instructor: "Elie Schoppik",
		Lessons: []transcript.Lesson{
			{Number: 1, Title: "Why MCP", Link: "https://example.com/mcp/1"},
			{Number: 2, Title: "MCP Servers", Link: "https://example.com/mcp/2"},
		},
	}
	mcpChunks := []transcript.Chunk{
		{CourseTitle: mcp.Title, LessonNumber: intPtr(1), Index: 0, Text: "MCP gives models rich context through a shared protocol."},
		{CourseTitle: mcp.Title, LessonNumber: intPtr(2), Index: 1, Text: "An MCP server exposes tools and resources to clients."},
	}
	require.NoError(t, index.AddCourse(ctx, mcp, mcpChunks))

	chroma := &transcript.Course{
		Title:      "Advanced Retrieval for AI with Chroma",
		Link:       "https://example.com/chroma",
		Instructor: "Anton Troynikov",
		Lessons: []transcript.Lesson{
			{Number: 1, Title: "Overview of embeddings retrieval"},
		},
	}
	chromaChunks := []transcript.Chunk{
		{CourseTitle: chroma.Title, LessonNumber: intPtr(1), Index: 0, Text: "Chroma stores embeddings for retrieval workloads."},
	}
	require.NoError(t, index.AddCourse(ctx, chroma, chromaChunks))
}

func TestResolveCourseFuzzyMatch(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)

	title, err := index.ResolveCourse(context.Background(), "MCP cours")
	require.NoError(t, err)
	assert.Equal(t, "MCP: Build Rich-Context AI Apps", title)
}

func TestResolveCourseNotFound(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)

	_, err := index.ResolveCourse(context.Background(), "nonexistent topic xyz")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestResolveCourseTieBreaksLexicographically(t *testing.T) {
	index := newTestIndex(t, "shared")
	ctx := context.Background()

	// Insert the lexicographically larger title first; both catalog keys
	// embed identically.
	for _, title := range []string{"Zeta shared topics", "Alpha shared topics"} {
		course := &transcript.Course{
			Title:      title,
			Instructor: "Someone",
			Lessons:    []transcript.Lesson{{Number: 1, Title: "Only lesson"}},
		}
		require.NoError(t, index.AddCourse(ctx, course, nil))
	}

	title, err := index.ResolveCourse(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "Alpha shared topics", title)
}

func TestSearchContentUnfiltered(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)

	results, err := index.SearchContent(context.Background(), "mcp server", "", nil, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "MCP: Build Rich-Context AI Apps", results[0].CourseTitle)
	require.NotNil(t, results[0].LessonNumber)
	assert.Equal(t, 2, *results[0].LessonNumber)
	assert.Equal(t, "https://example.com/mcp/2", results[0].LessonLink)
}

func TestSearchContentWithCourseFilter(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)

	results, err := index.SearchContent(context.Background(), "retrieval", "chroma retrieval", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Advanced Retrieval for AI with Chroma", results[0].CourseTitle)
}

func TestSearchContentWithLessonFilter(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)

	results, err := index.SearchContent(context.Background(), "mcp", "MCP cours", intPtr(1), 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, *results[0].LessonNumber)
}

func TestSearchContentCourseNotFound(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)

	_, err := index.SearchContent(context.Background(), "anything", "nonexistent topic xyz", nil, 5)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestSearchContentZeroResultsIsNotAnError(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)

	results, err := index.SearchContent(context.Background(), "mcp", "MCP cours", intPtr(99), 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchContentTieBreaksByChunkIndex(t *testing.T) {
	index := newTestIndex(t, "topic")
	ctx := context.Background()

	course := &transcript.Course{
		Title:      "Tied",
		Instructor: "Someone",
		Lessons:    []transcript.Lesson{{Number: 1, Title: "One"}},
	}
	chunks := []transcript.Chunk{
		{CourseTitle: "Tied", LessonNumber: intPtr(1), Index: 1, Text: "second topic chunk"},
		{CourseTitle: "Tied", LessonNumber: intPtr(1), Index: 0, Text: "first topic chunk"},
	}
	require.NoError(t, index.AddCourse(ctx, course, chunks))

	results, err := index.SearchContent(ctx, "topic", "", nil, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].ChunkIndex)
	assert.Equal(t, 1, results[1].ChunkIndex)
}

func TestAddCourseIsIdempotentByTitle(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)
	ctx := context.Background()

	replacement := &transcript.Course{
		Title:      "MCP: Build Rich-Context AI Apps",
		Instructor: "Elie Schoppik",
		Lessons:    []transcript.Lesson{{Number: 1, Title: "Why MCP"}},
	}
	require.NoError(t, index.AddCourse(ctx, replacement, []transcript.Chunk{
		{CourseTitle: replacement.Title, LessonNumber: intPtr(1), Index: 0, Text: "Rewritten MCP content."},
	}))

	assert.Equal(t, 2, index.CourseCount())

	results, err := index.SearchContent(ctx, "mcp", "MCP cours", nil, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Rewritten MCP content.", results[0].Text)
}

func TestOutline(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)

	course, err := index.Outline(context.Background(), "MCP cours")
	require.NoError(t, err)
	assert.Equal(t, "MCP: Build Rich-Context AI Apps", course.Title)
	assert.Len(t, course.Lessons, 2)

	_, err = index.Outline(context.Background(), "nonexistent topic xyz")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseTitlesSorted(t *testing.T) {
	index := newTestIndex(t)
	addSampleCourses(t, index)

	assert.Equal(t, []string{
		"Advanced Retrieval for AI with Chroma",
		"MCP: Build Rich-Context AI Apps",
	}, index.CourseTitles())
	assert.Equal(t, 2, index.CourseCount())
}
