package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `Course Title: MCP: Build Rich-Context AI Apps
Course Link: https://example.com/courses/mcp
Course Instructor: Elie Schoppik

Lesson 0: Introduction
Lesson Link: https://example.com/courses/mcp/lesson/0
Welcome to the course. This introduction covers the overall goals. We will build context-aware applications.

Lesson 1: Why MCP
Model context protocol standardizes tool access. Servers expose resources and tools. Clients consume them over a simple transport.
`

func TestParseHeaderAndLessons(t *testing.T) {
	p := NewParser(nil)

	course, chunks, err := p.Parse(sampleDoc)
	require.NoError(t, err)

	assert.Equal(t, "MCP: Build Rich-Context AI Apps", course.Title)
	assert.Equal(t, "https://example.com/courses/mcp", course.Link)
	assert.Equal(t, "Elie Schoppik", course.Instructor)

	require.Len(t, course.Lessons, 2)
	assert.Equal(t, 0, course.Lessons[0].Number)
	assert.Equal(t, "Introduction", course.Lessons[0].Title)
	assert.Equal(t, "https://example.com/courses/mcp/lesson/0", course.Lessons[0].Link)
	assert.Equal(t, 1, course.Lessons[1].Number)
	assert.Equal(t, "Why MCP", course.Lessons[1].Title)
	assert.Empty(t, course.Lessons[1].Link)

	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, "MCP: Build Rich-Context AI Apps", chunk.CourseTitle)
		assert.Equal(t, i, chunk.Index, "chunk indices must be sequential per course")
		require.NotNil(t, chunk.LessonNumber)
	}
	assert.Equal(t, 0, *chunks[0].LessonNumber)
	assert.Contains(t, chunks[0].Text, "Welcome to the course.")
}

func TestParsePreambleChunksHaveNoLesson(t *testing.T) {
	doc := strings.Join([]string{
		"Course Title: Intro",
		"Course Link: https://example.com/intro",
		"Course Instructor: Someone",
		"Preamble text before any lesson marker.",
		"Lesson 1: Start",
		"Lesson one content goes here.",
	}, "\n")

	p := NewParser(nil)
	_, chunks, err := p.Parse(doc)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Nil(t, chunks[0].LessonNumber)
	assert.Contains(t, chunks[0].Text, "Preamble text")
	require.NotNil(t, chunks[1].LessonNumber)
	assert.Equal(t, 1, *chunks[1].LessonNumber)
}

func TestParseMalformedHeader(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"too short", "Course Title: X"},
		{"wrong first line", "Title: X\nCourse Link: y\nCourse Instructor: z\nLesson 1: a\ntext."},
		{"wrong second line", "Course Title: X\nLink: y\nCourse Instructor: z\nLesson 1: a\ntext."},
		{"wrong third line", "Course Title: X\nCourse Link: y\nTeacher: z\nLesson 1: a\ntext."},
		{"empty title", "Course Title:\nCourse Link: y\nCourse Instructor: z\nLesson 1: a\ntext."},
	}

	p := NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Parse(tt.doc)
			assert.ErrorIs(t, err, ErrMalformedHeader)
		})
	}
}

func TestParseNoLessonMarkers(t *testing.T) {
	doc := strings.Join([]string{
		"Course Title: X",
		"Course Link: https://example.com/x",
		"Course Instructor: Y",
		"Just some body text without any lesson markers at all.",
	}, "\n")

	p := NewParser(nil)
	_, _, err := p.Parse(doc)
	assert.ErrorIs(t, err, ErrNoLessons)
}

func TestParseLessonOffsets(t *testing.T) {
	doc := strings.Join([]string{
		"Course Title: X",
		"Course Link: https://example.com/x",
		"Course Instructor: Y",
		"Lesson 1: First",
		"Alpha beta gamma.",
		"Lesson 2: Second",
		"Delta epsilon.",
	}, "\n")

	p := NewParser(nil)
	course, _, err := p.Parse(doc)
	require.NoError(t, err)
	require.Len(t, course.Lessons, 2)

	assert.Equal(t, "Alpha beta gamma.", doc[course.Lessons[0].Offset:course.Lessons[0].Offset+len("Alpha beta gamma.")])
	assert.Equal(t, "Delta epsilon.", doc[course.Lessons[1].Offset:course.Lessons[1].Offset+len("Delta epsilon.")])
}
