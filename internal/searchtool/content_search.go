package searchtool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lewisedginton/course_materials_chatbot/internal/courseindex"
	"github.com/lewisedginton/course_materials_chatbot/internal/llm"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

// ContentSearchTool performs semantic search over course transcripts with
// optional course and lesson filters.
type ContentSearchTool struct {
	index *courseindex.Index
	topK  int
	log   logger.Logger
}

// NewContentSearchTool creates the content search tool.
func NewContentSearchTool(index *courseindex.Index, topK int, log logger.Logger) (*ContentSearchTool, error) {
	if index == nil {
		return nil, fmt.Errorf("course index is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if topK <= 0 {
		topK = courseindex.DefaultTopK
	}

	return &ContentSearchTool{index: index, topK: topK, log: log}, nil
}

// Spec describes the tool to the model.
func (t *ContentSearchTool) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		Properties: map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "What to search for in the course content",
			},
			"course_name": map[string]any{
				"type":        "string",
				"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
			},
			"lesson_number": map[string]any{
				"type":        "integer",
				"description": "Specific lesson number to search within (e.g. 1, 2, 3)",
			},
		},
		Required: []string{"query"},
	}
}

type contentSearchArgs struct {
	Query        string `json:"query"`
	CourseName   string `json:"course_name"`
	LessonNumber *int   `json:"lesson_number"`
}

// Execute runs the search. An unresolvable course name propagates
// courseindex.ErrCourseNotFound; zero matches is a successful outcome with
// an explanatory message.
func (t *ContentSearchTool) Execute(ctx context.Context, raw json.RawMessage) (*Outcome, error) {
	var args contentSearchArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidToolArgs)
	}

	results, err := t.index.SearchContent(ctx, args.Query, args.CourseName, args.LessonNumber, t.topK)
	if err != nil {
		return nil, err
	}

	t.log.Debug("Content search executed",
		logger.StringField("query", args.Query),
		logger.IntField("results", len(results)))

	if len(results) == 0 {
		return &Outcome{
			Content: fmt.Sprintf("No relevant content found%s.", filterDescription(args.CourseName, args.LessonNumber)),
		}, nil
	}

	return formatResults(results), nil
}

// formatResults renders matched chunks with course/lesson provenance
// headers and collects one source per chunk.
func formatResults(results []courseindex.ContentResult) *Outcome {
	var sections []string
	var sources []Source

	for _, result := range results {
		header := fmt.Sprintf("[%s", result.CourseTitle)
		if result.LessonNumber != nil {
			header += fmt.Sprintf(" - Lesson %d", *result.LessonNumber)
		}
		header += "]"
		sections = append(sections, header+"\n"+result.Text)

		sources = append(sources, Source{
			CourseTitle:  result.CourseTitle,
			LessonNumber: result.LessonNumber,
			Link:         result.LessonLink,
		})
	}

	return &Outcome{
		Content: strings.Join(sections, "\n\n"),
		Sources: sources,
	}
}
