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

// OutlineTool returns the full lesson list for a fuzzily-matched course.
type OutlineTool struct {
	index *courseindex.Index
	log   logger.Logger
}

// NewOutlineTool creates the course outline tool.
func NewOutlineTool(index *courseindex.Index, log logger.Logger) (*OutlineTool, error) {
	if index == nil {
		return nil, fmt.Errorf("course index is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &OutlineTool{index: index, log: log}, nil
}

// Spec describes the tool to the model.
func (t *OutlineTool) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "get_course_outline",
		Description: "Get the complete outline of a course including its title, link and all lessons",
		Properties: map[string]any{
			"course_name": map[string]any{
				"type":        "string",
				"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
			},
		},
		Required: []string{"course_name"},
	}
}

type outlineArgs struct {
	CourseName string `json:"course_name"`
}

// Execute resolves the course and renders its outline.
func (t *OutlineTool) Execute(ctx context.Context, raw json.RawMessage) (*Outcome, error) {
	var args outlineArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.CourseName) == "" {
		return nil, fmt.Errorf("%w: course_name is required", ErrInvalidToolArgs)
	}

	course, err := t.index.Outline(ctx, args.CourseName)
	if err != nil {
		return nil, err
	}

	t.log.Debug("Outline fetched",
		logger.StringField("course", course.Title),
		logger.IntField("lessons", len(course.Lessons)))

	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", course.Title)
	if course.Link != "" {
		fmt.Fprintf(&b, "Link: %s\n", course.Link)
	}
	fmt.Fprintf(&b, "Lessons (%d):\n", len(course.Lessons))
	for _, lesson := range course.Lessons {
		fmt.Fprintf(&b, "  Lesson %d: %s\n", lesson.Number, lesson.Title)
	}

	return &Outcome{
		Content: b.String(),
		Sources: []Source{{CourseTitle: course.Title, Link: course.Link}},
	}, nil
}
