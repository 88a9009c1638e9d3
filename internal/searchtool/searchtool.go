// Package searchtool implements the retrieval tools offered to the model:
// semantic content search and course outlines.
package searchtool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lewisedginton/course_materials_chatbot/internal/llm"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

var (
	// ErrUnknownTool is returned when the model requests a tool that was
	// never offered to it.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidToolArgs is returned when tool arguments fail validation.
	ErrInvalidToolArgs = errors.New("invalid tool arguments")
)

// Source records where a piece of retrieved content came from, for display
// alongside the answer.
type Source struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	Link         string `json:"link,omitempty"`
}

// Outcome is the result of a successful tool execution.
type Outcome struct {
	Content string
	Sources []Source
}

// Tool is a single capability offered to the model.
type Tool interface {
	Spec() llm.ToolSpec
	Execute(ctx context.Context, args json.RawMessage) (*Outcome, error)
}

// Manager dispatches tool calls by name.
type Manager struct {
	tools map[string]Tool
	order []string
	log   logger.Logger
}

// NewManager creates a tool manager holding the given tools.
func NewManager(log logger.Logger, tools ...Tool) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	m := &Manager{
		tools: make(map[string]Tool, len(tools)),
		log:   log,
	}
	for _, tool := range tools {
		name := tool.Spec().Name
		if _, exists := m.tools[name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", name)
		}
		m.tools[name] = tool
		m.order = append(m.order, name)
	}
	return m, nil
}

// Specs returns the tool specs in registration order.
func (m *Manager) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(m.order))
	for _, name := range m.order {
		specs = append(specs, m.tools[name].Spec())
	}
	return specs
}

// Execute runs the named tool. Unknown names return ErrUnknownTool.
func (m *Manager) Execute(ctx context.Context, name string, args json.RawMessage) (*Outcome, error) {
	tool, ok := m.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	m.log.Debug("Executing tool", logger.StringField("tool", name))
	return tool.Execute(ctx, args)
}

// decodeArgs unmarshals tool arguments strictly: unknown fields are
// rejected so schema drift surfaces as an error instead of being ignored.
func decodeArgs(raw json.RawMessage, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToolArgs, err)
	}
	return nil
}

// filterDescription renders the active search filters for user-facing
// "nothing found" messages.
func filterDescription(courseName string, lessonNumber *int) string {
	var b strings.Builder
	if courseName != "" {
		fmt.Fprintf(&b, " in course '%s'", courseName)
	}
	if lessonNumber != nil {
		fmt.Fprintf(&b, " in lesson %d", *lessonNumber)
	}
	return b.String()
}
