package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/course_materials_chatbot/internal/courseindex"
	"github.com/lewisedginton/course_materials_chatbot/internal/llm"
	"github.com/lewisedginton/course_materials_chatbot/internal/searchtool"
	"github.com/lewisedginton/course_materials_chatbot/internal/sessions"
	"github.com/lewisedginton/course_materials_chatbot/internal/transcript"
	"github.com/lewisedginton/course_materials_chatbot/internal/vectorstore"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

// scriptedClient replays canned model responses and records every request
// it receives.
type scriptedClient struct {
	responses  []*llm.ModelResponse
	requests   []llm.Request
	err        error
	onGenerate func(call int)
}

func (c *scriptedClient) Generate(_ context.Context, req llm.Request) (*llm.ModelResponse, error) {
	call := len(c.requests)
	c.requests = append(c.requests, req)
	if c.onGenerate != nil {
		c.onGenerate(call)
	}
	if c.err != nil {
		return nil, c.err
	}
	if call >= len(c.responses) {
		return nil, fmt.Errorf("unexpected model call %d", call)
	}
	return c.responses[call], nil
}

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
	return logger.NewLogger(logger.Config{Level: logger.DebugLevel, Output: io.Discard})
}

func intPtr(n int) *int { return &n }

func newTestTools(t *testing.T) *searchtool.Manager {
	t.Helper()
	store := vectorstore.NewMemoryStore(&keywordEmbedder{keywords: []string{"mcp", "protocol"}})
	index, err := courseindex.New(courseindex.Config{
		Store:    store,
		MinScore: 0.2,
		Logger:   newTestLogger(),
	})
	require.NoError(t, err)

	course := &transcript.Course{
		Title:      "MCP: Build Rich-Context AI Apps",
		Instructor: "Elie Schoppik",
		Lessons:    []transcript.Lesson{{Number: 1, Title: "Why MCP"}},
	}
	chunks := []transcript.Chunk{
		{CourseTitle: course.Title, LessonNumber: intPtr(1), Index: 0, Text: "MCP is a protocol."},
	}
	require.NoError(t, index.AddCourse(context.Background(), course, chunks))

	search, err := searchtool.NewContentSearchTool(index, 5, newTestLogger())
	require.NoError(t, err)
	m, err := searchtool.NewManager(newTestLogger(), search)
	require.NoError(t, err)
	return m
}

func newTestSessions(t *testing.T) sessions.Manager {
	t.Helper()
	m, err := sessions.NewManager(sessions.Config{Logger: newTestLogger()})
	require.NoError(t, err)
	return m
}

func newOrchestrator(t *testing.T, client llm.Client, tools *searchtool.Manager, sess sessions.Manager) *Orchestrator {
	t.Helper()
	o, err := New(Config{
		Client:       client,
		Tools:        tools,
		Sessions:     sess,
		SystemPrompt: "Answer using course materials.",
		Logger:       newTestLogger(),
	})
	require.NoError(t, err)
	return o
}

func finalAnswer(text string) *llm.ModelResponse {
	return &llm.ModelResponse{Kind: llm.KindFinalAnswer, Text: text}
}

func toolRequest(id, name, args string) *llm.ModelResponse {
	return &llm.ModelResponse{
		Kind:      llm.KindToolRequest,
		ToolCalls: []llm.ToolCall{{ID: id, Name: name, Args: json.RawMessage(args)}},
	}
}

func TestAnswerWithoutTools(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ModelResponse{finalAnswer("General knowledge answer.")}}
	sess := newTestSessions(t)
	o := newOrchestrator(t, client, newTestTools(t), sess)

	result, err := o.Answer(context.Background(), "s1", "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "General knowledge answer.", result.Answer)
	assert.Zero(t, result.ToolRounds)
	assert.Empty(t, result.Sources)

	history := sess.History("s1")
	require.Len(t, history, 1)
	assert.Equal(t, "What is 2+2?", history[0].Query)

	// Tools were offered on the first call.
	require.Len(t, client.requests, 1)
	assert.NotEmpty(t, client.requests[0].Tools)
}

func TestAnswerWithOneToolRound(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ModelResponse{
		toolRequest("toolu_1", "search_course_content", `{"query":"mcp protocol"}`),
		finalAnswer("MCP is a protocol."),
	}}
	sess := newTestSessions(t)
	o := newOrchestrator(t, client, newTestTools(t), sess)

	result, err := o.Answer(context.Background(), "s1", "What is MCP?")
	require.NoError(t, err)
	assert.Equal(t, "MCP is a protocol.", result.Answer)
	assert.Equal(t, 1, result.ToolRounds)
	require.NotEmpty(t, result.Sources)
	assert.Equal(t, "MCP: Build Rich-Context AI Apps", result.Sources[0].CourseTitle)

	// Second call carries the assistant tool call and its result.
	require.Len(t, client.requests, 2)
	turns := client.requests[1].Turns
	require.Len(t, turns, 3)
	assert.Equal(t, llm.RoleAssistant, turns[1].Role)
	require.Len(t, turns[1].ToolCalls, 1)
	assert.Equal(t, llm.RoleUser, turns[2].Role)
	require.Len(t, turns[2].ToolResults, 1)
	assert.Equal(t, "toolu_1", turns[2].ToolResults[0].ToolUseID)
	assert.False(t, turns[2].ToolResults[0].IsError)
	assert.Contains(t, turns[2].ToolResults[0].Content, "MCP is a protocol.")
}

func TestAnswerWithholdsToolsAfterRoundLimit(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ModelResponse{
		toolRequest("toolu_1", "search_course_content", `{"query":"mcp"}`),
		toolRequest("toolu_2", "search_course_content", `{"query":"protocol"}`),
		finalAnswer("Answer after two rounds."),
	}}
	sess := newTestSessions(t)
	o := newOrchestrator(t, client, newTestTools(t), sess)

	result, err := o.Answer(context.Background(), "s1", "Tell me about MCP")
	require.NoError(t, err)
	assert.Equal(t, 2, result.ToolRounds)

	require.Len(t, client.requests, 3)
	assert.NotEmpty(t, client.requests[0].Tools)
	assert.NotEmpty(t, client.requests[1].Tools)
	assert.Empty(t, client.requests[2].Tools, "tools must be withheld on the final call")
}

func TestAnswerTooManyToolRounds(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ModelResponse{
		toolRequest("toolu_1", "search_course_content", `{"query":"mcp"}`),
		toolRequest("toolu_2", "search_course_content", `{"query":"mcp"}`),
		toolRequest("toolu_3", "search_course_content", `{"query":"mcp"}`),
	}}
	sess := newTestSessions(t)
	o := newOrchestrator(t, client, newTestTools(t), sess)

	_, err := o.Answer(context.Background(), "s1", "Tell me about MCP")
	assert.ErrorIs(t, err, ErrTooManyToolRounds)
	assert.Empty(t, sess.History("s1"))
}

func TestAnswerCourseNotFoundFedBackToModel(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ModelResponse{
		toolRequest("toolu_1", "search_course_content", `{"query":"mcp","course_name":"underwater basket weaving"}`),
		finalAnswer("I could not find that course."),
	}}
	sess := newTestSessions(t)
	o := newOrchestrator(t, client, newTestTools(t), sess)

	result, err := o.Answer(context.Background(), "s1", "Search the basket weaving course")
	require.NoError(t, err)
	assert.Equal(t, "I could not find that course.", result.Answer)

	require.Len(t, client.requests, 2)
	toolResults := client.requests[1].Turns[2].ToolResults
	require.Len(t, toolResults, 1)
	assert.True(t, toolResults[0].IsError)
	assert.Contains(t, toolResults[0].Content, "course not found")
}

func TestAnswerUnknownToolIsFatal(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ModelResponse{
		toolRequest("toolu_1", "delete_everything", `{}`),
	}}
	sess := newTestSessions(t)
	o := newOrchestrator(t, client, newTestTools(t), sess)

	_, err := o.Answer(context.Background(), "s1", "hi")
	assert.ErrorIs(t, err, searchtool.ErrUnknownTool)
	assert.Empty(t, sess.History("s1"))
}

func TestAnswerModelErrorIsFatal(t *testing.T) {
	client := &scriptedClient{err: errors.New("rate limited")}
	sess := newTestSessions(t)
	o := newOrchestrator(t, client, newTestTools(t), sess)

	_, err := o.Answer(context.Background(), "s1", "hi")
	assert.ErrorContains(t, err, "rate limited")
	assert.Empty(t, sess.History("s1"))
}

func TestAnswerCancelledContextSkipsHistory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &scriptedClient{
		responses: []*llm.ModelResponse{finalAnswer("too late")},
		onGenerate: func(int) {
			cancel()
		},
	}
	sess := newTestSessions(t)
	o := newOrchestrator(t, client, newTestTools(t), sess)

	_, err := o.Answer(ctx, "s1", "hi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sess.History("s1"))
}

func TestAnswerUsesSessionHistory(t *testing.T) {
	client := &scriptedClient{responses: []*llm.ModelResponse{finalAnswer("second answer")}}
	sess := newTestSessions(t)
	sess.Append("s1", sessions.Exchange{Query: "first question", Answer: "first answer"})
	o := newOrchestrator(t, client, newTestTools(t), sess)

	_, err := o.Answer(context.Background(), "s1", "follow-up")
	require.NoError(t, err)

	turns := client.requests[0].Turns
	require.Len(t, turns, 3)
	assert.Equal(t, "first question", turns[0].Text)
	assert.Equal(t, "first answer", turns[1].Text)
	assert.Equal(t, "follow-up", turns[2].Text)
}

func TestAnswerRejectsEmptyQuery(t *testing.T) {
	o := newOrchestrator(t, &scriptedClient{}, newTestTools(t), newTestSessions(t))
	_, err := o.Answer(context.Background(), "s1", "")
	assert.Error(t, err)
}
