package llm

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformTurnsEmpty(t *testing.T) {
	_, err := transformTurns(nil)
	assert.Error(t, err)
}

func TestTransformTurnsTextOnly(t *testing.T) {
	messages, err := transformTurns([]Turn{
		{Role: RoleUser, Text: "What does lesson 2 cover?"},
		{Role: RoleAssistant, Text: "Lesson 2 covers tool definitions."},
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, anthropic.MessageParamRoleUser, messages[0].Role)
	require.Len(t, messages[0].Content, 1)
	assert.Equal(t, "What does lesson 2 cover?", messages[0].Content[0].OfText.Text)

	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[1].Role)
}

func TestTransformTurnWithToolCall(t *testing.T) {
	args := json.RawMessage(`{"query":"mcp servers"}`)
	message, err := transformTurn(Turn{
		Role:      RoleAssistant,
		Text:      "Let me look that up.",
		ToolCalls: []ToolCall{{ID: "toolu_1", Name: "search_course_content", Args: args}},
	})
	require.NoError(t, err)
	require.Len(t, message.Content, 2)

	toolUse := message.Content[1].OfToolUse
	require.NotNil(t, toolUse)
	assert.Equal(t, "toolu_1", toolUse.ID)
	assert.Equal(t, "search_course_content", toolUse.Name)
	assert.Equal(t, map[string]any{"query": "mcp servers"}, toolUse.Input)
}

func TestTransformTurnWithToolResult(t *testing.T) {
	message, err := transformTurn(Turn{
		Role: RoleUser,
		ToolResults: []ToolResult{
			{ToolUseID: "toolu_1", Content: "No relevant content found.", IsError: false},
		},
	})
	require.NoError(t, err)
	require.Len(t, message.Content, 1)

	result := message.Content[0].OfToolResult
	require.NotNil(t, result)
	assert.Equal(t, "toolu_1", result.ToolUseID)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "No relevant content found.", result.Content[0].OfText.Text)
}

func TestTransformTurnRejectsUnknownRole(t *testing.T) {
	_, err := transformTurn(Turn{Role: "system", Text: "nope"})
	assert.Error(t, err)
}

func TestTransformTurnRejectsEmptyContent(t *testing.T) {
	_, err := transformTurn(Turn{Role: RoleUser})
	assert.Error(t, err)
}

func TestTransformTurnRejectsBadToolArgs(t *testing.T) {
	_, err := transformTurn(Turn{
		Role:      RoleAssistant,
		ToolCalls: []ToolCall{{ID: "x", Name: "search", Args: json.RawMessage(`not json`)}},
	})
	assert.Error(t, err)
}

func TestTransformTools(t *testing.T) {
	tools := transformTools([]ToolSpec{
		{
			Name:        "search_course_content",
			Description: "Search course materials",
			Properties: map[string]any{
				"query": map[string]any{"type": "string"},
			},
			Required: []string{"query"},
		},
	})
	require.Len(t, tools, 1)

	tool := tools[0].OfTool
	require.NotNil(t, tool)
	assert.Equal(t, "search_course_content", tool.Name)
	assert.Equal(t, []string{"query"}, tool.InputSchema.Required)
}
