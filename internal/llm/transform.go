package llm

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// transformTurns converts the conversation transcript to Anthropic message
// params. Tool results come first within a user turn so they pair with the
// preceding assistant tool calls.
func transformTurns(turns []Turn) ([]anthropic.MessageParam, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("no turns provided")
	}

	messages := make([]anthropic.MessageParam, 0, len(turns))
	for _, turn := range turns {
		message, err := transformTurn(turn)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *message)
	}
	return messages, nil
}

func transformTurn(turn Turn) (*anthropic.MessageParam, error) {
	var role anthropic.MessageParamRole
	switch turn.Role {
	case RoleUser:
		role = anthropic.MessageParamRoleUser
	case RoleAssistant:
		role = anthropic.MessageParamRoleAssistant
	default:
		return nil, fmt.Errorf("unknown turn role %q", turn.Role)
	}

	var blocks []anthropic.ContentBlockParamUnion

	for _, result := range turn.ToolResults {
		blocks = append(blocks, anthropic.ContentBlockParamUnion{
			OfToolResult: &anthropic.ToolResultBlockParam{
				ToolUseID: result.ToolUseID,
				IsError:   anthropic.Bool(result.IsError),
				Content: []anthropic.ToolResultBlockParamContentUnion{
					{OfText: &anthropic.TextBlockParam{Text: result.Content}},
				},
			},
		})
	}

	if turn.Text != "" {
		blocks = append(blocks, anthropic.ContentBlockParamUnion{
			OfText: &anthropic.TextBlockParam{Text: turn.Text},
		})
	}

	for _, call := range turn.ToolCalls {
		var input map[string]any
		if len(call.Args) > 0 {
			if err := json.Unmarshal(call.Args, &input); err != nil {
				return nil, fmt.Errorf("failed to unmarshal args for tool call %s: %w", call.Name, err)
			}
		}
		blocks = append(blocks, anthropic.ContentBlockParamUnion{
			OfToolUse: &anthropic.ToolUseBlockParam{
				ID:    call.ID,
				Name:  call.Name,
				Input: input,
			},
		})
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("turn has no content")
	}

	return &anthropic.MessageParam{Role: role, Content: blocks}, nil
}

// transformTools converts tool specs to the Anthropic tool format.
func transformTools(tools []ToolSpec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Type:       "object",
					Properties: tool.Properties,
					Required:   tool.Required,
				},
			},
		})
	}
	return out
}
