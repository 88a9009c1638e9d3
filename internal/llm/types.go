// Package llm defines the model-client contract used by the orchestrator
// and an Anthropic-backed implementation.
package llm

import (
	"context"
	"encoding/json"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args json.RawMessage
}

// ToolResult is the outcome of executing a requested tool call, fed back
// to the model on the next round.
type ToolResult struct {
	ToolUseID string
	Content   string
	IsError   bool
}

// Turn is one entry in the conversation transcript sent to the model.
// Assistant turns may carry tool calls; user turns may carry tool results.
type Turn struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// ToolSpec describes a tool offered to the model.
type ToolSpec struct {
	Name        string
	Description string
	// Properties is the JSON-schema properties object for the tool input.
	Properties map[string]any
	Required   []string
}

// Request is a single model invocation.
type Request struct {
	System string
	Turns  []Turn
	Tools  []ToolSpec
}

// ResponseKind discriminates the two possible model outcomes.
type ResponseKind int

const (
	// KindFinalAnswer means the model produced a complete textual answer.
	KindFinalAnswer ResponseKind = iota
	// KindToolRequest means the model asked for one or more tool calls
	// before it can answer.
	KindToolRequest
)

// ModelResponse is the parsed outcome of a model invocation. Exactly one
// interpretation applies: a final answer (Text) or a tool request
// (ToolCalls, with Text holding any interleaved reasoning).
type ModelResponse struct {
	Kind      ResponseKind
	Text      string
	ToolCalls []ToolCall
}

// Client is the model collaborator contract.
type Client interface {
	Generate(ctx context.Context, req Request) (*ModelResponse, error)
}
