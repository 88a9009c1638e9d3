// Package orchestrator drives the model/tool conversation loop for a
// single query: call the model, execute any requested tools, feed the
// results back, and stop on a final answer or the round limit.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/lewisedginton/course_materials_chatbot/internal/courseindex"
	"github.com/lewisedginton/course_materials_chatbot/internal/llm"
	"github.com/lewisedginton/course_materials_chatbot/internal/searchtool"
	"github.com/lewisedginton/course_materials_chatbot/internal/sessions"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

// DefaultMaxToolRounds bounds how many times the model may request tools
// for one query before it must answer.
const DefaultMaxToolRounds = 2

// ErrTooManyToolRounds is returned when the model keeps requesting tools
// past the round limit.
var ErrTooManyToolRounds = errors.New("too many tool rounds")

// Config configures an Orchestrator.
type Config struct {
	Client        llm.Client
	Tools         *searchtool.Manager
	Sessions      sessions.Manager
	SystemPrompt  string
	MaxToolRounds int
	Logger        logger.Logger
}

// Result is a successfully answered query.
type Result struct {
	Answer     string
	Sources    []searchtool.Source
	ToolRounds int
}

// Orchestrator owns the per-query conversation loop. Session history is
// recorded only after a query completes successfully, so failed requests
// leave no partial state behind.
type Orchestrator struct {
	client        llm.Client
	tools         *searchtool.Manager
	sessions      sessions.Manager
	systemPrompt  string
	maxToolRounds int
	log           logger.Logger
}

// New creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("model client is required")
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("tool manager is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = DefaultMaxToolRounds
	}

	return &Orchestrator{
		client:        cfg.Client,
		tools:         cfg.Tools,
		sessions:      cfg.Sessions,
		systemPrompt:  cfg.SystemPrompt,
		maxToolRounds: cfg.MaxToolRounds,
		log:           cfg.Logger,
	}, nil
}

// Answer runs the conversation loop for one user query.
func (o *Orchestrator) Answer(ctx context.Context, sessionID, query string) (*Result, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	turns := o.historyTurns(sessionID)
	turns = append(turns, llm.Turn{Role: llm.RoleUser, Text: query})

	var sources []searchtool.Source
	rounds := 0

	for {
		request := llm.Request{
			System: o.systemPrompt,
			Turns:  turns,
		}
		// Withhold tools once the round budget is spent so the model
		// has to produce an answer from what it already retrieved.
		if rounds < o.maxToolRounds {
			request.Tools = o.tools.Specs()
		}

		response, err := o.client.Generate(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("model call failed: %w", err)
		}

		if response.Kind == llm.KindFinalAnswer {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			o.sessions.Append(sessionID, sessions.Exchange{Query: query, Answer: response.Text})
			o.log.Info("Query answered",
				logger.StringField("session_id", sessionID),
				logger.IntField("tool_rounds", rounds))
			return &Result{Answer: response.Text, Sources: sources, ToolRounds: rounds}, nil
		}

		if rounds >= o.maxToolRounds {
			return nil, fmt.Errorf("%w: model requested tools after %d rounds", ErrTooManyToolRounds, rounds)
		}
		rounds++

		results, roundSources, err := o.executeToolCalls(ctx, response.ToolCalls)
		if err != nil {
			return nil, err
		}
		sources = append(sources, roundSources...)

		turns = append(turns,
			llm.Turn{Role: llm.RoleAssistant, Text: response.Text, ToolCalls: response.ToolCalls},
			llm.Turn{Role: llm.RoleUser, ToolResults: results},
		)
	}
}

// executeToolCalls runs every call the model requested. A failed course
// lookup is surfaced to the model as an error tool result; anything else
// that fails aborts the request.
func (o *Orchestrator) executeToolCalls(ctx context.Context, calls []llm.ToolCall) ([]llm.ToolResult, []searchtool.Source, error) {
	results := make([]llm.ToolResult, 0, len(calls))
	var sources []searchtool.Source

	for _, call := range calls {
		outcome, err := o.tools.Execute(ctx, call.Name, call.Args)
		if err != nil {
			if errors.Is(err, courseindex.ErrCourseNotFound) {
				o.log.Warn("Tool call failed to resolve course",
					logger.StringField("tool", call.Name),
					logger.ErrorField(err))
				results = append(results, llm.ToolResult{
					ToolUseID: call.ID,
					Content:   err.Error(),
					IsError:   true,
				})
				continue
			}
			return nil, nil, fmt.Errorf("tool %s failed: %w", call.Name, err)
		}

		results = append(results, llm.ToolResult{
			ToolUseID: call.ID,
			Content:   outcome.Content,
		})
		sources = append(sources, outcome.Sources...)
	}
	return results, sources, nil
}

// historyTurns expands retained exchanges into alternating user/assistant
// turns.
func (o *Orchestrator) historyTurns(sessionID string) []llm.Turn {
	history := o.sessions.History(sessionID)
	turns := make([]llm.Turn, 0, len(history)*2+1)
	for _, exchange := range history {
		turns = append(turns,
			llm.Turn{Role: llm.RoleUser, Text: exchange.Query},
			llm.Turn{Role: llm.RoleAssistant, Text: exchange.Answer},
		)
	}
	return turns
}
