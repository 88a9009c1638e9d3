// Package rag wires the whole question-answering pipeline together:
// transcript ingestion into the course index, and query handling through
// the tool-calling orchestrator.
package rag

import (
	"context"
	"fmt"

	"github.com/lewisedginton/course_materials_chatbot/internal/courseindex"
	"github.com/lewisedginton/course_materials_chatbot/internal/docstore"
	"github.com/lewisedginton/course_materials_chatbot/internal/llm"
	"github.com/lewisedginton/course_materials_chatbot/internal/orchestrator"
	"github.com/lewisedginton/course_materials_chatbot/internal/searchtool"
	"github.com/lewisedginton/course_materials_chatbot/internal/sessions"
	"github.com/lewisedginton/course_materials_chatbot/internal/transcript"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
	"github.com/lewisedginton/course_materials_chatbot/pkg/metrics"
)

const systemPrompt = `You are an AI assistant specialized in course materials and educational content.

Tool usage:
- Use search_course_content for questions about specific course content or lesson details.
- Use get_course_outline for questions about a course's structure, its lessons, or its link.
- Answer general knowledge questions from your own knowledge without using tools.
- If a search returns no relevant content, say so clearly instead of guessing.

Responses must be brief, accurate and sourced from the retrieved material when tools were used. Do not mention the search process itself.`

// Config assembles a System from its parts. Client, Index, Documents,
// Parser, Sessions and Logger are required; Metrics is optional.
type Config struct {
	Client    llm.Client
	Index     *courseindex.Index
	Documents docstore.Provider
	Parser    *transcript.Parser
	Sessions  sessions.Manager
	Metrics   *metrics.Metrics

	// SearchTopK bounds content search results per tool call.
	SearchTopK int
	// MaxToolRounds bounds tool use per query.
	MaxToolRounds int

	Logger logger.Logger
}

// System is the top-level entry point used by the HTTP server and the
// console client.
type System struct {
	index     *courseindex.Index
	documents docstore.Provider
	parser    *transcript.Parser
	sessions  sessions.Manager
	orch      *orchestrator.Orchestrator
	metrics   *metrics.Metrics
	log       logger.Logger
}

// New builds the retrieval tools and orchestrator around the given parts.
func New(cfg Config) (*System, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("model client is required")
	}
	if cfg.Index == nil {
		return nil, fmt.Errorf("course index is required")
	}
	if cfg.Documents == nil {
		return nil, fmt.Errorf("document provider is required")
	}
	if cfg.Parser == nil {
		return nil, fmt.Errorf("transcript parser is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.SearchTopK <= 0 {
		cfg.SearchTopK = courseindex.DefaultTopK
	}

	search, err := searchtool.NewContentSearchTool(cfg.Index, cfg.SearchTopK, cfg.Logger)
	if err != nil {
		return nil, err
	}
	outline, err := searchtool.NewOutlineTool(cfg.Index, cfg.Logger)
	if err != nil {
		return nil, err
	}
	tools, err := searchtool.NewManager(cfg.Logger, search, outline)
	if err != nil {
		return nil, err
	}

	orch, err := orchestrator.New(orchestrator.Config{
		Client:        cfg.Client,
		Tools:         tools,
		Sessions:      cfg.Sessions,
		SystemPrompt:  systemPrompt,
		MaxToolRounds: cfg.MaxToolRounds,
		Logger:        cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &System{
		index:     cfg.Index,
		documents: cfg.Documents,
		parser:    cfg.Parser,
		sessions:  cfg.Sessions,
		orch:      orch,
		metrics:   cfg.Metrics,
		log:       cfg.Logger,
	}, nil
}

// SkippedDocument records why a document was not ingested.
type SkippedDocument struct {
	Name   string
	Reason string
}

// IngestReport summarizes a bulk ingestion run.
type IngestReport struct {
	CoursesAdded int
	ChunksAdded  int
	Skipped      []SkippedDocument
}

// Ingest loads every transcript from the document provider into the course
// index. A document that cannot be read or parsed is skipped and reported,
// so one malformed transcript does not block the rest. Courses already in
// the index are left untouched.
func (s *System) Ingest(ctx context.Context) (*IngestReport, error) {
	names, err := s.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	existing := make(map[string]bool)
	for _, title := range s.index.CourseTitles() {
		existing[title] = true
	}

	report := &IngestReport{}
	for _, name := range names {
		if !docstore.IsTranscript(name) {
			continue
		}

		data, err := s.documents.Read(ctx, name)
		if err != nil {
			s.log.Warn("Skipping unreadable document",
				logger.StringField("document", name),
				logger.ErrorField(err))
			report.Skipped = append(report.Skipped, SkippedDocument{Name: name, Reason: err.Error()})
			continue
		}

		course, chunks, err := s.parser.Parse(string(data))
		if err != nil {
			s.log.Warn("Skipping malformed transcript",
				logger.StringField("document", name),
				logger.ErrorField(err))
			report.Skipped = append(report.Skipped, SkippedDocument{Name: name, Reason: err.Error()})
			continue
		}

		if existing[course.Title] {
			s.log.Debug("Course already ingested",
				logger.StringField("course", course.Title))
			continue
		}

		if err := s.index.AddCourse(ctx, course, chunks); err != nil {
			s.log.Warn("Failed to index course",
				logger.StringField("course", course.Title),
				logger.ErrorField(err))
			report.Skipped = append(report.Skipped, SkippedDocument{Name: name, Reason: err.Error()})
			continue
		}

		existing[course.Title] = true
		report.CoursesAdded++
		report.ChunksAdded += len(chunks)
	}

	s.log.Info("Ingestion complete",
		logger.IntField("courses_added", report.CoursesAdded),
		logger.IntField("chunks_added", report.ChunksAdded),
		logger.IntField("skipped", len(report.Skipped)))
	return report, nil
}

// Query answers one user question within a session.
func (s *System) Query(ctx context.Context, sessionID, query string) (*orchestrator.Result, error) {
	s.incrementQueryCounter(metrics.QueryMetricTotal)

	result, err := s.orch.Answer(ctx, sessionID, query)
	if err != nil {
		s.incrementQueryCounter(metrics.QueryMetricTotalFailed)
		return nil, err
	}

	s.incrementQueryCounter(metrics.QueryMetricTotalSuccess)
	for i := 0; i < result.ToolRounds; i++ {
		s.incrementQueryCounter(metrics.QueryMetricToolInvocations)
	}
	return result, nil
}

// NewSession mints a fresh session id.
func (s *System) NewSession() string {
	return s.sessions.NewSession()
}

// ClearSession drops a session's history.
func (s *System) ClearSession(sessionID string) {
	s.sessions.Clear(sessionID)
}

// Analytics describes the indexed corpus.
type Analytics struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// Analytics reports how many courses are indexed and their titles.
func (s *System) Analytics() Analytics {
	return Analytics{
		TotalCourses: s.index.CourseCount(),
		CourseTitles: s.index.CourseTitles(),
	}
}

func (s *System) incrementQueryCounter(metric int) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementQueryCounter(metric)
}
