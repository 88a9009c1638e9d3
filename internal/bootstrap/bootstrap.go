// Package bootstrap assembles the question-answering system from
// configuration. Both the HTTP server and the console client build the
// same stack through it.
package bootstrap

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/lewisedginton/course_materials_chatbot/internal/config"
	"github.com/lewisedginton/course_materials_chatbot/internal/courseindex"
	"github.com/lewisedginton/course_materials_chatbot/internal/docstore"
	"github.com/lewisedginton/course_materials_chatbot/internal/embedding"
	"github.com/lewisedginton/course_materials_chatbot/internal/llm"
	"github.com/lewisedginton/course_materials_chatbot/internal/rag"
	"github.com/lewisedginton/course_materials_chatbot/internal/sessions"
	"github.com/lewisedginton/course_materials_chatbot/internal/transcript"
	"github.com/lewisedginton/course_materials_chatbot/internal/vectorstore"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
	"github.com/lewisedginton/course_materials_chatbot/pkg/metrics"
)

// NewSystem builds the full pipeline: document provider, embeddings,
// vector store, course index, session manager, model client and the RAG
// facade on top.
func NewSystem(ctx context.Context, cfg *appconfig.AppConfig, m *metrics.Metrics, log logger.Logger) (*rag.System, error) {
	documents, err := newDocumentProvider(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create document provider: %w", err)
	}

	embedder, err := embedding.NewClient(embedding.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		MaxRetries: cfg.Embedding.MaxRetries,
		Timeout:    cfg.Embedding.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	index, err := courseindex.New(courseindex.Config{
		Store:    vectorstore.NewMemoryStore(embedder),
		MinScore: cfg.Search.MinScore,
		Logger:   log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create course index: %w", err)
	}

	sessionManager, err := sessions.NewManager(sessions.Config{
		MaxHistory: cfg.Session.MaxHistory,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	client, err := llm.NewAnthropicClient(llm.Config{
		APIKey:     cfg.Anthropic.APIKey,
		Model:      cfg.Anthropic.Model,
		MaxTokens:  int64(cfg.Anthropic.MaxTokens),
		MaxRetries: cfg.Anthropic.MaxRetries,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic client: %w", err)
	}

	return rag.New(rag.Config{
		Client:        client,
		Index:         index,
		Documents:     documents,
		Parser:        transcript.NewParser(transcript.NewSplitter(cfg.Chunking.MaxChars, cfg.Chunking.Overlap)),
		Sessions:      sessionManager,
		Metrics:       m,
		SearchTopK:    cfg.Search.TopK,
		MaxToolRounds: cfg.Search.MaxToolRounds,
		Logger:        log,
	})
}

func newDocumentProvider(ctx context.Context, cfg *appconfig.AppConfig, log logger.Logger) (docstore.Provider, error) {
	docs := cfg.Documents

	switch docs.Backend {
	case "local":
		log.Info("Using local transcript directory", logger.StringField("dir", docs.Dir))
		return docstore.New(ctx, docstore.Config{
			Backend: docstore.BackendLocal,
			Local:   &docstore.LocalConfig{Dir: docs.Dir},
		})

	case "s3":
		log.Info("Using S3 transcript bucket",
			logger.StringField("bucket", docs.S3Bucket),
			logger.StringField("prefix", docs.S3Prefix),
			logger.StringField("region", docs.S3Region))

		options := []func(*awsconfig.LoadOptions) error{}
		if docs.S3Region != "" {
			options = append(options, awsconfig.WithRegion(docs.S3Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		return docstore.New(ctx, docstore.Config{
			Backend: docstore.BackendS3,
			S3: &docstore.S3Config{
				Bucket: docs.S3Bucket,
				Prefix: docs.S3Prefix,
				Client: s3.NewFromConfig(awsCfg),
			},
		})

	case "git":
		log.Info("Using git transcript repository",
			logger.StringField("path", docs.GitPath),
			logger.StringField("url", docs.GitURL))
		return docstore.New(ctx, docstore.Config{
			Backend: docstore.BackendGit,
			Git: &docstore.GitConfig{
				Path:   docs.GitPath,
				URL:    docs.GitURL,
				Subdir: docs.GitSubdir,
			},
		})

	default:
		return nil, fmt.Errorf("unsupported document backend: %s", docs.Backend)
	}
}
