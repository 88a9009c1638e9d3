package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lewisedginton/course_materials_chatbot/internal/bootstrap"
	appconfig "github.com/lewisedginton/course_materials_chatbot/internal/config"
	"github.com/lewisedginton/course_materials_chatbot/internal/server"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
	"github.com/lewisedginton/course_materials_chatbot/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := appconfig.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(logger.Config{
		Level:   cfg.GetLogLevel(),
		Format:  cfg.Logging.Format,
		Service: cfg.ServiceName,
	})
	cfg.LogConfig(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.NewMetrics(cfg.Metrics.EnableHTTPMetrics, cfg.Metrics.EnableQueryMetrics, log)

	system, err := bootstrap.NewSystem(ctx, cfg, &m, log)
	if err != nil {
		return err
	}

	report, err := system.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("startup ingestion failed: %w", err)
	}
	log.Info("Course materials loaded",
		logger.IntField("courses", report.CoursesAdded),
		logger.IntField("chunks", report.ChunksAdded),
		logger.IntField("skipped", len(report.Skipped)))

	srv, err := server.New(cfg, system, &m, log)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
