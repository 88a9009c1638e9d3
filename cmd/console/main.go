// Command console runs an interactive terminal session against the course
// materials assistant, sharing the same pipeline as the HTTP server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/course_materials_chatbot/internal/bootstrap"
	appconfig "github.com/lewisedginton/course_materials_chatbot/internal/config"
	"github.com/lewisedginton/course_materials_chatbot/internal/rag"
	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "course-materials-console",
		Usage: "Ask questions about course materials from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-file",
				Value:   "",
				Usage:   "Path to configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Action: consoleAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func consoleAction(c *cli.Context) error {
	cfg, err := appconfig.Load(c.String("config-file"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Console output belongs to the chat; keep logs quiet unless asked.
	log := logger.NewLogger(logger.Config{
		Level:   logger.ParseLevel(c.String("log-level")),
		Format:  "text",
		Service: cfg.ServiceName,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	system, err := bootstrap.NewSystem(ctx, cfg, nil, log)
	if err != nil {
		return err
	}

	report, err := system.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	fmt.Printf("Loaded %d courses (%d chunks", report.CoursesAdded, report.ChunksAdded)
	if len(report.Skipped) > 0 {
		fmt.Printf(", %d documents skipped", len(report.Skipped))
	}
	fmt.Println(")")

	return repl(ctx, system)
}

func repl(ctx context.Context, system *rag.System) error {
	fmt.Println(`Type a question, or "courses", "new" for a fresh session, "exit" to quit.`)

	sessionID := system.NewSession()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "new":
			sessionID = system.NewSession()
			fmt.Println("Started a new session.")
			continue
		case "courses":
			analytics := system.Analytics()
			fmt.Printf("%d courses indexed:\n", analytics.TotalCourses)
			for _, title := range analytics.CourseTitles {
				fmt.Printf("  - %s\n", title)
			}
			continue
		}

		result, err := system.Query(ctx, sessionID, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Println(result.Answer)
		for _, source := range result.Sources {
			label := source.CourseTitle
			if source.LessonNumber != nil {
				label = fmt.Sprintf("%s, lesson %d", label, *source.LessonNumber)
			}
			if source.Link != "" {
				label = fmt.Sprintf("%s (%s)", label, source.Link)
			}
			fmt.Printf("  [source] %s\n", label)
		}
	}
}
