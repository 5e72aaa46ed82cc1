// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	graphseek "github.com/poiesic/graphseek"
	"github.com/poiesic/graphseek/ai"
	"github.com/poiesic/graphseek/ingest"
	"github.com/poiesic/graphseek/mcpserver"
	"github.com/poiesic/graphseek/orchestrate"
)

func main() {
	// Optional .env for hosts and keys; absence is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "graphseek",
		Usage: "Natural-language search agent over a hierarchical block graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import a graph export (nested page/block JSON)",
				ArgsUsage: "<export.json>",
				Action:    importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for batch writes (0 = auto)",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask the graph a question, or start an interactive session",
				ArgsUsage: "[question]",
				Action:    askCommand,
				Flags: append(aiFlags(), dbFlag(),
					&cli.BoolFlag{
						Name:  "private",
						Usage: "Skip cached results and run strictly fresh searches",
					},
					&cli.BoolFlag{
						Name:    "interactive",
						Aliases: []string{"i"},
						Usage:   "Keep the conversation open after the first answer",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Serve the agent as MCP tools over stdio",
				Action: serveCommand,
				Flags:  append(aiFlags(), dbFlag()),
			},
			{
				Name:      "watch",
				Usage:     "Watch a graph export file and re-import it on change",
				ArgsUsage: "<export.json>",
				Action:    watchCommand,
				Flags:     []cli.Flag{dbFlag()},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to the BadgerDB database directory",
		EnvVars: []string{"GRAPHSEEK_DB"},
		Value:   "graphseek.db",
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Usage:   "OpenAI-compatible service host URL",
			EnvVars: []string{"GRAPHSEEK_HOST"},
			Value:   "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:    "interpreter-model",
			Usage:   "Model used for query interpretation and routing",
			EnvVars: []string{"GRAPHSEEK_INTERPRETER_MODEL"},
		},
		&cli.StringFlag{
			Name:    "completion-model",
			Usage:   "Model used for answer synthesis",
			EnvVars: []string{"GRAPHSEEK_COMPLETION_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the model host",
			EnvVars: []string{"GRAPHSEEK_API_KEY"},
		},
	}
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithHost(c.String("host")),
		ai.WithAPIKey(c.String("api-key")),
	}
	if m := c.String("interpreter-model"); m != "" {
		opts = append(opts, ai.WithInterpreterModel(m))
	}
	if m := c.String("completion-model"); m != "" {
		opts = append(opts, ai.WithCompletionModel(m))
	}
	return ai.NewConfig(opts...)
}

func openAgent(c *cli.Context) (*graphseek.Agent, error) {
	cfg := aiConfigFromFlags(c)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return graphseek.NewAgent(c.String("db"), graphseek.WithAIConfig(cfg))
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: graphseek import <export.json>")
	}

	agent, err := graphseek.NewAgent(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer agent.Close()

	var opts []ingest.Option
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingest.WithPoolSize(size))
	}
	importer, err := agent.NewImporter(opts...)
	if err != nil {
		return err
	}
	defer importer.Release()

	pages, blocks, err := importer.ImportFile(c.Context, c.Args().First())
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("imported %d pages and %d blocks\n", pages, blocks)
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	interactive := c.Bool("interactive")
	if question == "" && !interactive {
		return fmt.Errorf("usage: graphseek ask <question> (or --interactive)")
	}

	agent, err := openAgent(c)
	if err != nil {
		return err
	}
	defer agent.Close()

	conv := agent.NewConversation()
	conv.Private = c.Bool("private")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if question != "" {
		if err := runQuestion(ctx, agent, conv, question); err != nil {
			return err
		}
		if !interactive {
			return nil
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := runQuestion(ctx, agent, conv, line); err != nil {
			return err
		}
	}
}

func runQuestion(ctx context.Context, agent *graphseek.Agent, conv *orchestrate.Conversation, question string) error {
	result, err := agent.Orchestrator().RunTurn(ctx, conv, question)
	if err != nil {
		if errors.Is(err, orchestrate.ErrCancelled) {
			fmt.Println("search cancelled")
			return nil
		}
		return err
	}

	fmt.Println(result.Display)
	if result.ContinuationID != "" {
		fmt.Println("(more results available)")
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	agent, err := openAgent(c)
	if err != nil {
		return err
	}
	defer agent.Close()

	importer, err := agent.NewImporter()
	if err != nil {
		return err
	}
	defer importer.Release()

	slog.Info("serving MCP tools over stdio", "db", c.String("db"))
	return mcpserver.New(agent.Orchestrator(), importer).ServeStdio()
}

func watchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: graphseek watch <export.json>")
	}

	agent, err := graphseek.NewAgent(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer agent.Close()

	importer, err := agent.NewImporter()
	if err != nil {
		return err
	}
	defer importer.Release()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	exportPath := c.Args().First()
	if _, _, err := importer.ImportFile(ctx, exportPath); err != nil {
		return fmt.Errorf("initial import failed: %w", err)
	}

	return ingest.Watch(ctx, importer, exportPath, slog.Default(), nil)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
