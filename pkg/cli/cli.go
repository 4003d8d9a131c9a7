// Package cli implements the notevault command line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/notevault/notevault-go/pkg/core"
	"github.com/notevault/notevault-go/pkg/transcribe"
	openaiTranscribe "github.com/notevault/notevault-go/pkg/transcribe/openai"
)

// Error is a CLI failure with a process exit code.
type Error struct {
	Code    int
	Message string
}

// Run executes the notevault CLI.
func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "notevault",
		Usage: "Personal note-taking assistant with semantic memory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			recordCommand(),
			queryCommand(),
			autoCommand(),
			logCommand(),
			reindexCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{Code: 1, Message: err.Error()}
	}
	return nil
}

func setup(c *cli.Command) (*core.Assistant, *slog.Logger, error) {
	logger := newLogger(c.String("log-level"))
	slog.SetDefault(logger)

	cfg, err := core.LoadConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}

	assistant, err := core.NewWithLogger(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return assistant, logger, nil
}

// resolveInput returns the text to process: either the positional
// argument or, with --audio, the transcription of the given file.
func resolveInput(ctx context.Context, c *cli.Command, language string) (string, error) {
	if audioPath := c.String("audio"); audioPath != "" {
		cfg, err := core.LoadConfigFromEnv()
		if err != nil {
			return "", err
		}

		var tr transcribe.Transcriber
		tr, err = openaiTranscribe.NewClient(&openaiTranscribe.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
		})
		if err != nil {
			return "", err
		}
		defer func() { _ = tr.Close() }()

		return tr.Transcribe(ctx, audioPath, language)
	}

	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return "", fmt.Errorf("no input text given")
	}
	return text, nil
}

func languageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "language",
		Aliases: []string{"l"},
		Usage:   "Input language code",
		Value:   "en",
	}
}

func audioFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "audio",
		Usage: "Transcribe this audio file instead of reading text arguments",
	}
}

func recordCommand() *cli.Command {
	return &cli.Command{
		Name:      "record",
		Usage:     "Save a new note",
		ArgsUsage: "<text>",
		Flags:     []cli.Flag{languageFlag(), audioFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			assistant, _, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = assistant.Close() }()

			language := c.String("language")
			text, err := resolveInput(ctx, c, language)
			if err != nil {
				return err
			}

			source := "text"
			if c.String("audio") != "" {
				source = "voice"
			}

			record, err := assistant.Record(ctx, text,
				core.WithSource(source),
				core.WithLanguage(language),
			)
			if err != nil {
				return fmt.Errorf("could not save memory: %w", err)
			}

			fmt.Println("Saved memory:")
			fmt.Printf("- summary: %s\n", record.Summary)
			fmt.Printf("- category: %s\n", record.Category)
			return nil
		},
	}
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Query saved memories",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			audioFlag(),
			&cli.IntFlag{
				Name:    "top-k",
				Aliases: []string{"k"},
				Usage:   "Maximum number of memories to retrieve",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			assistant, _, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = assistant.Close() }()

			text, err := resolveInput(ctx, c, "en")
			if err != nil {
				return err
			}

			answer, err := assistant.Query(ctx, text, core.WithTopK(int(c.Int("top-k"))))
			if err != nil {
				return err
			}

			fmt.Println(answer)
			return nil
		},
	}
}

func autoCommand() *cli.Command {
	return &cli.Command{
		Name:      "auto",
		Usage:     "Let the assistant decide whether the input is a note or a query",
		ArgsUsage: "<text>",
		Flags:     []cli.Flag{languageFlag(), audioFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			assistant, _, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = assistant.Close() }()

			language := c.String("language")
			text, err := resolveInput(ctx, c, language)
			if err != nil {
				return err
			}

			source := "text"
			if c.String("audio") != "" {
				source = "voice"
			}

			resp, err := assistant.Auto(ctx, text,
				core.WithSource(source),
				core.WithLanguage(language),
			)
			if err != nil {
				return err
			}

			if resp.Record != nil {
				fmt.Println("Saved memory:")
				fmt.Printf("- summary: %s\n", resp.Record.Summary)
				fmt.Printf("- category: %s\n", resp.Record.Category)
			} else {
				fmt.Println(resp.Answer)
			}
			return nil
		},
	}
}

func logCommand() *cli.Command {
	return &cli.Command{
		Name:  "log",
		Usage: "List all saved memories in creation order",
		Action: func(ctx context.Context, c *cli.Command) error {
			assistant, _, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = assistant.Close() }()

			records, err := assistant.ReadLog()
			if err != nil {
				return err
			}

			for _, record := range records {
				indexed := " "
				if record.EmbeddingID != "" {
					indexed = "*"
				}
				fmt.Printf("%s [%s] %s: %s\n",
					indexed,
					record.Timestamp.Format("2006-01-02 15:04"),
					record.Category,
					record.Summary,
				)
			}
			fmt.Printf("%d memories (* = indexed)\n", len(records))
			return nil
		},
	}
}

func reindexCommand() *cli.Command {
	return &cli.Command{
		Name:  "reindex",
		Usage: "Reinsert unindexed memories into the semantic index",
		Action: func(ctx context.Context, c *cli.Command) error {
			assistant, _, err := setup(c)
			if err != nil {
				return err
			}
			defer func() { _ = assistant.Close() }()

			count, err := assistant.Reindex(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Reindexed %d memories\n", count)
			return nil
		},
	}
}
