package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/gebo/internal"
	pkgconfig "github.com/starford/gebo/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	// The config file is optional unless the user pointed at one explicitly.
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("vault") {
		cfg.Vault.Path = cmd.String("vault")
	}
	if cmd.IsSet("llm") {
		if cmd.Bool("llm") {
			cfg.LLM.Mode = internal.ContentModeOpenAI
		} else {
			cfg.LLM.Mode = internal.ContentModeTemplate
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	params := internal.GenerateParams{
		MainTopic: cmd.String("topic"),
		NoteCount: int(cmd.Int("notes")),
		Seed:      int64(cmd.Int("seed")),
	}
	if cmd.IsSet("density") {
		params.Density = cmd.Float("density")
		params.DensitySet = true
	}

	if err := internal.RunGenerate(ctx, internal.WithConfig(cfg), internal.WithGenerateParams(params)); err != nil {
		return fmt.Errorf("generate error: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunServe(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("serve error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp error: %w", err)
	}
	return nil
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "vault",
			Usage:   "Path to the vault directory (overrides config)",
			Sources: cli.EnvVars("GEBO_VAULT_PATH"),
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "gebo",
		Usage: "Generate interconnected Markdown note vaults with reciprocal wikilinks and hub notes",
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Generate a vault for a topic",
				Action: runGenerate,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:     "topic",
						Aliases:  []string{"t"},
						Usage:    "Main topic of the vault",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "notes",
						Aliases: []string{"n"},
						Usage:   "Target number of notes (overrides config)",
					},
					&cli.FloatFlag{
						Name:    "density",
						Aliases: []string{"d"},
						Usage:   "Connection density between 0.0 and 1.0 (overrides config)",
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Random seed for a reproducible link graph",
					},
					&cli.BoolFlag{
						Name:  "llm",
						Usage: "Generate note content with the configured OpenAI-compatible API",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Serve the vault over a read-only HTTP API",
				Action: runServe,
				Flags:  commonFlags(),
			},
			{
				Name:   "mcp",
				Usage:  "Expose vault generation and exploration tools over MCP stdio",
				Action: runMCP,
				Flags:  commonFlags(),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
