package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mikeboe/deep-research/pkg/config"
	"github.com/mikeboe/deep-research/pkg/research"
	"github.com/spf13/cobra"
)

var (
	question string
	modeFlag string
	profile  research.Profile
)

func main() {
	handler := slog.NewTextHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(handler))

	// A missing .env is fine as long as the variables are set.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "deep-research",
		Short: "A terminal-based multi-perspective research assistant",
		Long:  `deep-research splits a question into sub-questions, searches them in parallel and writes a cited report with section summaries and conflict notes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("question") {
				reader := bufio.NewReader(os.Stdin)
				question = prompt(reader, "Enter your research question: ")
				if profile.Name == "" {
					profile.Name = prompt(reader, "Your name (optional): ")
				}
				if profile.City == "" {
					profile.City = prompt(reader, "Your city (optional): ")
				}
				if profile.Interest == "" {
					profile.Interest = prompt(reader, "Your interest (optional): ")
				}
			}
			if strings.TrimSpace(question) == "" {
				return fmt.Errorf("question cannot be empty")
			}

			var mode research.Mode
			if modeFlag != "" {
				m, ok := research.ParseMode(modeFlag)
				if !ok {
					return fmt.Errorf("unknown mode %q", modeFlag)
				}
				mode = m
			}

			ctx := context.Background()
			cfg := config.Load()
			providers, err := research.NewProviders(ctx, cfg)
			if err != nil {
				return err
			}
			if providers.Generator == nil {
				slog.Warn("No generator credential set, section summaries will use excerpts")
			}

			engine := research.NewEngine(cfg, providers, slog.Default())
			engine.Synthesizer.Summarizer.OnChunk = func(section, chunk string) {
				fmt.Print(chunk)
			}

			report, err := engine.Run(ctx, research.Request{Question: question, Profile: profile, Mode: mode})
			if err != nil {
				return fmt.Errorf("research failed: %w", err)
			}

			fmt.Println()
			fmt.Println(report.Text)
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&question, "question", "q", "", "The research question")
	rootCmd.Flags().StringVar(&modeFlag, "mode", "", "Override mode detection: default, deeper, summarise or just_links")
	rootCmd.Flags().StringVar(&profile.Name, "name", "", "Your name")
	rootCmd.Flags().StringVar(&profile.City, "city", "", "Your city, used for local perspectives")
	rootCmd.Flags().StringVar(&profile.Interest, "interest", "", "A topic to tie findings to")
	rootCmd.Flags().StringVar(&profile.Style, "style", "", "Summary style, e.g. concise or bullet-points")

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
