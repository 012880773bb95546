package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ramckay/voiceloom/internal/model"
	"github.com/ramckay/voiceloom/internal/pipeline"
	"github.com/ramckay/voiceloom/internal/worker"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	minLines    int
	warnBelow   int
	chapterWork int
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <manuscript>",
	Short: "Analyze a manuscript for character voice consistency",
	Long: `Analyze reads a manuscript (plain text, Markdown, or HTML) and:
- Segments it into chapters and paragraphs
- Attributes quoted dialogue to characters, merging aliases
- Builds a voice profile per character across four dimensions
- Flags lines that deviate from each character's own baseline
- Reports a 0-100 consistency score per character

Example:
  voiceloom analyze novel.txt
  voiceloom analyze novel.txt --json report.json --md report.md
  voiceloom analyze novel.txt --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().IntVar(&minLines, "min-lines", 3, "minimum dialogue lines to profile a character")
	analyzeCmd.Flags().IntVar(&warnBelow, "warn-below", 20, "warn when a profile rests on fewer lines than this")
	analyzeCmd.Flags().IntVar(&chapterWork, "workers", 4, "chapter extraction workers")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM voice summaries")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Profiler.MinLines = minLines
	cfg.Profiler.WarnBelowLines = warnBelow
	cfg.Concurrency.ChapterWorkers = chapterWork
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		if err := configureLLM(cfg); err != nil {
			return err
		}
	}

	logger := newLogger()
	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	if llmEnabled {
		p.SetLimiter(worker.NewLimiter(cfg.LLM.RequestsPerSecond, 1))
	}

	result, err := p.AnalyzeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if err := p.Render(result, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// configureLLM fills LLM config from flags and environment
func configureLLM(cfg *model.Config) error {
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.StrictQuotes = true // Always enforce

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
}
