package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramckay/voiceloom/internal/model"
	"github.com/ramckay/voiceloom/internal/pipeline"
	"github.com/ramckay/voiceloom/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noFooter and the LLM flags are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple manuscripts from a list file in parallel",
	Long: `Batch analyzes multiple manuscripts concurrently:
- Read manuscript paths from the input file (one per line, # for comments)
- Analyze manuscripts in parallel with a configurable worker count
- Write one JSON and one Markdown report per manuscript

Example:
  voiceloom batch manuscripts.txt
  voiceloom batch manuscripts.txt --concurrency 4 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./voiceloom-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM voice summaries")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		if err := configureLLM(cfg); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	logger := newLogger()
	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	if llmEnabled {
		// One shared limiter keeps the whole batch under the provider budget
		p.SetLimiter(worker.NewLimiter(cfg.LLM.RequestsPerSecond, 1))
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	logger.Info("batch starting", "file", file, "workers", concurrency, "output", outputDir)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			logger.Error("analysis failed", "manuscript", result.Path, "err", result.Error)
			continue
		}

		successCount++

		slug := sanitizeFilename(result.Path)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Result.Analysis, jsonPath); err != nil {
			logger.Error("write JSON failed", "manuscript", result.Path, "err", err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Result.Analysis, mdPath); err != nil {
			logger.Error("write markdown failed", "manuscript", result.Path, "err", err)
			continue
		}

		logger.Info("analyzed", "manuscript", result.Path,
			"characters", len(result.Result.Analysis.Characters),
			"flags", len(result.Result.Analysis.Flags))
	}

	logger.Info("batch complete", "total", len(results), "success", successCount, "failures", failureCount)

	return nil
}

// sanitizeFilename derives a report slug from a manuscript path
func sanitizeFilename(path string) string {
	s := filepath.Base(path)
	if ext := filepath.Ext(s); ext != "" {
		s = strings.TrimSuffix(s, ext)
	}

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "manuscript"
	}

	return s
}
