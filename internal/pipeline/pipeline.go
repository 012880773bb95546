package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ramckay/voiceloom/internal/engine"
	"github.com/ramckay/voiceloom/internal/llm"
	"github.com/ramckay/voiceloom/internal/model"
)

// Pipeline orchestrates the complete analysis of a manuscript file:
// load, analyze, optionally summarize, render.
type Pipeline struct {
	engine     *engine.Engine
	loader     *Loader
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	logger     *log.Logger
	config     *model.Config
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *log.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("LLM provider unavailable, continuing without summaries", "err", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		engine:     eng,
		loader:     NewLoader(cfg.Loader.MaxFileBytes),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		logger:     logger,
		config:     cfg,
	}, nil
}

// Engine exposes the underlying engine for session operations
func (p *Pipeline) Engine() *engine.Engine {
	return p.engine
}

// SetLimiter installs a rate limiter on the optional summarizer
func (p *Pipeline) SetLimiter(l llm.Limiter) {
	if p.summarizer != nil {
		p.summarizer.SetLimiter(l)
	}
}

// Result is the outcome of analyzing one manuscript
type Result struct {
	Analysis *model.Analysis
	LLM      *llm.Summary // Nil unless a provider is configured
}

// AnalyzeFile loads a manuscript from disk and runs the full analysis
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*Result, error) {
	text, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	p.logger.Debug("loaded manuscript", "path", path, "bytes", len(text))

	analysis, err := p.engine.Analyze(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	p.logger.Info("analysis complete",
		"characters", len(analysis.Characters),
		"spans", analysis.Stats.DialogueSpans,
		"unresolved", analysis.Stats.UnresolvedSpans,
		"flags", len(analysis.Flags))

	result := &Result{Analysis: analysis}

	// The narrative layer runs after scoring and never feeds back into it
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, analysis)
		if err != nil {
			p.logger.Warn("LLM summary failed", "err", err)
		} else {
			result.LLM = summary
		}
	}

	return result, nil
}

// Render writes the result to the requested outputs and prints a summary
func (p *Pipeline) Render(result *Result, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result.Analysis, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if p.config.Output.Verbose {
			p.logger.Info("wrote JSON", "path", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(result.Analysis, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if p.config.Output.Verbose {
			p.logger.Info("wrote markdown", "path", mdPath)
		}
	}

	if result.LLM != nil && result.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(result.LLM), llmPath); err != nil {
			p.logger.Warn("failed to write LLM summary", "err", err)
		} else if p.config.Output.Verbose {
			p.logger.Info("wrote LLM summary", "path", llmPath)
		}
		for _, w := range result.LLM.Warnings {
			p.logger.Warn("summary quote check", "warning", w)
		}
	}

	p.renderer.RenderSummary(result.Analysis)
	return nil
}
