// Package review runs the code review pipeline: classify changed files,
// pick a depth, compress the diff, pack a token-bounded prompt, call the
// model and parse its reply.
package review

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/chomins/autocommit/internal/compress"
	"github.com/chomins/autocommit/internal/config"
	"github.com/chomins/autocommit/internal/model"
	"github.com/chomins/autocommit/internal/provider"
	"github.com/chomins/autocommit/internal/reply"
)

const systemPrompt = "You are an expert code reviewer. Provide concise, actionable feedback."

// Engine runs reviews end to end.
type Engine struct {
	cfg    *config.Config
	client provider.Client
	log    *slog.Logger
}

// New builds an engine. The client may be nil when only Assemble is
// used; Run needs one.
func New(cfg *config.Config, client provider.Client, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{cfg: cfg, client: client, log: log}
}

// Options narrow a single run.
type Options struct {
	// Level forces the review depth, bypassing auto adjustment.
	Level model.ReviewLevel
	// Files restricts the review to these paths when non-empty.
	Files []string
}

// Run reviews the given changes. A changeset with nothing left after
// exclusion comes back clean without a model call.
func (e *Engine) Run(ctx context.Context, changes []model.FileChange, opts Options) (*model.ReviewResult, error) {
	return e.Execute(ctx, e.Assemble(changes, opts))
}

// Execute sends an assembled request to the model and parses the reply.
// An empty request comes back clean without a model call. The call runs
// under the configured timeout; once a reply arrives, parsing always
// finishes even if the caller's context has since been canceled.
func (e *Engine) Execute(ctx context.Context, req model.ReviewRequest) (*model.ReviewResult, error) {
	if len(req.Included) == 0 {
		e.log.Debug("nothing to review", "level", req.Level.String())
		return &model.ReviewResult{Level: req.Level, Status: model.StatusClean}, nil
	}

	promptTokens := compress.EstimateTokens(req.Prompt)
	e.log.Debug("assembled review prompt",
		"level", req.Level.String(),
		"files", len(req.Included),
		"omitted", req.OmittedFiles,
		"tokens", promptTokens,
		"budget", req.TokenBudget)

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.AI.Timeout())
	defer cancel()

	raw, err := e.client.Complete(callCtx, provider.Request{
		System:      systemPrompt,
		Prompt:      req.Prompt,
		MaxTokens:   req.TokenBudget,
		Temperature: e.cfg.Review.Temperature,
	})
	if err != nil {
		if provider.IsTimeout(err) {
			return nil, fmt.Errorf("review timed out after %s: %w", e.cfg.AI.Timeout(), err)
		}
		return nil, fmt.Errorf("review call failed: %w", err)
	}

	res := reply.Parse(raw, req.Level)
	res.TokensUsed = promptTokens
	res.OmittedFiles = req.OmittedFiles

	e.log.Debug("review parsed",
		"status", res.Status.String(),
		"findings", len(res.Findings))
	return res, nil
}

// Assemble runs everything up to but not including the model call:
// classification, level selection, per-file compression and prompt
// packing. The API's compress endpoint and the TUI preview use it
// directly.
func (e *Engine) Assemble(changes []model.FileChange, opts Options) model.ReviewRequest {
	classified := compress.ClassifyChanges(changes, e.cfg.Review.ExcludePatterns, e.cfg.Review.HighPriorityKeywords)
	if len(opts.Files) > 0 {
		classified = filterPaths(classified, opts.Files)
	}

	kept := make([]compress.Classified, 0, len(classified))
	aggregate := 0
	for _, c := range classified {
		if c.Priority == model.PriorityExcluded {
			continue
		}
		kept = append(kept, c)
		aggregate += c.Change.TotalLines()
	}

	level := SelectLevel(opts.Level, aggregate, e.cfg.Review.AutoAdjust, e.cfg.DefaultLevel())
	kept = focusForLevel(kept, level, e.cfg.Review.IncludeLowPriority)
	compressed := e.compressAll(kept)

	return BuildRequest(compressed, level, e.cfg.MaxTokensFor(level))
}

// compressAll compresses every surviving change, in parallel when the
// config asks for it. Results land at their input index so ordering is
// unaffected by scheduling.
func (e *Engine) compressAll(kept []compress.Classified) []model.CompressedChange {
	out := make([]model.CompressedChange, len(kept))

	if e.cfg.Review.Parallel > 1 && len(kept) > 1 {
		var g errgroup.Group
		g.SetLimit(e.cfg.Review.Parallel)
		for i, c := range kept {
			g.Go(func() error {
				out[i] = compress.Compress(c.Change, c.Priority)
				return nil
			})
		}
		_ = g.Wait()
		return out
	}

	for i, c := range kept {
		out[i] = compress.Compress(c.Change, c.Priority)
	}
	return out
}

// focusForLevel drops low-priority files for quick runs and when the
// config excludes them. A changeset with no high-priority files is
// still reviewed in full.
func focusForLevel(kept []compress.Classified, level model.ReviewLevel, includeLow bool) []compress.Classified {
	if level != model.LevelQuick && includeLow {
		return kept
	}
	high := make([]compress.Classified, 0, len(kept))
	for _, c := range kept {
		if c.Priority == model.PriorityHigh {
			high = append(high, c)
		}
	}
	if len(high) == 0 {
		return kept
	}
	return high
}

func filterPaths(classified []compress.Classified, files []string) []compress.Classified {
	want := make(map[string]bool, len(files))
	for _, f := range files {
		want[f] = true
	}
	out := make([]compress.Classified, 0, len(classified))
	for _, c := range classified {
		if want[c.Change.Path] {
			out = append(out, c)
		}
	}
	return out
}
