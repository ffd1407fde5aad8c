// Package commitmsg generates commit messages from pending changes.
// The model gets a bounded prompt built from change stats and compressed
// signature lines; when the call fails the generator falls back to a
// deterministic heuristic message so a commit is never blocked on the
// provider.
package commitmsg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chomins/autocommit/internal/compress"
	"github.com/chomins/autocommit/internal/config"
	"github.com/chomins/autocommit/internal/model"
	"github.com/chomins/autocommit/internal/provider"
)

const systemPrompt = "You are an expert at writing git commit messages."

// promptCeiling bounds the signature section of the prompt. Messages do
// not need the full diff; the normal review ceiling is plenty.
const promptCeiling = 400

// Generator builds commit messages.
type Generator struct {
	cfg    *config.Config
	client provider.Client
	log    *slog.Logger
}

// New builds a generator. A nil logger falls back to slog.Default.
func New(cfg *config.Config, client provider.Client, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{cfg: cfg, client: client, log: log}
}

// Generate asks the model for a commit message describing the changes.
// Provider failures degrade to Fallback rather than erroring: the commit
// flow must be able to proceed offline.
func (g *Generator) Generate(ctx context.Context, changes []model.FileChange) string {
	if len(changes) == 0 {
		return ""
	}

	prompt := g.buildPrompt(changes)

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.AI.Timeout())
	defer cancel()

	raw, err := g.client.Complete(callCtx, provider.Request{
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   g.cfg.AI.MaxTokens,
		Temperature: g.cfg.AI.Temperature,
	})
	if err != nil {
		g.log.Warn("commit message generation failed, using fallback", "error", err)
		return Fallback(changes)
	}

	msg := CleanReply(raw)
	if msg == "" {
		return Fallback(changes)
	}
	return msg
}

// buildPrompt assembles the instruction, per-file stats, and as many
// compressed signature sections as fit under the ceiling.
func (g *Generator) buildPrompt(changes []model.FileChange) string {
	var b strings.Builder

	b.WriteString("Write a commit message for the following changes.\n")
	if g.cfg.Commit.Conventional {
		b.WriteString("Use the conventional commit format: type(scope): subject.\n")
	}
	fmt.Fprintf(&b, "The subject line is imperative mood and at most %d characters. ",
		g.cfg.Commit.MaxSubjectLength)
	b.WriteString("Add a short body only when the change needs explanation. " +
		"Reply with the message text only, no quoting or fences.\n\nChanged files:\n")

	for _, fc := range changes {
		fmt.Fprintf(&b, "  %s %s (+%d -%d)\n", fc.Kind, fc.Name(), fc.LinesAdded, fc.LinesRemoved)
	}

	b.WriteString("\nKey changed lines:\n")
	used := compress.EstimateTokens(b.String())
	for _, fc := range changes {
		cc := compress.Compress(fc, model.PriorityLow)
		if cc.Empty() {
			continue
		}
		section := "\n" + fc.Path + ":\n" + compress.ChangeText(cc.Lines)
		cost := compress.EstimateTokens(section)
		if used+cost > promptCeiling {
			break
		}
		b.WriteString(section)
		used += cost
	}

	return b.String()
}

// CleanReply strips the decoration models like to wrap messages in:
// code fences, surrounding quotes, and a leading "commit message" label.
func CleanReply(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[:len(lines)-1]
			}
			s = strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}

	for _, q := range []string{`"`, "'", "`"} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	lower := strings.ToLower(s)
	for _, label := range []string{"commit message:", "message:"} {
		if strings.HasPrefix(lower, label) {
			s = strings.TrimSpace(s[len(label):])
			break
		}
	}

	return s
}

// Fallback builds a deterministic message from the change list alone:
// "Add path" style for a single file, a counted summary otherwise.
func Fallback(changes []model.FileChange) string {
	if len(changes) == 0 {
		return ""
	}

	if len(changes) == 1 {
		fc := changes[0]
		verb := "Update"
		switch fc.Kind {
		case model.KindAdded:
			verb = "Add"
		case model.KindDeleted:
			verb = "Remove"
		case model.KindRenamed:
			verb = "Rename"
		}
		return fmt.Sprintf("%s %s", verb, fc.Name())
	}

	added, removed := 0, 0
	for _, fc := range changes {
		added += fc.LinesAdded
		removed += fc.LinesRemoved
	}
	return fmt.Sprintf("Update %d files (+%d -%d)", len(changes), added, removed)
}
