package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chomins/autocommit/internal/model"
	"github.com/chomins/autocommit/internal/review"
	"github.com/chomins/autocommit/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review [commit-range]",
	Short: "Review pending changes with the AI model",
	Long: `Review changes without committing. By default the whole working tree
is reviewed against HEAD; --staged narrows to the index, a commit range
reviews history, and "-" reads a diff from stdin.

Examples:
  autocommit review                      # working tree vs HEAD
  autocommit review --staged             # index only
  autocommit review main...HEAD          # branch vs main
  git diff | autocommit review -         # pipe any diff`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringP("level", "l", "", "review depth: quick, normal, detailed")
	reviewCmd.Flags().Bool("staged", false, "review only staged changes")
	reviewCmd.Flags().StringSlice("files", nil, "restrict the review to these paths")
	reviewCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
	reviewCmd.Flags().BoolP("interactive", "i", false, "browse the result in the TUI")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	staged, _ := cmd.Flags().GetBool("staged")
	changes, err := collectChanges(args, staged)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Println("No changes to review.")
		return nil
	}

	rawLevel, _ := cmd.Flags().GetString("level")
	level, err := model.ParseLevel(rawLevel)
	if err != nil {
		return err
	}
	files, _ := cmd.Flags().GetStringSlice("files")

	eng := review.New(cfg, client, log)
	req := eng.Assemble(changes, review.Options{Level: level, Files: files})
	res, err := eng.Execute(cmd.Context(), req)
	if err != nil {
		return err
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		return tui.Run(res, req)
	}

	format, _ := cmd.Flags().GetString("format")
	return printResult(res, format)
}

func printResult(res *model.ReviewResult, format string) error {
	switch format {
	case "json":
		return printJSON(res)
	case "markdown":
		return printMarkdown(res)
	default:
		return printText(res)
	}
}

func printText(res *model.ReviewResult) error {
	fmt.Printf("Review (%s): %s\n", res.Level, res.Summary())
	if res.OmittedFiles > 0 {
		fmt.Printf("%d file(s) omitted to stay within the token budget\n", res.OmittedFiles)
	}
	if len(res.Findings) == 0 {
		return nil
	}

	fmt.Println()
	for file, findings := range res.ByFile() {
		if file == "" {
			file = "(general)"
		}
		fmt.Printf("  %s\n", file)
		for _, f := range findings {
			loc := ""
			if f.Location.Line > 0 {
				loc = fmt.Sprintf(":%d", f.Location.Line)
			}
			fmt.Printf("    [%s]%s %s\n", f.Category, loc, f.Message)
		}
		fmt.Println()
	}
	return nil
}

type jsonFinding struct {
	Category string `json:"category"`
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

type jsonResult struct {
	Level        string        `json:"level"`
	Status       string        `json:"status"`
	Summary      string        `json:"summary"`
	TokensUsed   int           `json:"tokens_used"`
	OmittedFiles int           `json:"omitted_files,omitempty"`
	Findings     []jsonFinding `json:"findings"`
}

func printJSON(res *model.ReviewResult) error {
	out := jsonResult{
		Level:        res.Level.String(),
		Status:       res.Status.String(),
		Summary:      res.Summary(),
		TokensUsed:   res.TokensUsed,
		OmittedFiles: res.OmittedFiles,
	}
	for _, f := range res.Findings {
		out.Findings = append(out.Findings, jsonFinding{
			Category: f.Category.String(),
			Path:     f.Location.Path,
			Line:     f.Location.Line,
			Message:  f.Message,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printMarkdown(res *model.ReviewResult) error {
	fmt.Printf("## Review Report\n\n")
	fmt.Printf("**Level:** %s | **Status:** %s | **Tokens:** ~%d\n\n",
		res.Level, res.Status, res.TokensUsed)

	if len(res.Findings) == 0 {
		fmt.Println("No issues found.")
		return nil
	}

	fmt.Println("| Category | Location | Message |")
	fmt.Println("|----------|----------|---------|")
	for _, f := range res.Findings {
		loc := f.Location.String()
		if loc == "" {
			loc = "—"
		}
		fmt.Printf("| %s | `%s` | %s |\n", f.Category, loc, f.Message)
	}
	return nil
}
