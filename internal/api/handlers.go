package api

import (
	"net/http"

	"github.com/chomins/autocommit/internal/compress"
	"github.com/chomins/autocommit/internal/diff"
	"github.com/chomins/autocommit/internal/model"
	"github.com/chomins/autocommit/internal/provider"
	"github.com/chomins/autocommit/internal/review"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Review ---

type reviewRequest struct {
	Diff  string   `json:"diff"`
	Level string   `json:"level,omitempty"`
	Files []string `json:"files,omitempty"`
}

type reviewResponse struct {
	Level        string        `json:"level"`
	Status       string        `json:"status"`
	Summary      string        `json:"summary"`
	TokensUsed   int           `json:"tokens_used"`
	OmittedFiles int           `json:"omitted_files"`
	Findings     []findingJSON `json:"findings"`
}

type findingJSON struct {
	Category string `json:"category"`
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	changes, opts, ok := s.parseReviewInput(w, req.Diff, req.Level, req.Files)
	if !ok {
		return
	}

	res, err := s.engine.Run(r.Context(), changes, opts)
	if err != nil {
		s.writeError(w, providerStatus(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, resultJSON(res))
}

// parseReviewInput validates the shared diff/level/files request fields.
// On failure the error response has already been written.
func (s *Server) parseReviewInput(w http.ResponseWriter, rawDiff, rawLevel string, files []string) ([]model.FileChange, review.Options, bool) {
	if rawDiff == "" {
		s.writeError(w, http.StatusBadRequest, "diff is required")
		return nil, review.Options{}, false
	}

	level, err := model.ParseLevel(rawLevel)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, review.Options{}, false
	}

	changes, err := diff.Parse(rawDiff)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "parsing diff: "+err.Error())
		return nil, review.Options{}, false
	}

	return changes, review.Options{Level: level, Files: files}, true
}

func resultJSON(res *model.ReviewResult) reviewResponse {
	resp := reviewResponse{
		Level:        res.Level.String(),
		Status:       res.Status.String(),
		Summary:      res.Summary(),
		TokensUsed:   res.TokensUsed,
		OmittedFiles: res.OmittedFiles,
	}
	for _, f := range res.Findings {
		resp.Findings = append(resp.Findings, findingJSON{
			Category: f.Category.String(),
			Path:     f.Location.Path,
			Line:     f.Location.Line,
			Message:  f.Message,
		})
	}
	return resp
}

// providerStatus maps engine errors onto HTTP statuses so callers can
// tell fatal configuration problems from retryable ones.
func providerStatus(err error) int {
	switch {
	case provider.IsRateLimit(err):
		return http.StatusTooManyRequests
	case provider.IsTimeout(err):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// --- Compress ---

type compressRequest struct {
	Diff  string   `json:"diff"`
	Level string   `json:"level,omitempty"`
	Files []string `json:"files,omitempty"`
}

type compressResponse struct {
	Level        string               `json:"level"`
	TokenBudget  int                  `json:"token_budget"`
	PromptTokens int                  `json:"prompt_tokens"`
	OmittedFiles int                  `json:"omitted_files"`
	Files        []compressedFileJSON `json:"files"`
}

type compressedFileJSON struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Priority string `json:"priority"`
	Lines    int    `json:"lines"`
	Tokens   int    `json:"tokens"`
}

// handleCompress runs the pipeline up to prompt packing and returns the
// preview without calling the model.
func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	var req compressRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	changes, opts, ok := s.parseReviewInput(w, req.Diff, req.Level, req.Files)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, requestJSON(s.engine.Assemble(changes, opts)))
}

func requestJSON(req model.ReviewRequest) compressResponse {
	resp := compressResponse{
		Level:        req.Level.String(),
		TokenBudget:  req.TokenBudget,
		PromptTokens: compress.EstimateTokens(req.Prompt),
		OmittedFiles: req.OmittedFiles,
	}
	for _, cc := range req.Included {
		resp.Files = append(resp.Files, compressedFileJSON{
			Path:     cc.Path,
			Kind:     cc.Kind.String(),
			Priority: cc.Priority.String(),
			Lines:    len(cc.Lines),
			Tokens:   cc.Tokens,
		})
	}
	return resp
}

// --- Message ---

type messageRequest struct {
	Diff string `json:"diff"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if req.Diff == "" {
		s.writeError(w, http.StatusBadRequest, "diff is required")
		return
	}

	changes, err := diff.Parse(req.Diff)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "parsing diff: "+err.Error())
		return
	}

	msg := s.msgs.Generate(r.Context(), changes)
	s.writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}
