package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/chomins/autocommit/internal/config"
)

const ollamaHost = "http://localhost:11434"

// ollama talks to a local Ollama server. No credentials are involved.
type ollama struct {
	model  string
	url    string
	client *http.Client
}

func newOllama(cfg config.AIConfig) *ollama {
	return &ollama{
		model:  cfg.Model,
		url:    endpoint(cfg.BaseURL, ollamaHost, "/api/generate"),
		client: &http.Client{},
	}
}

func (o *ollama) Name() string { return "ollama" }

func (o *ollama) Complete(ctx context.Context, req Request) (string, error) {
	body := ollamaRequest{
		Model:  o.model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
	}
	if req.MaxTokens > 0 {
		body.Options.NumPredict = req.MaxTokens
	}
	if req.Temperature > 0 {
		body.Options.Temperature = &req.Temperature
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var reply string
	err = retryWithBackoff(ctx, 3, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", o.url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := o.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if err := statusToErr(httpResp.StatusCode, respBody); err != nil {
			return err
		}

		var result ollamaResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}

		reply = result.Response
		return nil
	})

	return reply, err
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}
