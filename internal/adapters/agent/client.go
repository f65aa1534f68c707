// Package agent provides the HTTP client for the code-generation agent.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
	apperrors "github.com/codevox/codevox-go/internal/errors"
)

const maxErrorBodyBytes = 4 * 1024

// Client calls the agent endpoint that turns a task into a unified diff.
// It implements core.PatchAgent.
type Client struct {
	url    string
	token  string
	client *http.Client
}

// ClientOptions configures the agent client.
type ClientOptions struct {
	Config config.AgentConfig
	// Client overrides the HTTP client; nil uses a client bound to the
	// configured timeout.
	Client *http.Client
}

// NewClient constructs an agent client.
func NewClient(opts ClientOptions) (*Client, error) {
	cfg := opts.Config
	cfg.Sanitize()

	if cfg.URL == "" {
		return nil, errors.New("agent URL is required")
	}
	if !strings.HasPrefix(cfg.URL, "http://") && !strings.HasPrefix(cfg.URL, "https://") {
		return nil, fmt.Errorf("agent URL must be http or https, got %q", cfg.URL)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		url:    cfg.URL,
		token:  cfg.Token,
		client: client,
	}, nil
}

type generateRequest struct {
	JobID      string `json:"job_id"`
	Repo       string `json:"repo"`
	Branch     string `json:"branch"`
	TaskText   string `json:"task_text"`
	StyleGuide string `json:"style_guide,omitempty"`
	WorkDir    string `json:"work_dir,omitempty"`
}

type generateResponse struct {
	Diff   string `json:"diff"`
	TokIn  int64  `json:"tok_in"`
	TokOut int64  `json:"tok_out"`
}

// Generate posts the task to the agent and returns the generated patch.
// Agent-side failures come back as ErrCodeAgent; they are terminal for the
// job and never retried.
func (c *Client) Generate(ctx context.Context, req *core.GeneratePatchRequest) (*core.GeneratedPatch, error) {
	if req == nil {
		return nil, errors.New("generate request is required")
	}

	body, err := json.Marshal(generateRequest{
		JobID:      req.JobID,
		Repo:       req.Repo,
		Branch:     req.Branch,
		TaskText:   req.TaskText,
		StyleGuide: req.StyleGuide,
		WorkDir:    req.WorkDir,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAgent, "call agent")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, apperrors.Agentf("agent returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAgent, "decode agent response")
	}
	if strings.TrimSpace(decoded.Diff) == "" {
		return nil, apperrors.Agent("agent returned an empty diff")
	}

	return &core.GeneratedPatch{
		Diff:   decoded.Diff,
		TokIn:  decoded.TokIn,
		TokOut: decoded.TokOut,
	}, nil
}

var _ core.PatchAgent = (*Client)(nil)
