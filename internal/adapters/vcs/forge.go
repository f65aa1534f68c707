package vcs

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

const maxForgeErrorBytes = 4 * 1024

// Forge implements core.ForgeClient against the repository host's REST API.
type Forge struct {
	baseURL string
	token   string
	client  *http.Client
}

// ForgeOptions configures the forge client.
type ForgeOptions struct {
	Config config.VCSConfig
	// Client overrides the HTTP client; nil uses a client bound to the
	// configured timeout.
	Client *http.Client
}

// NewForge constructs a forge client.
func NewForge(opts ForgeOptions) (*Forge, error) {
	cfg := opts.Config
	cfg.Sanitize()

	if cfg.ForgeBaseURL == "" {
		return nil, errors.New("forge base URL is required")
	}
	if !strings.HasPrefix(cfg.ForgeBaseURL, "http://") && !strings.HasPrefix(cfg.ForgeBaseURL, "https://") {
		return nil, fmt.Errorf("forge base URL must be http or https, got %q", cfg.ForgeBaseURL)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Forge{
		baseURL: cfg.ForgeBaseURL,
		token:   cfg.Token,
		client:  client,
	}, nil
}

type openPRRequest struct {
	Repo  string `json:"repo"`
	Base  string `json:"base"`
	Head  string `json:"head"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

type openPRResponse struct {
	URL string `json:"url"`
}

// OpenPR opens a pull request from head into base and returns its URL.
func (f *Forge) OpenPR(ctx context.Context, req *core.OpenPRRequest) (string, error) {
	if req == nil {
		return "", errors.New("open PR request is required")
	}

	var decoded openPRResponse
	if err := f.post(ctx, "/pulls", openPRRequest{
		Repo:  req.Repo,
		Base:  req.Base,
		Head:  req.Head,
		Title: req.Title,
		Body:  req.Body,
	}, &decoded); err != nil {
		return "", err
	}
	if decoded.URL == "" {
		return "", apperrors.Infra("forge returned no pull request URL")
	}
	return decoded.URL, nil
}

type mergePRRequest struct {
	PRURL string `json:"pr_url"`
}

type mergePRResponse struct {
	SHA           string `json:"sha"`
	AlreadyMerged bool   `json:"already_merged"`
}

// MergePR merges the pull request behind prURL and returns the merge SHA.
// An already-merged PR is success: the approval path treats repeat merges
// as idempotent.
func (f *Forge) MergePR(ctx context.Context, prURL string) (string, error) {
	if strings.TrimSpace(prURL) == "" {
		return "", errors.New("pull request URL is required")
	}

	var decoded mergePRResponse
	if err := f.post(ctx, "/merge", mergePRRequest{PRURL: prURL}, &decoded); err != nil {
		return "", err
	}
	return decoded.SHA, nil
}

func (f *Forge) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal forge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build forge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInfra, "call forge %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxForgeErrorBytes))
		return apperrors.Infraf("forge %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInfra, "decode forge %s response", path)
	}
	return nil
}

var _ core.ForgeClient = (*Forge)(nil)
