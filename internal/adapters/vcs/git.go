// Package vcs provides the git and forge adapters used by the executor
// runner: per-job working copies, patch application, pushes, and the pull
// request API.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
)

// Git implements core.VCSClient with go-git working copies. Patch
// application shells out to git apply: go-git has no unified-diff support
// and the binary handles whitespace and rename edge cases correctly.
type Git struct {
	config  config.VCSConfig
	workDir string
	logger  *slog.Logger
}

// GitOptions configures the git adapter.
type GitOptions struct {
	Config config.VCSConfig
	// WorkDir is the parent directory for per-job working copies.
	// Empty means the system temp directory.
	WorkDir string
	Logger  *slog.Logger
}

// NewGit constructs a git adapter.
func NewGit(opts GitOptions) *Git {
	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Git{
		config:  cfg,
		workDir: opts.WorkDir,
		logger:  logger.With("component", "vcs"),
	}
}

// Clone checks out repo at branch into a fresh private directory.
func (g *Git) Clone(ctx context.Context, repo, branch string) (*core.Workspace, error) {
	dir, err := os.MkdirTemp(g.workDir, "codevox-job-*")
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}

	_, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           repo,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Auth:          g.auth(repo),
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("clone %s: %w", repo, err)
	}

	return &core.Workspace{Dir: dir, Branch: branch}, nil
}

// Apply applies a unified diff to the workspace and reports change stats.
func (g *Git) Apply(ctx context.Context, ws *core.Workspace, diff string) (*core.ChangeStats, error) {
	if strings.TrimSpace(diff) == "" {
		return nil, errors.New("empty diff")
	}

	cmd := exec.CommandContext(ctx, "git", "apply", "--whitespace=nowarn", "-")
	cmd.Dir = ws.Dir
	cmd.Stdin = strings.NewReader(diff)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("git apply: %s", msg)
	}

	return diffStats(diff), nil
}

// CommitAndPush commits the working tree and pushes to the workspace
// branch. A non-fast-forward rejection surfaces as core.ErrPushConflict.
func (g *Git) CommitAndPush(ctx context.Context, ws *core.Workspace, message string) (string, error) {
	sha, err := g.commit(ws, message)
	if err != nil {
		return "", err
	}

	if err := g.push(ctx, ws, gitconfig.RefSpec(
		fmt.Sprintf("refs/heads/%s:refs/heads/%s", ws.Branch, ws.Branch),
	)); err != nil {
		return "", err
	}

	return sha, nil
}

// PushBranch pushes the committed change to a new remote branch. The local
// HEAD must already carry the commit (CommitAndPush handles committing on
// the auto-merge path; on the PR path the commit happens here).
func (g *Git) PushBranch(ctx context.Context, ws *core.Workspace, branch string) error {
	repo, err := git.PlainOpen(ws.Dir)
	if err != nil {
		return fmt.Errorf("open working copy: %w", err)
	}

	// Commit any uncommitted changes first; the auto-merge fallback arrives
	// here with the tree already committed.
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if !status.IsClean() {
		if _, err := g.commit(ws, "codevox generated change"); err != nil {
			return err
		}
	}

	return g.push(ctx, ws, gitconfig.RefSpec(
		fmt.Sprintf("refs/heads/%s:refs/heads/%s", ws.Branch, branch),
	))
}

// Cleanup removes the workspace directory.
func (g *Git) Cleanup(ws *core.Workspace) {
	if ws == nil || ws.Dir == "" {
		return
	}
	if err := os.RemoveAll(ws.Dir); err != nil {
		g.logger.Warn("failed to remove working copy", "dir", ws.Dir, "error", err)
	}
}

func (g *Git) commit(ws *core.Workspace, message string) (string, error) {
	repo, err := git.PlainOpen(ws.Dir)
	if err != nil {
		return "", fmt.Errorf("open working copy: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("open worktree: %w", err)
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("stage changes: %w", err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  g.config.AuthorName,
			Email: g.config.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return hash.String(), nil
}

func (g *Git) push(ctx context.Context, ws *core.Workspace, spec gitconfig.RefSpec) error {
	repo, err := git.PlainOpen(ws.Dir)
	if err != nil {
		return fmt.Errorf("open working copy: %w", err)
	}

	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: git.DefaultRemoteName,
		RefSpecs:   []gitconfig.RefSpec{spec},
		Auth:       g.authForRemote(repo),
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case isNonFastForward(err):
		return core.ErrPushConflict
	default:
		return fmt.Errorf("push %s: %w", spec, err)
	}
}

func (g *Git) auth(repo string) *githttp.BasicAuth {
	if g.config.Token == "" || !strings.HasPrefix(repo, "http") {
		return nil
	}
	return &githttp.BasicAuth{Username: "codevox", Password: g.config.Token}
}

func (g *Git) authForRemote(repo *git.Repository) *githttp.BasicAuth {
	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil || len(remote.Config().URLs) == 0 {
		return nil
	}
	return g.auth(remote.Config().URLs[0])
}

func isNonFastForward(err error) bool {
	return err != nil && strings.Contains(err.Error(), "non-fast-forward")
}

// diffStats counts changed lines and touched files in a unified diff. The
// delta counts both additions and removals: a pure deletion is still a
// change that merge heuristics must see.
func diffStats(diff string) *core.ChangeStats {
	stats := &core.ChangeStats{}
	seen := make(map[string]struct{})
	var lastMinus string

	for line := range strings.Lines(diff) {
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "--- "):
			lastMinus = stripDiffPath(line[4:], "a/")
		case strings.HasPrefix(line, "+++ "):
			file := stripDiffPath(line[4:], "b/")
			if file == "" {
				// Deletion; the old side names the file.
				file = lastMinus
			}
			if file != "" {
				if _, ok := seen[file]; !ok {
					seen[file] = struct{}{}
					stats.FilesTouched = append(stats.FilesTouched, file)
				}
			}
		case strings.HasPrefix(line, "+"):
			stats.LOCDelta++
		case strings.HasPrefix(line, "-"):
			stats.LOCDelta++
		}
	}
	return stats
}

func stripDiffPath(p, prefix string) string {
	p = strings.TrimSpace(p)
	if p == "/dev/null" {
		return ""
	}
	return strings.TrimPrefix(p, prefix)
}

var _ core.VCSClient = (*Git)(nil)
