package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
)

func TestDiffStats(t *testing.T) {
	diff := `--- a/api/handlers.py
+++ b/api/handlers.py
@@ -1,4 +1,6 @@
 import flask
+import limits
+
 def login():
-    return ok()
+    return limited(ok())
--- a/docs/old.md
+++ /dev/null
@@ -1,2 +0,0 @@
-stale
-docs
`

	stats := diffStats(diff)

	if stats.LOCDelta != 6 {
		t.Errorf("LOCDelta = %d, want 6", stats.LOCDelta)
	}
	want := []string{"api/handlers.py", "docs/old.md"}
	if len(stats.FilesTouched) != len(want) {
		t.Fatalf("FilesTouched = %v, want %v", stats.FilesTouched, want)
	}
	for i, file := range want {
		if stats.FilesTouched[i] != file {
			t.Errorf("FilesTouched[%d] = %q, want %q", i, stats.FilesTouched[i], file)
		}
	}
}

func TestDiffStatsNewFile(t *testing.T) {
	diff := `--- /dev/null
+++ b/newfile.py
@@ -0,0 +1,2 @@
+a = 1
+b = 2
`
	stats := diffStats(diff)
	if stats.LOCDelta != 2 {
		t.Errorf("LOCDelta = %d, want 2", stats.LOCDelta)
	}
	if len(stats.FilesTouched) != 1 || stats.FilesTouched[0] != "newfile.py" {
		t.Errorf("FilesTouched = %v, want [newfile.py]", stats.FilesTouched)
	}
}

func testGit(t *testing.T) *Git {
	t.Helper()
	return NewGit(GitOptions{
		Config: config.VCSConfig{
			AuthorName:  "codevox",
			AuthorEmail: "codevox@localhost",
		},
		WorkDir: t.TempDir(),
	})
}

// seedRepo creates a bare origin with one commit on main and returns its path.
func seedRepo(t *testing.T) string {
	t.Helper()

	bareDir := filepath.Join(t.TempDir(), "origin.git")
	if _, err := git.PlainInit(bareDir, true); err != nil {
		t.Fatalf("init bare repo: %v", err)
	}

	srcDir := t.TempDir()
	src, err := git.PlainInitWithOptions(srcDir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: "refs/heads/main"},
	})
	if err != nil {
		t.Fatalf("init source repo: %v", err)
	}

	if err := os.WriteFile(filepath.Join(srcDir, "app.py"), []byte("print('hello')\n"), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	wt, err := src.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("app.py"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := wt.Commit("seed", &git.CommitOptions{
		Author: &object.Signature{Name: "seed", Email: "seed@localhost", When: time.Now()},
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if _, err := src.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{bareDir},
	}); err != nil {
		t.Fatalf("create remote: %v", err)
	}
	if err := src.Push(&git.PushOptions{RemoteName: "origin"}); err != nil {
		t.Fatalf("push seed: %v", err)
	}

	return bareDir
}

func TestCloneApplyCommitPush(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	origin := seedRepo(t)
	g := testGit(t)
	ctx := context.Background()

	ws, err := g.Clone(ctx, origin, "main")
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	defer g.Cleanup(ws)

	diff := `--- a/app.py
+++ b/app.py
@@ -1 +1,2 @@
 print('hello')
+print('world')
`
	stats, err := g.Apply(ctx, ws, diff)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if stats.LOCDelta != 1 {
		t.Errorf("LOCDelta = %d, want 1", stats.LOCDelta)
	}

	sha, err := g.CommitAndPush(ctx, ws, "add world")
	if err != nil {
		t.Fatalf("CommitAndPush() error = %v", err)
	}
	if len(sha) != 40 {
		t.Errorf("sha = %q, want 40-char hash", sha)
	}
}

func TestPushBranch(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	origin := seedRepo(t)
	g := testGit(t)
	ctx := context.Background()

	ws, err := g.Clone(ctx, origin, "main")
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	defer g.Cleanup(ws)

	diff := `--- a/app.py
+++ b/app.py
@@ -1 +1,2 @@
 print('hello')
+print('review me')
`
	if _, err := g.Apply(ctx, ws, diff); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if err := g.PushBranch(ctx, ws, "codevox/job-abc123"); err != nil {
		t.Fatalf("PushBranch() error = %v", err)
	}

	remote, err := git.PlainOpen(origin)
	if err != nil {
		t.Fatalf("open origin: %v", err)
	}
	refs, err := remote.References()
	if err != nil {
		t.Fatalf("references: %v", err)
	}
	found := false
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().String() == "refs/heads/codevox/job-abc123" {
			found = true
		}
		return nil
	})
	if !found {
		t.Error("branch codevox/job-abc123 not pushed to origin")
	}
}

func TestCommitAndPushNonFastForward(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	origin := seedRepo(t)
	g := testGit(t)
	ctx := context.Background()

	// Two clones race; the loser's push is non-fast-forward.
	first, err := g.Clone(ctx, origin, "main")
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	defer g.Cleanup(first)
	second, err := g.Clone(ctx, origin, "main")
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	defer g.Cleanup(second)

	diff := `--- a/app.py
+++ b/app.py
@@ -1 +1,2 @@
 print('hello')
+print('racing')
`
	if _, err := g.Apply(ctx, first, diff); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if _, err := g.CommitAndPush(ctx, first, "winner"); err != nil {
		t.Fatalf("CommitAndPush() error = %v", err)
	}

	if _, err := g.Apply(ctx, second, diff); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	_, err = g.CommitAndPush(ctx, second, "loser")
	if !errors.Is(err, core.ErrPushConflict) {
		t.Errorf("CommitAndPush() error = %v, want ErrPushConflict", err)
	}
}

func TestApplyRejectsBadDiff(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	origin := seedRepo(t)
	g := testGit(t)
	ctx := context.Background()

	ws, err := g.Clone(ctx, origin, "main")
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	defer g.Cleanup(ws)

	if _, err := g.Apply(ctx, ws, "this is not a diff"); err == nil {
		t.Error("Apply() accepted a malformed diff")
	}
	if _, err := g.Apply(ctx, ws, "   "); err == nil {
		t.Error("Apply() accepted an empty diff")
	}
}
