package checks

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/codevox/codevox-go/config"
	"github.com/codevox/codevox-go/internal/core"
)

func testRunner(t *testing.T, lint, test string) (*Runner, *core.Workspace) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := NewRunner(Options{Config: config.CheckerConfig{
		LintCommand: lint,
		TestCommand: test,
	}})
	return r, &core.Workspace{Dir: t.TempDir(), Branch: "main"}
}

func TestVerdicts(t *testing.T) {
	r, ws := testRunner(t, "true", "false")

	passed, err := r.Lint(context.Background(), ws)
	if err != nil {
		t.Fatalf("Lint() error = %v", err)
	}
	if !passed {
		t.Error("Lint() = false, want true")
	}

	passed, err = r.Test(context.Background(), ws)
	if err != nil {
		t.Fatalf("Test() error = %v", err)
	}
	if passed {
		t.Error("Test() = true, want false: nonzero exit is a failing verdict")
	}
}

func TestMissingWorkspace(t *testing.T) {
	r := NewRunner(Options{})
	if _, err := r.Lint(context.Background(), nil); err == nil {
		t.Error("Lint(nil workspace) did not error")
	}
}

func TestTimeoutIsError(t *testing.T) {
	r, ws := testRunner(t, "sleep 5", "true")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Lint(ctx, ws)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Lint() error = %v, want deadline exceeded", err)
	}
}
