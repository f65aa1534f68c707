package decision

import (
	"testing"

	"github.com/codevox/codevox-go/internal/domain/model"
)

func cleanInput() Input {
	return Input{
		LOCDelta:     10,
		FilesTouched: []string{"api/handlers.py", "api/serializers.py"},
		TestsPassed:  true,
		LintPassed:   true,
		Heuristics: model.Heuristics{
			AutoMergeLOCLimit: 50,
			BlockedPaths:      []string{"db/migrations", "infra"},
		},
	}
}

func TestDecide_CleanChangeAutoMerges(t *testing.T) {
	out := Decide(cleanInput())
	if out.Decision != DecisionAutoMerge {
		t.Fatalf("Decision = %v, want auto_merge", out.Decision)
	}
	if out.Reason != ReasonCleanChange {
		t.Errorf("Reason = %v, want clean_change", out.Reason)
	}
}

func TestDecide_RulePrecedence(t *testing.T) {
	// Everything is wrong at once; lint wins.
	in := cleanInput()
	in.LintPassed = false
	in.TestsPassed = false
	in.FilesTouched = append(in.FilesTouched, "db/migrations/0042.sql")
	in.LOCDelta = 9000

	out := Decide(in)
	if out.Decision != DecisionOpenPR {
		t.Fatalf("Decision = %v, want open_pr", out.Decision)
	}
	if out.Reason != ReasonLintFailed {
		t.Errorf("Reason = %v, want lint_failed (first rule wins)", out.Reason)
	}

	// Lint recovered; tests are next.
	in.LintPassed = true
	if out := Decide(in); out.Reason != ReasonTestsFailed {
		t.Errorf("Reason = %v, want tests_failed", out.Reason)
	}

	// Checks recovered; blocked path is next.
	in.TestsPassed = true
	if out := Decide(in); out.Reason != ReasonBlockedPath {
		t.Errorf("Reason = %v, want blocked_path", out.Reason)
	}

	// Blocked file dropped; loc limit is last.
	in.FilesTouched = []string{"api/handlers.py"}
	if out := Decide(in); out.Reason != ReasonLOCLimit {
		t.Errorf("Reason = %v, want loc_limit", out.Reason)
	}
}

func TestDecide_LintFailure(t *testing.T) {
	in := cleanInput()
	in.LintPassed = false

	out := Decide(in)
	if out.Decision != DecisionOpenPR || out.Reason != ReasonLintFailed {
		t.Errorf("got %+v, want open_pr/lint_failed", out)
	}
}

func TestDecide_TestFailure(t *testing.T) {
	in := cleanInput()
	in.TestsPassed = false

	out := Decide(in)
	if out.Decision != DecisionOpenPR || out.Reason != ReasonTestsFailed {
		t.Errorf("got %+v, want open_pr/tests_failed", out)
	}
}

func TestDecide_LOCBoundary(t *testing.T) {
	tests := []struct {
		name     string
		locDelta int
		limit    int
		want     Decision
	}{
		{"strictly below limit merges", 49, 50, DecisionAutoMerge},
		{"exactly at limit opens pr", 50, 50, DecisionOpenPR},
		{"above limit opens pr", 51, 50, DecisionOpenPR},
		{"zero delta below positive limit", 0, 1, DecisionAutoMerge},
		{"zero limit never auto-merges", 0, 0, DecisionOpenPR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := cleanInput()
			in.LOCDelta = tt.locDelta
			in.Heuristics.AutoMergeLOCLimit = tt.limit
			in.Heuristics.BlockedPaths = nil

			if out := Decide(in); out.Decision != tt.want {
				t.Errorf("Decide(loc=%d, limit=%d) = %v, want %v",
					tt.locDelta, tt.limit, out.Decision, tt.want)
			}
		})
	}
}

func TestDecide_BlockedPathSegmentBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		blocked string
		match   bool
	}{
		{"file under prefix", "db/migrations/0001.sql", "db/migrations", true},
		{"file equals prefix", "db/migrations", "db/migrations", true},
		{"sibling directory shares string prefix", "db/migrations_archive/old.sql", "db/migrations", false},
		{"prefix as substring only", "mydb/migrations/0001.sql", "db/migrations", false},
		{"single segment prefix", "infra/terraform/main.tf", "infra", true},
		{"single segment no match", "infrastructure/readme.md", "infra", false},
		{"leading ./ normalized", "./infra/main.tf", "infra", true},
		{"leading slash normalized", "/infra/main.tf", "infra", true},
		{"trailing slash on prefix", "infra/main.tf", "infra/", true},
		{"empty prefix never matches", "anything.go", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := cleanInput()
			in.FilesTouched = []string{tt.file}
			in.Heuristics.BlockedPaths = []string{tt.blocked}

			out := Decide(in)
			gotMatch := out.Reason == ReasonBlockedPath
			if gotMatch != tt.match {
				t.Errorf("file %q vs prefix %q: blocked=%v, want %v (reason %v)",
					tt.file, tt.blocked, gotMatch, tt.match, out.Reason)
			}
		})
	}
}

func TestDecide_NoFilesTouched(t *testing.T) {
	in := cleanInput()
	in.FilesTouched = nil
	in.LOCDelta = 0

	out := Decide(in)
	if out.Decision != DecisionAutoMerge {
		t.Errorf("empty change below limit should auto-merge, got %+v", out)
	}
}

func TestDecide_Deterministic(t *testing.T) {
	in := cleanInput()
	first := Decide(in)
	for i := 0; i < 100; i++ {
		if got := Decide(in); got != first {
			t.Fatalf("Decide is not deterministic: %+v vs %+v", got, first)
		}
	}
}
