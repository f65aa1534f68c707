// Package decision implements the merge-decision engine. It is a pure
// function of its input: no clock, no I/O, no logging.
package decision

import (
	"fmt"
	"path"
	"strings"

	"github.com/codevox/codevox-go/internal/domain/model"
)

// Decision is the engine's verdict for a finished change.
type Decision string

const (
	// DecisionAutoMerge merges the change without review.
	DecisionAutoMerge Decision = "auto_merge"
	// DecisionOpenPR routes the change through review.
	DecisionOpenPR Decision = "open_pr"
)

// Reasons explain the first rule that fired. AutoMerge always carries
// ReasonCleanChange.
const (
	ReasonLintFailed  = "lint_failed"
	ReasonTestsFailed = "tests_failed"
	ReasonBlockedPath = "blocked_path"
	ReasonLOCLimit    = "loc_limit"
	ReasonCleanChange = "clean_change"
)

// Input captures everything the engine may consider.
type Input struct {
	LOCDelta     int
	FilesTouched []string
	TestsPassed  bool
	LintPassed   bool
	Heuristics   model.Heuristics
}

// Outcome is the verdict plus the reason for the first rule that fired.
type Outcome struct {
	Decision Decision
	Reason   string
	// Detail names the blocked path that matched, when Reason is blocked_path.
	Detail string
}

// Decide applies the merge rules in fixed order and short-circuits on the
// first that routes to review:
//
//  1. lint failed
//  2. tests failed
//  3. any touched file under a blocked path prefix
//  4. loc_delta at or above the auto-merge limit (strict less-than merges)
//
// A change that passes every rule auto-merges.
func Decide(in Input) Outcome {
	if !in.LintPassed {
		return Outcome{Decision: DecisionOpenPR, Reason: ReasonLintFailed}
	}
	if !in.TestsPassed {
		return Outcome{Decision: DecisionOpenPR, Reason: ReasonTestsFailed}
	}

	for _, file := range in.FilesTouched {
		for _, prefix := range in.Heuristics.BlockedPaths {
			if underBlockedPrefix(file, prefix) {
				return Outcome{
					Decision: DecisionOpenPR,
					Reason:   ReasonBlockedPath,
					Detail:   fmt.Sprintf("%s matches %s", file, prefix),
				}
			}
		}
	}

	if in.LOCDelta >= in.Heuristics.AutoMergeLOCLimit {
		return Outcome{Decision: DecisionOpenPR, Reason: ReasonLOCLimit}
	}

	return Outcome{Decision: DecisionAutoMerge, Reason: ReasonCleanChange}
}

// underBlockedPrefix reports whether file sits at or below prefix on path
// segment boundaries: "db" blocks "db/schema.sql" but not "dbutils/x.go".
func underBlockedPrefix(file, prefix string) bool {
	file = normalizePath(file)
	prefix = normalizePath(prefix)
	if prefix == "" || file == "" {
		return false
	}
	if file == prefix {
		return true
	}
	return strings.HasPrefix(file, prefix+"/")
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return ""
	}
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return cleaned
}
