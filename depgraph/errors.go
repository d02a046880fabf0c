package depgraph

import (
	"fmt"
	"strings"
)

type ProblemKind string

const (
	ProblemMissing ProblemKind = `missing`
	ProblemInvalid ProblemKind = `invalid`
)

// Problem is one structural defect found during traversal: a required
// dependency that never resolved, or an edge the resolver flagged
// invalid.
type Problem struct {
	Kind       ProblemKind
	PkgID      string
	RequiredBy string
	Location   string
}

func (it Problem) String() string {
	switch it.Kind {
	case ProblemMissing:
		return fmt.Sprintf("missing: %s, required by %s", it.PkgID, it.RequiredBy)
	default:
		return fmt.Sprintf("invalid: %s %s", it.PkgID, it.Location)
	}
}

// TreeError aggregates every structural problem of one traversal into
// a single failure, one line per problem, so a single run surfaces the
// complete problem set.
type TreeError struct {
	Problems []Problem
}

func (it *TreeError) Error() string {
	lines := make([]string, 0, len(it.Problems))
	for _, problem := range it.Problems {
		lines = append(lines, problem.String())
	}
	return strings.Join(lines, "\n")
}

// problemSink accumulates problems while dropping exact repeats, so a
// node reachable through several broken routes reports once per
// distinct defect.
type problemSink struct {
	seen     map[string]bool
	problems []Problem
}

func newProblemSink() *problemSink {
	return &problemSink{seen: make(map[string]bool)}
}

func (it *problemSink) add(problem Problem) {
	line := problem.String()
	if it.seen[line] {
		return
	}
	it.seen[line] = true
	it.problems = append(it.problems, problem)
}

func (it *problemSink) missing(edge *Edge) {
	it.add(Problem{
		Kind:       ProblemMissing,
		PkgID:      edge.Wanted(),
		RequiredBy: edge.From.PkgID,
	})
}

func (it *problemSink) invalid(node *Node) {
	it.add(Problem{
		Kind:     ProblemInvalid,
		PkgID:    node.PkgID,
		Location: node.Location,
	})
}
