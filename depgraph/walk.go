package depgraph

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lockbom/lockbom/common"
)

// Filters narrows which edges a traversal follows. The zero value
// follows everything except workspaces (matching the command line
// default, where workspace output is opt-in).
type Filters struct {
	Omit              map[EdgeType]bool
	Workspaces        []string
	WorkspacesEnabled bool
}

func (it Filters) omits(kind EdgeType) bool {
	return it.Omit[kind]
}

// allowsWorkspace decides whether an edge from the project root to the
// named workspace survives. Edges not originating at the project root
// are never subject to this filter.
func (it Filters) allowsWorkspace(name string) bool {
	if !it.WorkspacesEnabled {
		return false
	}
	if len(it.Workspaces) == 0 {
		return true
	}
	for _, wanted := range it.Workspaces {
		if wanted == name {
			return true
		}
	}
	return false
}

// Result is the walker's output: the deduplicated node list in
// deterministic discovery order, the run annotations the document
// builders need, and every structural problem found on the way.
type Result struct {
	Nodes    []*Node
	Run      *Run
	Problems []Problem

	kept map[string]*Node
}

// Canonical maps any visited instance to the node that represents its
// package identifier in Nodes. When hoisting is blocked, one package
// can be installed at several paths; only the first discovered
// instance makes the list, and edges reaching the others must be
// redirected here.
func (it *Result) Canonical(node *Node) (*Node, bool) {
	kept, ok := it.kept[node.PkgID]
	return kept, ok
}

// Gate enforces the all-or-nothing contract: any structural problem
// turns the whole traversal into a single aggregated failure and the
// node list must not be used.
func (it *Result) Gate() error {
	if len(it.Problems) > 0 {
		return &TreeError{Problems: it.Problems}
	}
	return nil
}

// Walk traverses the dependency graph breadth first from the root,
// applying workspace and omit filters, and returns every reachable
// package identifier exactly once; when one package is installed at
// several paths, the first discovered instance stands for all of
// them. Child lists are ordered by package identifier
// with locale-aware collation, so output is reproducible regardless of
// map iteration order. Unresolved required dependencies and invalid
// edges are collected as problems; unresolved targets become
// placeholder nodes that terminate their branch.
func Walk(root *Node, filters Filters) *Result {
	defer common.Stopwatch("Dependency graph walk lasted").Debug()

	run := NewRun()
	sink := newProblemSink()
	collator := collate.New(language.Und)

	queue := []*Node{root}
	run.visit(root)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, child := range expand(node, filters, run, sink, collator) {
			if run.seen(child) {
				continue
			}
			run.visit(child)
			queue = append(queue, child)
		}
	}

	nodes := make([]*Node, 0, len(run.order))
	kept := make(map[string]*Node, len(run.order))
	for _, node := range run.order {
		if _, placeholder := run.RequiredBy(node); placeholder {
			continue
		}
		if _, duplicate := kept[node.PkgID]; duplicate {
			continue
		}
		kept[node.PkgID] = node
		nodes = append(nodes, node)
	}
	common.Debug("Graph walk visited %d nodes, kept %d, found %d problems.", len(run.order), len(nodes), len(sink.problems))
	return &Result{
		Nodes:    nodes,
		Run:      run,
		Problems: sink.problems,
		kept:     kept,
	}
}

// expand computes the ordered children of one node. Missing-dependency
// detection happens before any filtering, because a required
// dependency that never resolved is a defect even when its edge type
// is omitted from the document.
func expand(node *Node, filters Filters, run *Run, sink *problemSink, collator *collate.Collator) []*Node {
	reached := make(map[*Node]bool)
	children := make([]*Node, 0, len(node.EdgesOut()))

	for _, edge := range node.EdgesOut() {
		if edge.Unresolved() && !edge.Type.Optional() {
			sink.missing(edge)
		}
		if node.IsProjectRoot && edge.To != nil && edge.To.IsWorkspace && !filters.allowsWorkspace(edge.To.Name) {
			continue
		}
		if filters.omits(edge.Type) {
			continue
		}
		target := edge.To
		if edge.Unresolved() {
			target = placeholder(node, edge)
			run.markMissing(target, node.PkgID)
		} else if edge.Invalid {
			if run.markInvalid(target) {
				sink.invalid(target)
			}
		}
		run.markEdgeType(target, edge.Type)
		if !reached[target] {
			reached[target] = true
			children = append(children, target)
		}
	}

	for _, child := range node.ChildNodes() {
		if child.Extraneous && !reached[child] {
			reached[child] = true
			children = append(children, child)
		}
	}

	sort.SliceStable(children, func(left, right int) bool {
		return collator.CompareString(children[left].PkgID, children[right].PkgID) < 0
	})
	return children
}

// placeholder stands in for a dependency the resolver never
// materialized. It carries only the wanted identifier, lives at a
// synthetic path unique to its parent, and has no children, so the
// branch ends here.
func placeholder(parent *Node, edge *Edge) *Node {
	location := "node_modules/" + edge.Name
	if len(parent.Location) > 0 {
		location = parent.Location + "/" + location
	}
	return &Node{
		PkgID:    edge.Wanted(),
		Name:     edge.Name,
		Version:  edge.Spec,
		Location: location,
	}
}
