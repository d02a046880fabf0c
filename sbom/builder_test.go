package sbom

import (
	"testing"

	"github.com/lockbom/lockbom/depgraph"
)

// testGraph builds a small resolved graph: the root application with a
// production, a development, an optional and a peer dependency.
func testGraph() *depgraph.Node {
	app := &depgraph.Node{
		PkgID:         "app@1.0.0",
		Name:          "app",
		Version:       "1.0.0",
		Location:      "",
		IsRoot:        true,
		IsProjectRoot: true,
	}
	left := &depgraph.Node{
		PkgID:     "left@1.0.0",
		Name:      "left",
		Version:   "1.0.0",
		Location:  "node_modules/left",
		License:   "MIT",
		Homepage:  "https://left.example.com",
		Resolved:  "https://registry.npmjs.org/left/-/left-1.0.0.tgz",
		Integrity: "sha512-3q2+7w==",
	}
	right := &depgraph.Node{
		PkgID:    "right@2.0.0",
		Name:     "right",
		Version:  "2.0.0",
		Location: "node_modules/right",
	}
	extra := &depgraph.Node{
		PkgID:    "extra@0.5.0",
		Name:     "extra",
		Version:  "0.5.0",
		Location: "node_modules/extra",
		License:  "ISC",
	}
	buddy := &depgraph.Node{
		PkgID:    "buddy@3.0.0",
		Name:     "buddy",
		Version:  "3.0.0",
		Location: "node_modules/buddy",
	}
	connect := func(from, to *depgraph.Node, kind depgraph.EdgeType) {
		from.Edges = append(from.Edges, &depgraph.Edge{
			From: from,
			To:   to,
			Name: to.Name,
			Spec: to.Version,
			Type: kind,
		})
		from.Children = append(from.Children, to)
	}
	connect(app, left, depgraph.EdgeProd)
	connect(app, right, depgraph.EdgeDev)
	connect(app, extra, depgraph.EdgeOptional)
	connect(left, buddy, depgraph.EdgePeer)
	return app
}

// unhoistedGraph nests the same package under two parents, the shape
// npm produces when hoisting is blocked.
func unhoistedGraph() *depgraph.Node {
	app := &depgraph.Node{
		PkgID:         "app@1.0.0",
		Name:          "app",
		Version:       "1.0.0",
		IsRoot:        true,
		IsProjectRoot: true,
	}
	alpha := &depgraph.Node{
		PkgID:    "alpha@1.0.0",
		Name:     "alpha",
		Version:  "1.0.0",
		Location: "node_modules/alpha",
	}
	bravo := &depgraph.Node{
		PkgID:    "bravo@1.0.0",
		Name:     "bravo",
		Version:  "1.0.0",
		Location: "node_modules/bravo",
	}
	firstNested := &depgraph.Node{
		PkgID:    "x@1.0.0",
		Name:     "x",
		Version:  "1.0.0",
		Location: "node_modules/alpha/node_modules/x",
	}
	secondNested := &depgraph.Node{
		PkgID:    "x@1.0.0",
		Name:     "x",
		Version:  "1.0.0",
		Location: "node_modules/bravo/node_modules/x",
	}
	connect := func(from, to *depgraph.Node) {
		from.Edges = append(from.Edges, &depgraph.Edge{
			From: from,
			To:   to,
			Name: to.Name,
			Spec: to.Version,
			Type: depgraph.EdgeProd,
		})
		from.Children = append(from.Children, to)
	}
	connect(app, alpha)
	connect(app, bravo)
	connect(alpha, firstNested)
	connect(bravo, secondNested)
	return app
}

func walked(t *testing.T, filters depgraph.Filters) *depgraph.Result {
	t.Helper()
	result := depgraph.Walk(testGraph(), filters)
	if err := result.Gate(); err != nil {
		t.Fatalf("unexpected traversal problems: %v", err)
	}
	return result
}

func rootless() *depgraph.Result {
	orphan := &depgraph.Node{
		PkgID:    "orphan@1.0.0",
		Name:     "orphan",
		Version:  "1.0.0",
		Location: "node_modules/orphan",
	}
	return depgraph.Walk(orphan, depgraph.Filters{})
}
