package depgraph_test

import (
	"strings"
	"testing"

	"github.com/lockbom/lockbom/depgraph"
	"github.com/lockbom/lockbom/hamlet"
)

func node(name, version, location string) *depgraph.Node {
	return &depgraph.Node{
		PkgID:    name + "@" + version,
		Name:     name,
		Version:  version,
		Location: location,
	}
}

func wire(from, to *depgraph.Node, kind depgraph.EdgeType) *depgraph.Edge {
	edge := &depgraph.Edge{
		From: from,
		To:   to,
		Type: kind,
	}
	if to != nil {
		edge.Name = to.Name
		edge.Spec = to.Version
	}
	from.Edges = append(from.Edges, edge)
	if to != nil {
		from.Children = append(from.Children, to)
	}
	return edge
}

func ids(nodes []*depgraph.Node) []string {
	result := make([]string, 0, len(nodes))
	for _, node := range nodes {
		result = append(result, node.PkgID)
	}
	return result
}

func appGraph() (*depgraph.Node, *depgraph.Node, *depgraph.Node) {
	app := node("app", "1.0.0", "")
	app.IsRoot = true
	app.IsProjectRoot = true
	left := node("left", "1.0.0", "node_modules/left")
	right := node("right", "1.0.0", "node_modules/right")
	wire(app, left, depgraph.EdgeProd)
	wire(app, right, depgraph.EdgeDev)
	return app, left, right
}

func TestWalkOmitsDevDependencies(t *testing.T) {
	must, wont := hamlet.Specifications(t)

	app, _, _ := appGraph()
	result := depgraph.Walk(app, depgraph.Filters{
		Omit: map[depgraph.EdgeType]bool{depgraph.EdgeDev: true},
	})

	must.Nil(result.Gate())
	must.Equal([]string{"app@1.0.0", "left@1.0.0"}, ids(result.Nodes))
	wont.Equal(3, len(result.Nodes))
}

func TestWalkKeepsEverythingWithoutFilters(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app, left, right := appGraph()
	result := depgraph.Walk(app, depgraph.Filters{})

	must.Nil(result.Gate())
	must.Equal([]string{"app@1.0.0", "left@1.0.0", "right@1.0.0"}, ids(result.Nodes))
	must.Equal(depgraph.EdgeProd, result.Run.EdgeType(left))
	must.Equal(depgraph.EdgeDev, result.Run.EdgeType(right))
}

func TestWalkOrdersChildrenByPackageIdentifier(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	zeta := node("zeta", "1.0.0", "node_modules/zeta")
	alpha := node("alpha", "1.0.0", "node_modules/alpha")
	mid := node("mid", "1.0.0", "node_modules/mid")
	wire(app, zeta, depgraph.EdgeProd)
	wire(app, mid, depgraph.EdgeProd)
	wire(app, alpha, depgraph.EdgeProd)

	result := depgraph.Walk(app, depgraph.Filters{})
	must.Equal([]string{"app@1.0.0", "alpha@1.0.0", "mid@1.0.0", "zeta@1.0.0"}, ids(result.Nodes))
}

func TestWalkVisitsSharedDependenciesOnce(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	left := node("left", "1.0.0", "node_modules/left")
	right := node("right", "1.0.0", "node_modules/right")
	shared := node("shared", "2.0.0", "node_modules/shared")
	wire(app, left, depgraph.EdgeProd)
	wire(app, right, depgraph.EdgeProd)
	wire(left, shared, depgraph.EdgeProd)
	wire(right, shared, depgraph.EdgeProd)

	result := depgraph.Walk(app, depgraph.Filters{})
	must.Nil(result.Gate())
	must.Equal([]string{"app@1.0.0", "left@1.0.0", "right@1.0.0", "shared@2.0.0"}, ids(result.Nodes))
}

func TestWalkTerminatesOnCycles(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	ping := node("ping", "1.0.0", "node_modules/ping")
	pong := node("pong", "1.0.0", "node_modules/pong")
	wire(app, ping, depgraph.EdgeProd)
	wire(ping, pong, depgraph.EdgePeer)
	wire(pong, ping, depgraph.EdgePeer)

	result := depgraph.Walk(app, depgraph.Filters{})
	must.Nil(result.Gate())
	must.Equal(3, len(result.Nodes))
}

func TestFirstRecordedEdgeTypeWins(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	dual := node("dual", "1.0.0", "node_modules/dual")
	wire(app, dual, depgraph.EdgeOptional)
	wire(app, dual, depgraph.EdgeDev)

	result := depgraph.Walk(app, depgraph.Filters{})
	must.Equal(depgraph.EdgeOptional, result.Run.EdgeType(dual))
	// the node still shows up only once
	must.Equal(2, len(result.Nodes))
}

func TestMissingRequiredDependencyFailsTheGate(t *testing.T) {
	must, wont := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	app.Edges = append(app.Edges, &depgraph.Edge{
		From:    app,
		Name:    "foo",
		Spec:    "^2.0.0",
		Type:    depgraph.EdgeProd,
		Missing: true,
	})

	result := depgraph.Walk(app, depgraph.Filters{})
	err := result.Gate()
	wont.Nil(err)
	must.Contain("missing: foo@^2.0.0, required by app@1.0.0", err)
	// the placeholder never reaches the final node list
	must.Equal([]string{"app@1.0.0"}, ids(result.Nodes))
}

func TestMissingDetectionIgnoresOmitFilters(t *testing.T) {
	must, wont := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	app.Edges = append(app.Edges, &depgraph.Edge{
		From:    app,
		Name:    "helper",
		Spec:    "1.x",
		Type:    depgraph.EdgeDev,
		Missing: true,
	})

	result := depgraph.Walk(app, depgraph.Filters{
		Omit: map[depgraph.EdgeType]bool{depgraph.EdgeDev: true},
	})
	err := result.Gate()
	wont.Nil(err)
	must.Contain("missing: helper@1.x, required by app@1.0.0", err)
}

func TestMissingOptionalDependencyIsQuietlyDropped(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	app.Edges = append(app.Edges, &depgraph.Edge{
		From: app,
		Name: "extra",
		Spec: "*",
		Type: depgraph.EdgeOptional,
	})

	result := depgraph.Walk(app, depgraph.Filters{})
	must.Nil(result.Gate())
	must.Equal([]string{"app@1.0.0"}, ids(result.Nodes))
}

func TestInvalidEdgeFailsTheGate(t *testing.T) {
	must, wont := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	wrong := node("wrong", "3.0.0", "node_modules/wrong")
	edge := wire(app, wrong, depgraph.EdgeProd)
	edge.Invalid = true

	result := depgraph.Walk(app, depgraph.Filters{})
	err := result.Gate()
	wont.Nil(err)
	must.Contain("invalid: wrong@3.0.0 node_modules/wrong", err)
	must.True(result.Run.Invalid(wrong))
}

func TestInvalidEdgeReportsOnlyOnce(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	mid := node("mid", "1.0.0", "node_modules/mid")
	wrong := node("wrong", "3.0.0", "node_modules/wrong")
	wire(app, mid, depgraph.EdgeProd)
	wire(app, wrong, depgraph.EdgeProd).Invalid = true
	wire(mid, wrong, depgraph.EdgeProd).Invalid = true

	result := depgraph.Walk(app, depgraph.Filters{})
	err := result.Gate()
	must.Equal(1, strings.Count(err.Error(), "invalid:"))
}

func TestAllProblemsSurfaceInOneFailure(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	wrong := node("wrong", "3.0.0", "node_modules/wrong")
	wire(app, wrong, depgraph.EdgeProd).Invalid = true
	app.Edges = append(app.Edges, &depgraph.Edge{
		From:    app,
		Name:    "foo",
		Spec:    "^2.0.0",
		Type:    depgraph.EdgeProd,
		Missing: true,
	})

	err := depgraph.Walk(app, depgraph.Filters{}).Gate()
	must.Contain("missing: foo@^2.0.0, required by app@1.0.0", err)
	must.Contain("invalid: wrong@3.0.0", err)
	must.Equal(2, len(strings.Split(err.Error(), "\n")))
}

func workspaceGraph() (*depgraph.Node, *depgraph.Node, *depgraph.Node) {
	app := node("app", "1.0.0", "")
	app.IsRoot = true
	app.IsProjectRoot = true
	api := node("api", "1.0.0", "packages/api")
	api.IsWorkspace = true
	web := node("web", "1.0.0", "packages/web")
	web.IsWorkspace = true
	inner := node("inner", "1.0.0", "node_modules/inner")
	wire(app, api, depgraph.EdgeProd)
	wire(app, web, depgraph.EdgeProd)
	wire(web, inner, depgraph.EdgeProd)
	return app, api, web
}

func TestWorkspacesAreExcludedByDefault(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app, _, _ := workspaceGraph()
	result := depgraph.Walk(app, depgraph.Filters{})
	must.Nil(result.Gate())
	must.Equal([]string{"app@1.0.0"}, ids(result.Nodes))
}

func TestWorkspaceSubsetFiltersReachability(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app, _, _ := workspaceGraph()
	result := depgraph.Walk(app, depgraph.Filters{
		Workspaces:        []string{"api"},
		WorkspacesEnabled: true,
	})
	must.Nil(result.Gate())
	// nothing reachable only through the excluded workspace appears
	must.Equal([]string{"app@1.0.0", "api@1.0.0"}, ids(result.Nodes))
}

func TestAllWorkspacesWhenEnabledWithoutSubset(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app, _, _ := workspaceGraph()
	result := depgraph.Walk(app, depgraph.Filters{WorkspacesEnabled: true})
	must.Equal([]string{"app@1.0.0", "api@1.0.0", "web@1.0.0", "inner@1.0.0"}, ids(result.Nodes))
}

func TestWorkspaceFilterOnlyAppliesToProjectRootEdges(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	app.IsProjectRoot = true
	lib := node("lib", "1.0.0", "node_modules/lib")
	space := node("space", "1.0.0", "packages/space")
	space.IsWorkspace = true
	wire(app, lib, depgraph.EdgeProd)
	wire(lib, space, depgraph.EdgeProd)

	result := depgraph.Walk(app, depgraph.Filters{})
	must.Equal([]string{"app@1.0.0", "lib@1.0.0", "space@1.0.0"}, ids(result.Nodes))
}

func TestExtraneousChildrenAppearInOutput(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	stray := node("stray", "0.0.1", "node_modules/stray")
	stray.Extraneous = true
	app.Children = append(app.Children, stray)

	result := depgraph.Walk(app, depgraph.Filters{})
	must.Nil(result.Gate())
	must.Equal([]string{"app@1.0.0", "stray@0.0.1"}, ids(result.Nodes))
	must.Equal(depgraph.EdgeProd, result.Run.EdgeType(stray))
}

func TestUnhoistedInstancesCollapseToOneIdentifier(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	app := node("app", "1.0.0", "")
	app.IsRoot = true
	alpha := node("alpha", "1.0.0", "node_modules/alpha")
	bravo := node("bravo", "1.0.0", "node_modules/bravo")
	firstNested := node("x", "1.0.0", "node_modules/alpha/node_modules/x")
	secondNested := node("x", "1.0.0", "node_modules/bravo/node_modules/x")
	wire(app, alpha, depgraph.EdgeProd)
	wire(app, bravo, depgraph.EdgeProd)
	wire(alpha, firstNested, depgraph.EdgeProd)
	wire(bravo, secondNested, depgraph.EdgeProd)

	result := depgraph.Walk(app, depgraph.Filters{})
	must.Nil(result.Gate())
	must.Equal([]string{"app@1.0.0", "alpha@1.0.0", "bravo@1.0.0", "x@1.0.0"}, ids(result.Nodes))

	kept, ok := result.Canonical(secondNested)
	must.True(ok)
	must.True(kept == firstNested)
	kept, ok = result.Canonical(firstNested)
	must.True(ok)
	must.True(kept == firstNested)
}

func TestWalkIsDeterministic(t *testing.T) {
	must, _ := hamlet.Specifications(t)

	build := func() *depgraph.Node {
		app := node("app", "1.0.0", "")
		app.IsRoot = true
		for _, name := range []string{"delta", "bravo", "echo", "alpha", "charlie"} {
			wire(app, node(name, "1.0.0", "node_modules/"+name), depgraph.EdgeProd)
		}
		return app
	}
	first := depgraph.Walk(build(), depgraph.Filters{})
	second := depgraph.Walk(build(), depgraph.Filters{})
	must.Equal(ids(first.Nodes), ids(second.Nodes))
}
