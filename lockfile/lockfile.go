// Package lockfile reads resolved npm dependency graphs from
// package-lock.json files (lockfileVersion 2 and 3) and materializes
// them as depgraph nodes and edges.
package lockfile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/lockbom/lockbom/common"
	"github.com/lockbom/lockbom/depgraph"
)

// lockLicense tolerates both the plain string and the legacy object
// form of the license field.
type lockLicense string

func (it *lockLicense) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*it = lockLicense(plain)
		return nil
	}
	var legacy struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &legacy); err == nil {
		*it = lockLicense(legacy.Type)
	}
	return nil
}

// lockPackage is one entry of the lockfile "packages" map, keyed by
// its node_modules location.
type lockPackage struct {
	Name                 string            `json:"name,omitempty"`
	Version              string            `json:"version"`
	Resolved             string            `json:"resolved"`
	Integrity            string            `json:"integrity"`
	License              lockLicense       `json:"license"`
	Homepage             string            `json:"homepage"`
	Link                 bool              `json:"link"`
	Extraneous           bool              `json:"extraneous"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	PeerDependenciesMeta map[string]struct {
		Optional bool `json:"optional"`
	} `json:"peerDependenciesMeta"`
}

type lockFile struct {
	Name            string                 `json:"name"`
	Version         string                 `json:"version"`
	LockfileVersion int                    `json:"lockfileVersion"`
	Packages        map[string]lockPackage `json:"packages"`
}

// Load reads and parses the lockfile at given path and returns the
// root of the materialized dependency graph.
func Load(path string) (*depgraph.Node, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile %q: %w", path, err)
	}
	root, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lockfile %q: %w", path, err)
	}
	return root, nil
}

// Parse materializes a dependency graph from lockfile content. Only
// lockfileVersion 2 and 3 carry the flat "packages" map this loader
// needs; version 1 files must be upgraded by the package manager
// first.
func Parse(content []byte) (*depgraph.Node, error) {
	var lock lockFile
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, fmt.Errorf("not a valid package-lock.json: %w", err)
	}
	if lock.LockfileVersion < 2 {
		return nil, fmt.Errorf("unsupported lockfileVersion %d (only versions 2 and 3 are supported)", lock.LockfileVersion)
	}
	if len(lock.Packages) == 0 {
		return nil, fmt.Errorf("lockfile has no packages map")
	}
	return newGraph(&lock).materialize()
}

type graph struct {
	lock    *lockFile
	entries map[string]lockPackage
	nodes   map[string]*depgraph.Node
}

func newGraph(lock *lockFile) *graph {
	return &graph{
		lock:    lock,
		entries: lock.Packages,
		nodes:   make(map[string]*depgraph.Node, len(lock.Packages)),
	}
}

func (it *graph) materialize() (*depgraph.Node, error) {
	locations := make([]string, 0, len(it.entries))
	for location := range it.entries {
		locations = append(locations, location)
	}
	sort.Strings(locations)

	for _, location := range locations {
		it.nodes[location] = it.node(location, it.entries[location])
	}
	root, ok := it.nodes[""]
	if !ok {
		return nil, fmt.Errorf("lockfile has no root entry")
	}

	for _, location := range locations {
		node := it.nodes[location]
		parent := parentLocation(location)
		if location != "" {
			if owner, ok := it.nodes[parent]; ok {
				owner.Children = append(owner.Children, node)
			}
		}
		it.connect(node, it.entries[location])
	}
	linked := make(map[*depgraph.Node]bool)
	for _, edge := range root.Edges {
		linked[edge.To] = true
	}
	for _, location := range locations {
		node := it.nodes[location]
		if node.IsWorkspace && !linked[node] {
			root.Edges = append(root.Edges, &depgraph.Edge{
				From: root,
				To:   node,
				Name: node.Name,
				Spec: node.Version,
				Type: depgraph.EdgeProd,
			})
		}
	}
	common.Debug("Materialized %d nodes from lockfile (version %d).", len(it.nodes), it.lock.LockfileVersion)
	return root, nil
}

// node builds the depgraph view of one lockfile entry. The entry at
// the empty location is the project root; entries outside any
// node_modules directory are workspace packages.
func (it *graph) node(location string, entry lockPackage) *depgraph.Node {
	name := entry.Name
	if len(name) == 0 {
		name = nameFromLocation(location)
	}
	version := entry.Version
	if location == "" {
		if len(name) == 0 {
			name = it.lock.Name
		}
		if len(version) == 0 {
			version = it.lock.Version
		}
	}
	return &depgraph.Node{
		PkgID:         name + "@" + version,
		Name:          name,
		Version:       version,
		Location:      location,
		License:       string(entry.License),
		Homepage:      entry.Homepage,
		Resolved:      entry.Resolved,
		Integrity:     entry.Integrity,
		IsLink:        entry.Link,
		IsRoot:        location == "",
		IsProjectRoot: location == "",
		IsWorkspace:   location != "" && !strings.Contains(location, "node_modules"),
		Extraneous:    entry.Extraneous,
	}
}

// connect appends the node's outgoing edges in a fixed kind-then-name
// order, so edge order (and with it relationship order in generated
// documents) never depends on map iteration.
func (it *graph) connect(node *depgraph.Node, entry lockPackage) {
	if node.IsLink {
		return
	}
	seen := make(map[string]bool)
	it.edges(node, entry.Dependencies, depgraph.EdgeProd, seen)
	it.edges(node, entry.DevDependencies, depgraph.EdgeDev, seen)
	peerKind := func(name string) depgraph.EdgeType {
		if meta, ok := entry.PeerDependenciesMeta[name]; ok && meta.Optional {
			return depgraph.EdgePeerOptional
		}
		return depgraph.EdgePeer
	}
	for _, name := range sortedKeys(entry.PeerDependencies) {
		if seen[name] {
			continue
		}
		seen[name] = true
		it.edge(node, name, entry.PeerDependencies[name], peerKind(name))
	}
	it.edges(node, entry.OptionalDependencies, depgraph.EdgeOptional, seen)
}

func (it *graph) edges(node *depgraph.Node, specs map[string]string, kind depgraph.EdgeType, seen map[string]bool) {
	for _, name := range sortedKeys(specs) {
		if seen[name] {
			continue
		}
		seen[name] = true
		it.edge(node, name, specs[name], kind)
	}
}

func (it *graph) edge(node *depgraph.Node, name, spec string, kind depgraph.EdgeType) {
	target := it.resolve(node.Location, name)
	edge := &depgraph.Edge{
		From: node,
		To:   target,
		Name: name,
		Spec: spec,
		Type: kind,
	}
	switch {
	case target == nil:
		edge.Missing = true
	case !specSatisfied(spec, target.Version):
		edge.Invalid = true
	}
	node.Edges = append(node.Edges, edge)
}

// resolve finds the installed instance a dependency name binds to,
// walking up the node_modules nesting the way the npm loader does.
// Links are followed to their workspace targets.
func (it *graph) resolve(location, name string) *depgraph.Node {
	for {
		candidate := "node_modules/" + name
		if len(location) > 0 {
			candidate = location + "/" + candidate
		}
		if node, ok := it.nodes[candidate]; ok {
			return it.followLink(node)
		}
		if len(location) == 0 {
			return nil
		}
		location = parentLocation(location)
	}
}

func (it *graph) followLink(node *depgraph.Node) *depgraph.Node {
	if !node.IsLink || len(node.Resolved) == 0 {
		return node
	}
	if target, ok := it.nodes[node.Resolved]; ok {
		return target
	}
	return node
}

func parentLocation(location string) string {
	cut := strings.LastIndex(location, "node_modules/")
	if cut < 0 {
		return ""
	}
	return strings.TrimSuffix(location[:cut], "/")
}

func nameFromLocation(location string) string {
	cut := strings.LastIndex(location, "node_modules/")
	if cut < 0 {
		slash := strings.LastIndex(location, "/")
		return location[slash+1:]
	}
	return location[cut+len("node_modules/"):]
}

func sortedKeys(specs map[string]string) []string {
	keys := make([]string, 0, len(specs))
	for key := range specs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// specSatisfied validates a resolved version against a declared spec
// where the spec is expressible as a plain version or comparison
// range. Full npm range syntax (caret, tilde, alternation, wildcards)
// belongs to the resolver; such specs count as satisfied here.
func specSatisfied(spec, version string) bool {
	trimmed := strings.TrimSpace(spec)
	if len(trimmed) == 0 || trimmed == "*" || trimmed == "latest" {
		return true
	}
	if strings.ContainsAny(trimmed, "^~|xX*") || strings.Contains(trimmed, " - ") {
		return true
	}
	constraint, err := goversion.NewConstraint(strings.Join(strings.Fields(trimmed), ", "))
	if err != nil {
		return true
	}
	resolved, err := goversion.NewVersion(version)
	if err != nil {
		return true
	}
	return constraint.Check(resolved)
}
