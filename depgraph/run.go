package depgraph

// Run carries every annotation one traversal produces: the edge type a
// node was reached through, missing and invalid markers, and the
// visited bookkeeping. Annotations never touch the resolver-owned
// graph, so concurrent or repeated runs over the same tree cannot leak
// state into each other.
type Run struct {
	types   map[*Node]EdgeType
	missing map[*Node]string
	invalid map[*Node]bool
	visited map[string]*Node
	order   []*Node
}

func NewRun() *Run {
	return &Run{
		types:   make(map[*Node]EdgeType),
		missing: make(map[*Node]string),
		invalid: make(map[*Node]bool),
		visited: make(map[string]*Node),
	}
}

// EdgeType reports the relation kind recorded for the node during
// traversal. Nodes never annotated (the root, extraneous children)
// count as production dependencies.
func (it *Run) EdgeType(node *Node) EdgeType {
	if kind, ok := it.types[node]; ok {
		return kind
	}
	return EdgeProd
}

// markEdgeType records the relation kind for a node. The first
// recorded kind wins: a node reachable through several edges keeps the
// kind of the edge that discovered it. This tie-break is deliberate
// and tested, not an accident of iteration order.
func (it *Run) markEdgeType(node *Node, kind EdgeType) {
	if _, ok := it.types[node]; !ok {
		it.types[node] = kind
	}
}

// RequiredBy reports the package identifier that required a node which
// was never resolved, when the node is such a placeholder.
func (it *Run) RequiredBy(node *Node) (string, bool) {
	parent, ok := it.missing[node]
	return parent, ok
}

func (it *Run) markMissing(node *Node, requiredBy string) {
	it.missing[node] = requiredBy
}

// Invalid reports whether some edge reaching the node was flagged
// invalid by the resolver.
func (it *Run) Invalid(node *Node) bool {
	return it.invalid[node]
}

// markInvalid returns true only on the first marking, so each node
// yields at most one invalid problem.
func (it *Run) markInvalid(node *Node) bool {
	if it.invalid[node] {
		return false
	}
	it.invalid[node] = true
	return true
}

// seen tells whether the installed instance at the node's path was
// already visited. Keying by path keeps one instance from being listed
// twice even when it is reachable along several routes.
func (it *Run) seen(node *Node) bool {
	_, ok := it.visited[node.Location]
	return ok
}

func (it *Run) visit(node *Node) {
	it.visited[node.Location] = node
	it.order = append(it.order, node)
}

// Visited returns every node recorded by the traversal in discovery
// order, placeholders included.
func (it *Run) Visited() []*Node {
	return it.order
}
