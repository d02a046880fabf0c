package depgraph

import (
	"fmt"
	"strings"
)

// EdgeType is the semantic category of a dependency relation.
type EdgeType string

const (
	EdgeProd         EdgeType = `prod`
	EdgeDev          EdgeType = `dev`
	EdgePeer         EdgeType = `peer`
	EdgePeerOptional EdgeType = `peerOptional`
	EdgeOptional     EdgeType = `optional`
)

// Optional tells whether an unresolved target of this relation is
// acceptable instead of being a structural problem.
func (it EdgeType) Optional() bool {
	return it == EdgeOptional || it == EdgePeerOptional
}

func ParseEdgeType(text string) (EdgeType, error) {
	switch strings.TrimSpace(text) {
	case "prod", "production":
		return EdgeProd, nil
	case "dev", "development":
		return EdgeDev, nil
	case "peer":
		return EdgePeer, nil
	case "peerOptional", "peer-optional":
		return EdgePeerOptional, nil
	case "optional":
		return EdgeOptional, nil
	default:
		return "", fmt.Errorf("unknown dependency type: %q (supported: prod, dev, peer, peerOptional, optional)", text)
	}
}

// Node is one resolved dependency instance as delivered by the
// resolver. The walker treats nodes as read only and keeps all of its
// own bookkeeping in a Run.
type Node struct {
	PkgID         string
	Name          string
	Version       string
	Location      string
	License       string
	Homepage      string
	Resolved      string
	Integrity     string
	IsLink        bool
	IsRoot        bool
	IsWorkspace   bool
	IsProjectRoot bool
	Extraneous    bool
	Edges         []*Edge
	Children      []*Node
}

// EdgesOut returns the declared outgoing dependency relations.
func (it *Node) EdgesOut() []*Edge {
	return it.Edges
}

// ChildNodes returns the nodes installed directly under this node,
// including extraneous ones that no edge reaches.
func (it *Node) ChildNodes() []*Node {
	return it.Children
}

func (it *Node) String() string {
	return it.PkgID
}

// Edge is a directed dependency relation. To is nil when the resolver
// never materialized a target for the declared name/spec.
type Edge struct {
	From    *Node
	To      *Node
	Name    string
	Spec    string
	Type    EdgeType
	Invalid bool
	Missing bool
}

// Unresolved tells whether this edge has no usable target node.
func (it *Edge) Unresolved() bool {
	return it.To == nil || it.Missing
}

// Wanted is the package identifier the edge asked for, such as
// "foo@^2.0.0".
func (it *Edge) Wanted() string {
	return it.Name + "@" + it.Spec
}
