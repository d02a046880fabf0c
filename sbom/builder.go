package sbom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lockbom/lockbom/common"
	"github.com/lockbom/lockbom/depgraph"
)

// ErrNoRoot signals that no node in the builder input was flagged as
// the root package. Building cannot proceed without one.
var ErrNoRoot = errors.New("no package in the dependency graph is marked as root")

// Options carries the format independent knobs of a build.
type Options struct {
	// PackageType is the primary purpose hint for the root package,
	// such as "application" or "library".
	PackageType string
	// NamespaceBase is the URL prefix for generated document
	// namespaces.
	NamespaceBase string
	// Tool overrides the generating tool identity string.
	Tool string
}

func (it Options) packageType() string {
	if len(it.PackageType) > 0 {
		return it.PackageType
	}
	return "application"
}

func (it Options) namespaceBase() string {
	if len(it.NamespaceBase) > 0 {
		return it.NamespaceBase
	}
	return "https://lockbom.dev/spdxdocs"
}

func (it Options) tool() string {
	if len(it.Tool) > 0 {
		return it.Tool
	}
	return common.ToolIdentity()
}

// Document is a fully assembled SBOM ready for serialization. Concrete
// documents are plain JSON-taggable structs with order-stable slices.
type Document interface {
	Format() FormatType
	// Subject is the package identifier of the root package the
	// document describes.
	Subject() string
}

// Builder turns an error-free walk result into one document. The two
// implementations share this contract and differ only in output shape.
type Builder interface {
	Format() FormatType
	Build(result *depgraph.Result, options Options) (Document, error)
}

// NewBuilder selects the builder for the requested format.
func NewBuilder(format FormatType) (Builder, error) {
	switch format {
	case FormatSPDX:
		return spdxBuilder{}, nil
	case FormatCycloneDX:
		return cyclonedxBuilder{}, nil
	default:
		return nil, fmt.Errorf("unsupported SBOM format: %s", format)
	}
}

// splitIdentity breaks a tool identity such as "lockbom v0.4.1" into
// separate name and version parts.
func splitIdentity(identity string) (string, string) {
	name, version, found := strings.Cut(identity, " ")
	if !found {
		return identity, ""
	}
	return name, version
}

func rootOf(nodes []*depgraph.Node) (*depgraph.Node, error) {
	for _, node := range nodes {
		if node.IsRoot {
			return node, nil
		}
	}
	return nil, ErrNoRoot
}
