package sbom

import (
	"time"

	"github.com/google/uuid"

	"github.com/lockbom/lockbom/depgraph"
)

// CycloneDXLicense represents a license in CycloneDX format.
type CycloneDXLicense struct {
	License CycloneDXLicenseChoice `json:"license"`
}

type CycloneDXLicenseChoice struct {
	Name string `json:"name"`
}

// CycloneDXHash represents a component hash in CycloneDX format.
type CycloneDXHash struct {
	Algorithm string `json:"alg"`
	Content   string `json:"content"`
}

// CycloneDXExternalReference represents an external reference in
// CycloneDX format.
type CycloneDXExternalReference struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// CycloneDXProperty is a name/value pair in the cdx property taxonomy.
type CycloneDXProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CycloneDXComponent represents a component in CycloneDX format.
type CycloneDXComponent struct {
	BomRef             string                       `json:"bom-ref"`
	Type               string                       `json:"type"`
	Name               string                       `json:"name"`
	Version            string                       `json:"version"`
	Scope              string                       `json:"scope,omitempty"`
	Purl               string                       `json:"purl"`
	Licenses           []CycloneDXLicense           `json:"licenses,omitempty"`
	Hashes             []CycloneDXHash              `json:"hashes,omitempty"`
	ExternalReferences []CycloneDXExternalReference `json:"externalReferences,omitempty"`
	Properties         []CycloneDXProperty          `json:"properties,omitempty"`
}

// CycloneDXTool represents a tool in CycloneDX format.
type CycloneDXTool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CycloneDXMetadata represents metadata in CycloneDX format.
type CycloneDXMetadata struct {
	Timestamp string              `json:"timestamp"`
	Tools     []CycloneDXTool     `json:"tools"`
	Component *CycloneDXComponent `json:"component,omitempty"`
}

// CycloneDXDependency records which components a component depends on.
type CycloneDXDependency struct {
	Ref       string   `json:"ref"`
	DependsOn []string `json:"dependsOn"`
}

// CycloneDX represents the complete CycloneDX SBOM document.
type CycloneDX struct {
	BomFormat    string                `json:"bomFormat"`
	SpecVersion  string                `json:"specVersion"`
	SerialNumber string                `json:"serialNumber"`
	Version      int                   `json:"version"`
	Metadata     CycloneDXMetadata     `json:"metadata"`
	Components   []CycloneDXComponent  `json:"components"`
	Dependencies []CycloneDXDependency `json:"dependencies"`
}

func (it *CycloneDX) Format() FormatType {
	return FormatCycloneDX
}

func (it *CycloneDX) Subject() string {
	if it.Metadata.Component == nil {
		return ""
	}
	return it.Metadata.Component.BomRef
}

type cyclonedxBuilder struct{}

func (it cyclonedxBuilder) Format() FormatType {
	return FormatCycloneDX
}

// Build assembles a CycloneDX 1.5 document. The root package becomes
// the metadata component, every other node a component, and the
// dependency relations land in the dependencies section. Relation
// kinds map onto the CycloneDX vocabulary through the component scope
// (optional vs required) and the cdx:npm development property.
func (it cyclonedxBuilder) Build(result *depgraph.Result, options Options) (Document, error) {
	root, err := rootOf(result.Nodes)
	if err != nil {
		return nil, err
	}

	toolName, toolVersion := splitIdentity(options.tool())
	rootComponent := cyclonedxComponent(root, result.Run, options.packageType())
	document := &CycloneDX{
		BomFormat:    "CycloneDX",
		SpecVersion:  "1.5",
		SerialNumber: "urn:uuid:" + uuid.NewString(),
		Version:      1,
		Metadata: CycloneDXMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Tools: []CycloneDXTool{
				{
					Name:    toolName,
					Version: toolVersion,
				},
			},
			Component: &rootComponent,
		},
		Components:   make([]CycloneDXComponent, 0, len(result.Nodes)-1),
		Dependencies: make([]CycloneDXDependency, 0, len(result.Nodes)),
	}

	for _, node := range result.Nodes {
		if node != root {
			document.Components = append(document.Components, cyclonedxComponent(node, result.Run, "library"))
		}
		dependency := CycloneDXDependency{
			Ref:       node.PkgID,
			DependsOn: make([]string, 0, len(node.EdgesOut())),
		}
		listed := make(map[string]bool)
		for _, edge := range node.EdgesOut() {
			if edge.To == nil {
				continue
			}
			target, ok := result.Canonical(edge.To)
			if !ok || listed[target.PkgID] {
				continue
			}
			listed[target.PkgID] = true
			dependency.DependsOn = append(dependency.DependsOn, target.PkgID)
		}
		document.Dependencies = append(document.Dependencies, dependency)
	}
	return document, nil
}

func cyclonedxComponent(node *depgraph.Node, run *depgraph.Run, componentType string) CycloneDXComponent {
	component := CycloneDXComponent{
		BomRef:  node.PkgID,
		Type:    componentType,
		Name:    node.Name,
		Version: node.Version,
		Purl:    PackageURL(node),
	}
	if !node.IsRoot {
		component.Scope = "required"
		if run.EdgeType(node).Optional() {
			component.Scope = "optional"
		}
	}
	if len(node.License) > 0 {
		component.Licenses = []CycloneDXLicense{
			{License: CycloneDXLicenseChoice{Name: node.License}},
		}
	}
	if algorithm, digest, ok := ParseIntegrity(node.Integrity); ok {
		component.Hashes = []CycloneDXHash{
			{
				Algorithm: cyclonedxHashAlg(algorithm),
				Content:   digest,
			},
		}
	}
	if len(node.Homepage) > 0 {
		component.ExternalReferences = append(component.ExternalReferences, CycloneDXExternalReference{
			Type: "website",
			URL:  node.Homepage,
		})
	}
	if len(node.Resolved) > 0 {
		component.ExternalReferences = append(component.ExternalReferences, CycloneDXExternalReference{
			Type: "distribution",
			URL:  node.Resolved,
		})
	}
	properties := make([]CycloneDXProperty, 0, 3)
	if len(node.Location) > 0 {
		properties = append(properties, CycloneDXProperty{Name: "cdx:npm:package:path", Value: node.Location})
	}
	if run.EdgeType(node) == depgraph.EdgeDev {
		properties = append(properties, CycloneDXProperty{Name: "cdx:npm:package:development", Value: "true"})
	}
	if node.Extraneous {
		properties = append(properties, CycloneDXProperty{Name: "cdx:npm:package:extraneous", Value: "true"})
	}
	if len(properties) > 0 {
		component.Properties = properties
	}
	return component
}
