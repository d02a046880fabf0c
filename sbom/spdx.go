package sbom

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lockbom/lockbom/depgraph"
)

// SPDXCreationInfo represents creation info in SPDX format.
type SPDXCreationInfo struct {
	Created  string   `json:"created"`
	Creators []string `json:"creators"`
}

// SPDXExternalRef represents an external reference in SPDX format.
type SPDXExternalRef struct {
	ReferenceCategory string `json:"referenceCategory"`
	ReferenceType     string `json:"referenceType"`
	ReferenceLocator  string `json:"referenceLocator"`
}

// SPDXChecksum represents a package checksum in SPDX format.
type SPDXChecksum struct {
	Algorithm     string `json:"algorithm"`
	ChecksumValue string `json:"checksumValue"`
}

// SPDXPackage represents a package in SPDX format.
type SPDXPackage struct {
	SPDXID                string            `json:"SPDXID"`
	Name                  string            `json:"name"`
	VersionInfo           string            `json:"versionInfo"`
	PrimaryPackagePurpose string            `json:"primaryPackagePurpose"`
	DownloadLocation      string            `json:"downloadLocation"`
	FilesAnalyzed         bool              `json:"filesAnalyzed"`
	Homepage              string            `json:"homepage"`
	LicenseDeclared       string            `json:"licenseDeclared"`
	CopyrightText         string            `json:"copyrightText"`
	SourceInfo            string            `json:"sourceInfo,omitempty"`
	ExternalRefs          []SPDXExternalRef `json:"externalRefs,omitempty"`
	Checksums             []SPDXChecksum    `json:"checksums,omitempty"`
}

// SPDXRelationship represents a relationship between elements in SPDX.
type SPDXRelationship struct {
	SpdxElementID      string `json:"spdxElementId"`
	RelationshipType   string `json:"relationshipType"`
	RelatedSpdxElement string `json:"relatedSpdxElement"`
}

// SPDX represents the complete SPDX SBOM document.
type SPDX struct {
	SPDXVersion       string             `json:"spdxVersion"`
	DataLicense       string             `json:"dataLicense"`
	SPDXID            string             `json:"SPDXID"`
	Name              string             `json:"name"`
	DocumentNamespace string             `json:"documentNamespace"`
	CreationInfo      SPDXCreationInfo   `json:"creationInfo"`
	Packages          []SPDXPackage      `json:"packages"`
	Relationships     []SPDXRelationship `json:"relationships"`
}

func (it *SPDX) Format() FormatType {
	return FormatSPDX
}

func (it *SPDX) Subject() string {
	return it.Name
}

type spdxBuilder struct{}

func (it spdxBuilder) Format() FormatType {
	return FormatSPDX
}

// Build assembles an SPDX 2.3 document: one package record per node,
// one relationship per edge whose target survived traversal, and a
// single DESCRIBES relationship from the document to the root.
func (it spdxBuilder) Build(result *depgraph.Result, options Options) (Document, error) {
	root, err := rootOf(result.Nodes)
	if err != nil {
		return nil, err
	}

	ids := make(map[*depgraph.Node]string, len(result.Nodes))
	for _, node := range result.Nodes {
		ids[node] = SpdxID(node)
	}

	document := &SPDX{
		SPDXVersion:       "SPDX-2.3",
		DataLicense:       "CC0-1.0",
		SPDXID:            "SPDXRef-DOCUMENT",
		Name:              root.PkgID,
		DocumentNamespace: fmt.Sprintf("%s/%s-%s", options.namespaceBase(), root.Name, uuid.NewString()),
		CreationInfo: SPDXCreationInfo{
			Created:  time.Now().UTC().Format(time.RFC3339),
			Creators: []string{"Tool: " + options.tool()},
		},
		Packages: make([]SPDXPackage, 0, len(result.Nodes)),
		Relationships: []SPDXRelationship{
			{
				SpdxElementID:      "SPDXRef-DOCUMENT",
				RelationshipType:   "DESCRIBES",
				RelatedSpdxElement: ids[root],
			},
		},
	}

	for _, node := range result.Nodes {
		document.Packages = append(document.Packages, spdxPackage(node, ids[node], node == root, options))
	}
	listed := make(map[SPDXRelationship]bool)
	for _, node := range result.Nodes {
		for _, edge := range node.EdgesOut() {
			if edge.To == nil {
				continue
			}
			target, ok := result.Canonical(edge.To)
			if !ok {
				continue
			}
			relationship := SPDXRelationship{
				SpdxElementID:      ids[node],
				RelationshipType:   spdxRelationshipType(edge.Type),
				RelatedSpdxElement: ids[target],
			}
			if listed[relationship] {
				continue
			}
			listed[relationship] = true
			document.Relationships = append(document.Relationships, relationship)
		}
	}
	return document, nil
}

func spdxPackage(node *depgraph.Node, id string, isRoot bool, options Options) SPDXPackage {
	purpose := "LIBRARY"
	if isRoot {
		purpose = spdxPurpose(options.packageType())
	}
	pkg := SPDXPackage{
		SPDXID:                id,
		Name:                  node.Name,
		VersionInfo:           node.Version,
		PrimaryPackagePurpose: purpose,
		DownloadLocation:      orNoAssertion(node.Resolved),
		FilesAnalyzed:         false,
		Homepage:              orNoAssertion(node.Homepage),
		LicenseDeclared:       orNoAssertion(node.License),
		CopyrightText:         NoAssertion,
		ExternalRefs: []SPDXExternalRef{
			{
				ReferenceCategory: "PACKAGE-MANAGER",
				ReferenceType:     "npm",
				ReferenceLocator:  node.PkgID,
			},
			{
				ReferenceCategory: "PACKAGE-MANAGER",
				ReferenceType:     "purl",
				ReferenceLocator:  PackageURL(node),
			},
		},
	}
	if len(node.Location) > 0 {
		pkg.SourceInfo = "installed at " + node.Location
	}
	if algorithm, digest, ok := ParseIntegrity(node.Integrity); ok {
		pkg.Checksums = []SPDXChecksum{
			{
				Algorithm:     algorithm,
				ChecksumValue: digest,
			},
		}
	}
	return pkg
}

func spdxPurpose(packageType string) string {
	switch packageType {
	case "library":
		return "LIBRARY"
	case "framework":
		return "FRAMEWORK"
	case "container":
		return "CONTAINER"
	default:
		return "APPLICATION"
	}
}

func spdxRelationshipType(kind depgraph.EdgeType) string {
	switch kind {
	case depgraph.EdgePeer:
		return "HAS_PREREQUISITE"
	case depgraph.EdgeOptional:
		return "OPTIONAL_DEPENDENCY_OF"
	case depgraph.EdgeDev:
		return "DEV_DEPENDENCY_OF"
	default:
		return "DEPENDS_ON"
	}
}

func orNoAssertion(value string) string {
	if len(value) > 0 {
		return value
	}
	return NoAssertion
}
