// Package sbom builds Software Bill of Materials documents from a
// walked dependency graph. It supports the SPDX 2.3 and CycloneDX 1.5
// JSON models behind one builder interface.
package sbom
