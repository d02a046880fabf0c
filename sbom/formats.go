package sbom

import (
	"fmt"
)

// FormatType represents the SBOM format type.
type FormatType string

const (
	// FormatSPDX represents the SPDX SBOM format.
	FormatSPDX FormatType = "spdx"
	// FormatCycloneDX represents the CycloneDX SBOM format.
	FormatCycloneDX FormatType = "cyclonedx"
)

// SPDXMediaType is the media type for SPDX JSON format.
const SPDXMediaType = "application/spdx+json"

// CycloneDXMediaType is the media type for CycloneDX JSON format.
const CycloneDXMediaType = "application/vnd.cyclonedx+json"

// ParseFormat parses a format string into a FormatType.
func ParseFormat(format string) (FormatType, error) {
	switch format {
	case "spdx", "SPDX":
		return FormatSPDX, nil
	case "cyclonedx", "CycloneDX", "CYCLONEDX":
		return FormatCycloneDX, nil
	default:
		return "", fmt.Errorf("unsupported SBOM format: %s (supported: spdx, cyclonedx)", format)
	}
}

// MediaType returns the appropriate media type for the given format.
func MediaType(format FormatType) string {
	switch format {
	case FormatSPDX:
		return SPDXMediaType
	case FormatCycloneDX:
		return CycloneDXMediaType
	default:
		return "application/json"
	}
}
