package sbom

import (
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected FormatType
		wantErr  bool
	}{
		{"spdx", FormatSPDX, false},
		{"SPDX", FormatSPDX, false},
		{"cyclonedx", FormatCycloneDX, false},
		{"CycloneDX", FormatCycloneDX, false},
		{"CYCLONEDX", FormatCycloneDX, false},
		{"invalid", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		format   FormatType
		expected string
	}{
		{FormatSPDX, SPDXMediaType},
		{FormatCycloneDX, CycloneDXMediaType},
		{"unknown", "application/json"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := MediaType(tt.format)
			if got != tt.expected {
				t.Errorf("MediaType(%q) = %v, want %v", tt.format, got, tt.expected)
			}
		})
	}
}

func TestNewBuilderMatchesFormat(t *testing.T) {
	for _, format := range []FormatType{FormatSPDX, FormatCycloneDX} {
		builder, err := NewBuilder(format)
		if err != nil {
			t.Fatalf("NewBuilder(%q) error = %v", format, err)
		}
		if builder.Format() != format {
			t.Errorf("NewBuilder(%q).Format() = %v", format, builder.Format())
		}
	}
	if _, err := NewBuilder("nope"); err == nil {
		t.Error("NewBuilder(\"nope\") expected error")
	}
}
