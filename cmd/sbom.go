package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lockbom/lockbom/common"
	"github.com/lockbom/lockbom/depgraph"
	"github.com/lockbom/lockbom/lockfile"
	"github.com/lockbom/lockbom/pretty"
	"github.com/lockbom/lockbom/sbom"
	"github.com/lockbom/lockbom/settings"
	"github.com/lockbom/lockbom/xviper"
)

var (
	sbomFormat     string
	sbomOutput     string
	sbomOmits      []string
	sbomType       string
	sbomWorkspaces []string
	sbomAllSpaces  bool
)

var sbomCmd = &cobra.Command{
	Use:   "sbom [package-lock.json]",
	Short: "Generate a Software Bill of Materials from a lockfile.",
	Long: `Generate a Software Bill of Materials from a resolved dependency
graph. Input is a package-lock.json (lockfileVersion 2 or 3); output is
an SPDX or CycloneDX JSON document.

Any missing or invalid dependency in the graph fails the whole run and
reports the complete problem set, so the tree can be repaired in one go.

Examples:
  # SPDX document for the lockfile in the current directory
  lockbom sbom --sbom-format spdx

  # CycloneDX without development dependencies, into a file
  lockbom sbom --sbom-format cyclonedx --omit dev --output bom.json

  # include only the named workspace
  lockbom sbom --workspace api package-lock.json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if common.DebugFlag() {
			defer common.Stopwatch("SBOM command lasted").Report()
		}

		source := "package-lock.json"
		if len(args) > 0 {
			source = args[0]
		}
		root, err := lockfile.Load(source)
		pretty.Guard(err == nil, 1, "%v", err)

		filters := depgraph.Filters{
			Omit:              make(map[depgraph.EdgeType]bool),
			Workspaces:        sbomWorkspaces,
			WorkspacesEnabled: sbomAllSpaces || len(sbomWorkspaces) > 0,
		}
		for _, entry := range omitChoice() {
			kind, err := depgraph.ParseEdgeType(entry)
			pretty.Guard(err == nil, 1, "%v", err)
			filters.Omit[kind] = true
		}

		result := depgraph.Walk(root, filters)
		err = result.Gate()
		pretty.Guard(err == nil, 2, "Dependency problems found:\n%v", err)

		format, err := sbom.ParseFormat(formatChoice())
		pretty.Guard(err == nil, 3, "%v", err)
		builder, err := sbom.NewBuilder(format)
		pretty.Guard(err == nil, 3, "%v", err)

		packageType := sbomType
		if len(packageType) == 0 {
			packageType = settings.Global.DefaultPackageType()
		}
		document, err := builder.Build(result, sbom.Options{
			PackageType:   packageType,
			NamespaceBase: settings.Global.DocumentNamespace(),
			Tool:          settings.Global.ToolIdentity(),
		})
		pretty.Guard(err == nil, 4, "Failed to build %s document: %v", format, err)

		content, err := json.MarshalIndent(document, "", "  ")
		pretty.Guard(err == nil, 4, "Failed to serialize document: %v", err)
		content = append(content, '\n')

		if len(sbomOutput) > 0 {
			err = os.WriteFile(sbomOutput, content, 0o644)
			pretty.Guard(err == nil, 5, "Failed to write %q: %v", sbomOutput, err)
			common.Log("Wrote %s document (%s) describing %q with %d packages to %q.", format, sbom.MediaType(format), document.Subject(), len(result.Nodes), sbomOutput)
			pretty.Ok()
		} else {
			common.Stdout("%s", content)
		}
	},
}

// omitChoice resolves which dependency types to leave out: explicit
// flags first, then the persisted user default.
func omitChoice() []string {
	if len(sbomOmits) > 0 {
		return sbomOmits
	}
	if remembered := xviper.GetString("sbom.omit"); len(remembered) > 0 {
		return strings.Split(remembered, ",")
	}
	return nil
}

// formatChoice resolves the output format: explicit flag first, then
// the persisted user default, then the settings default.
func formatChoice() string {
	if len(sbomFormat) > 0 {
		return sbomFormat
	}
	if remembered := xviper.GetString("sbom.format"); len(remembered) > 0 {
		return remembered
	}
	return settings.Global.DefaultFormat()
}

func init() {
	rootCmd.AddCommand(sbomCmd)
	sbomCmd.Flags().StringVarP(&sbomFormat, "sbom-format", "f", "", "SBOM output format (spdx or cyclonedx)")
	sbomCmd.Flags().StringVarP(&sbomOutput, "output", "o", "", "write the document to given file instead of stdout")
	sbomCmd.Flags().StringSliceVar(&sbomOmits, "omit", nil, "dependency types to leave out (prod, dev, peer, peerOptional, optional)")
	sbomCmd.Flags().StringVar(&sbomType, "package-type", "", "primary purpose hint for the root package (application, library, framework, container)")
	sbomCmd.Flags().StringSliceVar(&sbomWorkspaces, "workspace", nil, "include only given workspaces (repeatable)")
	sbomCmd.Flags().BoolVar(&sbomAllSpaces, "workspaces", false, "include all workspaces")
}
