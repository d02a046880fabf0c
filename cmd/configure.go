package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lockbom/lockbom/common"
	"github.com/lockbom/lockbom/depgraph"
	"github.com/lockbom/lockbom/pretty"
	"github.com/lockbom/lockbom/sbom"
	"github.com/lockbom/lockbom/xviper"
)

var (
	defaultFormat string
	defaultOmits  []string
)

var configureCmd = &cobra.Command{
	Use:     "configure",
	Aliases: []string{"config", "conf"},
	Short:   "Show and change persistent lockbom configuration.",
	Run: func(cmd *cobra.Command, args []string) {
		changed := false
		if len(defaultFormat) > 0 {
			format, err := sbom.ParseFormat(defaultFormat)
			pretty.Guard(err == nil, 1, "%v", err)
			xviper.Set("sbom.format", string(format))
			common.Log("Default SBOM format is now %q.", format)
			changed = true
		}
		if len(defaultOmits) > 0 {
			for _, entry := range defaultOmits {
				_, err := depgraph.ParseEdgeType(entry)
				pretty.Guard(err == nil, 1, "%v", err)
			}
			xviper.Set("sbom.omit", strings.Join(defaultOmits, ","))
			common.Log("Default omitted dependency types are now %q.", strings.Join(defaultOmits, ","))
			changed = true
		}
		if changed {
			pretty.Ok()
			return
		}
		common.Stdout("configuration file: %s\n", xviper.ConfigFileUsed())
		common.Stdout("instance identity:  %s\n", xviper.InstanceIdentity())
		common.Stdout("default format:     %s\n", formatChoice())
		if omits := omitChoice(); len(omits) > 0 {
			common.Stdout("default omits:      %s\n", strings.Join(omits, ","))
		}
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
	configureCmd.Flags().StringVar(&defaultFormat, "default-format", "", "persist given format as the default for sbom generation")
	configureCmd.Flags().StringSliceVar(&defaultOmits, "default-omit", nil, "persist given dependency types as the default omit set")
}
