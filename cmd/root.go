package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lockbom/lockbom/common"
	"github.com/lockbom/lockbom/pretty"
)

var (
	debugFlag      bool
	traceFlag      bool
	silentFlag     bool
	logLinenumbers bool
	homeDirectory  string
)

var rootCmd = &cobra.Command{
	Use:   "lockbom",
	Short: "lockbom turns resolved dependency graphs into SBOM documents.",
	Long: `lockbom turns resolved npm dependency graphs (package-lock.json)
into Software Bill of Materials documents, in SPDX or CycloneDX JSON
format. The document goes to stdout or a file; logs go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree. Errors end the process through the
// pretty exit protocol so main can flush logs first.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pretty.Guard(false, 1, "Error: %v", err)
	}
}

func init() {
	cobra.OnInitialize(initCommands)
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "to get debug output where available (not for production use)")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false, "to get trace output where available (not for production use)")
	rootCmd.PersistentFlags().BoolVar(&silentFlag, "silent", false, "be less verbose on output")
	rootCmd.PersistentFlags().BoolVar(&logLinenumbers, "numbers", false, "put line numbers on log output")
	rootCmd.PersistentFlags().StringVar(&homeDirectory, "lockbom-home", "", "where settings and configuration live (default $LOCKBOM_HOME or ~/.lockbom)")
	rootCmd.PersistentFlags().BoolVar(&pretty.Colorless, "colorless", false, "do not use colors in output")
}

func initCommands() {
	if len(homeDirectory) > 0 {
		common.ForceHome(homeDirectory)
	}
	common.DefineVerbosity(silentFlag, debugFlag, traceFlag)
	common.LogLinenumbers = logLinenumbers
	pretty.Setup()
}
