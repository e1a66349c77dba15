package nutrilog

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at release time; dev builds fall back to the
// module version embedded by the toolchain.
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version/build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if v == "" {
			v = "devel"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				v = info.Main.Version
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "nutrilog %s\n", v)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
