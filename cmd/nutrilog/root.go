package nutrilog

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "nutrilog",
	Short: "nutrilog aggregates food intake into daily, weekly, and monthly statistics",
	Long:  "nutrilog is a local-first food intake statistics tool with meal logging, periodic rollups, streaks, retention, and personalized nutrient targets.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}
