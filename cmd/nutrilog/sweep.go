package nutrilog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nutrilog/nutrilog/internal/service"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete statistics older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			result, err := service.SweepRetention(sqldb, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d daily, %d weekly, %d monthly stats rows\n",
				result.DailyDeleted, result.WeeklyDeleted, result.MonthlyDeleted)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
