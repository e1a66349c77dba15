package nutrilog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nutrilog/nutrilog/internal/service"
	"github.com/spf13/cobra"
)

var backfillUser string

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Rebuild the last 90 days of statistics for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(backfillUser); err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.Backfill(sqldb, backfillUser, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backfilled statistics for %s\n", backfillUser)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	backfillCmd.Flags().StringVar(&backfillUser, "user", "", "User id (UUID)")
}
