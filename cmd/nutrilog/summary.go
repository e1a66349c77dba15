package nutrilog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nutrilog/nutrilog/internal/service"
	"github.com/spf13/cobra"
)

var summaryUser string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show recent daily, weekly, and monthly progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(summaryUser); err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			s, err := service.GetProgressSummary(sqldb, summaryUser, time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Last 7 days:")
			if len(s.Daily) == 0 {
				fmt.Fprintln(out, "  no daily stats")
			}
			for _, d := range s.Daily {
				fmt.Fprintf(out, "  %s\t%.0f kcal\tP %.1fg C %.1fg F %.1fg\t%d meals\n",
					d.Date, d.Calories, d.ProteinG, d.CarbsG, d.FatG, d.MealCount)
			}

			fmt.Fprintln(out, "Last 4 weeks:")
			if len(s.Weekly) == 0 {
				fmt.Fprintln(out, "  no weekly stats")
			}
			for _, w := range s.Weekly {
				fmt.Fprintf(out, "  %s to %s\t%.0f kcal total\t%.1f avg\t%d days tracked\n",
					w.WeekStart, w.WeekEnd, w.TotalCalories, w.AvgCalories, w.DaysTracked)
			}

			fmt.Fprintln(out, "Last 3 months:")
			if len(s.Monthly) == 0 {
				fmt.Fprintln(out, "  no monthly stats")
			}
			for _, m := range s.Monthly {
				fmt.Fprintf(out, "  %d-%02d\t%.0f kcal total\t%.1f avg\t%d/%d days (%.0f%%)\tlongest streak %d\n",
					m.Year, m.Month, m.TotalCalories, m.AvgCalories, m.DaysTracked, m.TotalDaysInMonth, m.TrackingPercentage, m.LongestStreak)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryUser, "user", "", "User id (UUID)")
}
