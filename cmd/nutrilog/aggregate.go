package nutrilog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nutrilog/nutrilog/internal/model"
	"github.com/nutrilog/nutrilog/internal/service"
	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Recompute daily, weekly, or monthly statistics",
}

var (
	aggUser  string
	aggDate  string
	aggYear  int
	aggMonth int
)

var aggregateDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Aggregate one day of meals into a daily stats row",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(aggUser); err != nil {
			return err
		}
		day, err := parseDateOrNow(aggDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			stats, err := service.AggregateDaily(sqldb, aggUser, day)
			if err != nil {
				return err
			}
			printDailyStats(cmd, stats)
			return nil
		})
	},
}

var aggregateWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Aggregate the week containing a date into a weekly stats row",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(aggUser); err != nil {
			return err
		}
		day, err := parseDateOrNow(aggDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			stats, err := service.AggregateWeekly(sqldb, aggUser, day)
			if err != nil {
				return err
			}
			if stats == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No daily stats in that week; nothing aggregated")
				return nil
			}
			printWeeklyStats(cmd, stats)
			return nil
		})
	},
}

var aggregateMonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Aggregate one calendar month into a monthly stats row",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(aggUser); err != nil {
			return err
		}
		year, month := aggYear, aggMonth
		if year == 0 || month == 0 {
			now := time.Now()
			year, month = now.Year(), int(now.Month())
		}
		return withDB(func(sqldb *sql.DB) error {
			stats, err := service.AggregateMonthly(sqldb, aggUser, year, month)
			if err != nil {
				return err
			}
			if stats == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No daily stats in that month; nothing aggregated")
				return nil
			}
			printMonthlyStats(cmd, stats)
			return nil
		})
	},
}

func printDailyStats(cmd *cobra.Command, s *model.DailyStats) {
	fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", s.Date)
	fmt.Fprintf(cmd.OutOrStdout(), "Calories: %.0f\n", s.Calories)
	fmt.Fprintf(cmd.OutOrStdout(), "Macros: P %.1fg | C %.1fg | F %.1fg\n", s.ProteinG, s.CarbsG, s.FatG)
	fmt.Fprintf(cmd.OutOrStdout(), "By meal: breakfast %.0f | lunch %.0f | dinner %.0f | snacks %.0f\n",
		s.BreakfastCalories, s.LunchCalories, s.DinnerCalories, s.SnackCalories)
	fmt.Fprintf(cmd.OutOrStdout(), "Meals: %d\n", s.MealCount)
}

func printWeeklyStats(cmd *cobra.Command, s *model.WeeklyStats) {
	fmt.Fprintf(cmd.OutOrStdout(), "Week: %s to %s (ISO week %d, %d)\n", s.WeekStart, s.WeekEnd, s.WeekNumber, s.Year)
	fmt.Fprintf(cmd.OutOrStdout(), "Total: %.0f kcal | P %.1fg | C %.1fg | F %.1fg\n", s.TotalCalories, s.TotalProteinG, s.TotalCarbsG, s.TotalFatG)
	fmt.Fprintf(cmd.OutOrStdout(), "Average per tracked day: %.1f kcal | P %.1fg | C %.1fg | F %.1fg\n", s.AvgCalories, s.AvgProteinG, s.AvgCarbsG, s.AvgFatG)
	fmt.Fprintf(cmd.OutOrStdout(), "Days tracked: %d | Meals: %d | Streak days: %d\n", s.DaysTracked, s.TotalMeals, s.GoalStreakDays)
}

func printMonthlyStats(cmd *cobra.Command, s *model.MonthlyStats) {
	fmt.Fprintf(cmd.OutOrStdout(), "Month: %d-%02d (%s to %s)\n", s.Year, s.Month, s.MonthStart, s.MonthEnd)
	fmt.Fprintf(cmd.OutOrStdout(), "Total: %.0f kcal | P %.1fg | C %.1fg | F %.1fg\n", s.TotalCalories, s.TotalProteinG, s.TotalCarbsG, s.TotalFatG)
	fmt.Fprintf(cmd.OutOrStdout(), "Average per tracked day: %.1f kcal | P %.1fg | C %.1fg | F %.1fg\n", s.AvgCalories, s.AvgProteinG, s.AvgCarbsG, s.AvgFatG)
	fmt.Fprintf(cmd.OutOrStdout(), "Days tracked: %d/%d (%.0f%%)\n", s.DaysTracked, s.TotalDaysInMonth, s.TrackingPercentage)
	fmt.Fprintf(cmd.OutOrStdout(), "Streak days: %d | Longest streak: %d\n", s.GoalStreakDays, s.LongestStreak)
	for _, w := range s.WeeklyBreakdown {
		fmt.Fprintf(cmd.OutOrStdout(), "  week %d (%s to %s): %.0f kcal total, %.1f avg\n",
			w.WeekNumber, w.WeekStart, w.WeekEnd, w.TotalCalories, w.AvgCalories)
	}
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggregateCmd.AddCommand(aggregateDailyCmd, aggregateWeeklyCmd, aggregateMonthlyCmd)

	aggregateCmd.PersistentFlags().StringVar(&aggUser, "user", "", "User id (UUID)")
	aggregateDailyCmd.Flags().StringVar(&aggDate, "date", "", "Date YYYY-MM-DD (default today)")
	aggregateWeeklyCmd.Flags().StringVar(&aggDate, "date", "", "Any date in the target week (default today)")
	aggregateMonthlyCmd.Flags().IntVar(&aggYear, "year", 0, "Year (default current)")
	aggregateMonthlyCmd.Flags().IntVar(&aggMonth, "month", 0, "Month 1-12 (default current)")
}
