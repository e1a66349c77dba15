package nutrilog

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/nutrilog/nutrilog/internal/model"
	"github.com/nutrilog/nutrilog/internal/service"
	"github.com/spf13/cobra"
)

var targetsUser string

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show personalized nutrient targets and what remains today",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(targetsUser); err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			profile, err := service.GetProfile(sqldb, targetsUser)
			if err != nil {
				return err
			}
			if profile == nil || !profile.Complete() {
				return fmt.Errorf("profile is incomplete: targets need age, sex, weight, and height (see 'nutrilog profile set')")
			}

			// Today's consumption comes from a fresh daily rollup so the
			// remaining figures reflect everything logged so far.
			stats, err := service.AggregateDaily(sqldb, targetsUser, time.Now())
			if err != nil {
				return err
			}
			consumed := service.ConsumedTotals{
				Calories:       stats.Calories,
				ProteinG:       stats.ProteinG,
				CarbsG:         stats.CarbsG,
				FatG:           stats.FatG,
				Micronutrients: stats.Micronutrients,
			}

			t := service.CalculateTargets(*profile, consumed)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "BMR: %.2f kcal\n", t.BMR)
			fmt.Fprintf(out, "TDEE: %d kcal\n", t.TDEE)
			fmt.Fprintf(out, "Calorie target: %d kcal\n", t.Calories)
			fmt.Fprintf(out, "Macro targets: P %dg | C %dg | F %dg\n", t.ProteinG, t.CarbsG, t.FatG)
			fmt.Fprintf(out, "Remaining today: %.0f kcal | P %.1fg | C %.1fg | F %.1fg\n",
				t.RemainingCalories, t.RemainingProteinG, t.RemainingCarbsG, t.RemainingFatG)
			fmt.Fprintln(out, "Micronutrient targets (remaining):")
			printMicroTargets(out, t.Micronutrients, t.RemainingMicros)
			return nil
		})
	},
}

func printMicroTargets(out io.Writer, target, remain model.Micronutrients) {
	rows := []struct {
		label          string
		target, remain float64
	}{
		{"vitamin C (mg)", target.VitaminC, remain.VitaminC},
		{"iron (mg)", target.Iron, remain.Iron},
		{"calcium (mg)", target.Calcium, remain.Calcium},
		{"vitamin D (IU)", target.VitaminD, remain.VitaminD},
		{"vitamin A (mcg)", target.VitaminA, remain.VitaminA},
		{"vitamin B12 (mcg)", target.VitaminB12, remain.VitaminB12},
		{"magnesium (mg)", target.Magnesium, remain.Magnesium},
		{"potassium (mg)", target.Potassium, remain.Potassium},
		{"zinc (mg)", target.Zinc, remain.Zinc},
	}
	for _, r := range rows {
		fmt.Fprintf(out, "  %-18s %8.1f (%.1f left)\n", r.label, r.target, r.remain)
	}
}

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.Flags().StringVar(&targetsUser, "user", "", "User id (UUID)")
}
