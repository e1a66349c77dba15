package nutrilog

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/nutrilog/nutrilog/internal/service"
	"github.com/spf13/cobra"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log and list meals",
}

var (
	mealUser     string
	mealName     string
	mealCalories float64
	mealDate     string
	mealTime     string
	mealMicros   []string
	mealItems    []string
)

var mealAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a meal with optional food items",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(mealUser); err != nil {
			return err
		}
		eaten, err := parseDateTimeOrNow(mealDate, mealTime)
		if err != nil {
			return err
		}
		micros, err := parseMicroFlags(mealMicros)
		if err != nil {
			return err
		}
		items := make([]service.LogMealItemInput, 0, len(mealItems))
		for _, raw := range mealItems {
			item, err := parseItemFlag(raw)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		in := service.LogMealInput{
			UserID:         mealUser,
			Name:           mealName,
			Calories:       mealCalories,
			Micronutrients: micros,
			EatenAt:        eaten,
			Items:          items,
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.LogMeal(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged meal %d\n", id)
			return nil
		})
	},
}

var (
	mealListUser string
	mealListDate string
)

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(mealListUser); err != nil {
			return err
		}
		day, err := parseDateOrNow(mealListDate)
		if err != nil {
			return err
		}
		start := service.StartOfDay(day)
		return withDB(func(sqldb *sql.DB) error {
			meals, err := service.ListMealsByUserAndDateRange(sqldb, mealListUser, start, start.AddDate(0, 0, 1))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tTIME\tNAME\tKCAL\tITEMS")
			for _, m := range meals {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%.0f\t%d\n", m.ID, m.EatenAt.Local().Format("15:04"), m.Name, m.Calories, len(m.Items))
				for _, it := range m.Items {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s %.1f%s\t%.0f kcal\tP %.1fg C %.1fg F %.1fg\n", it.Name, it.Quantity, it.Unit, it.Calories, it.ProteinG, it.CarbsG, it.FatG)
				}
			}
			return nil
		})
	},
}

// parseItemFlag parses one --item value of the form
// name|quantity|unit|calories|protein|carbs|fat. Trailing fields may be
// omitted and default to zero.
func parseItemFlag(raw string) (service.LogMealItemInput, error) {
	parts := strings.Split(raw, "|")
	if len(parts) < 1 || strings.TrimSpace(parts[0]) == "" {
		return service.LogMealItemInput{}, fmt.Errorf("invalid --item %q (expected name|qty|unit|kcal|protein|carbs|fat)", raw)
	}
	item := service.LogMealItemInput{Name: strings.TrimSpace(parts[0]), Quantity: 1}
	numeric := []*float64{nil, &item.Quantity, nil, &item.Calories, &item.ProteinG, &item.CarbsG, &item.FatG}
	for i := 1; i < len(parts) && i < len(numeric); i++ {
		field := strings.TrimSpace(parts[i])
		if i == 2 {
			item.Unit = field
			continue
		}
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return service.LogMealItemInput{}, fmt.Errorf("invalid --item field %q in %q", field, raw)
		}
		*numeric[i] = v
	}
	return item, nil
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealAddCmd, mealListCmd)

	mealAddCmd.Flags().StringVar(&mealUser, "user", "", "User id (UUID)")
	mealAddCmd.Flags().StringVar(&mealName, "name", "", "Meal name")
	mealAddCmd.Flags().Float64Var(&mealCalories, "calories", 0, "Meal calories")
	mealAddCmd.Flags().StringVar(&mealDate, "date", "", "Date in YYYY-MM-DD")
	mealAddCmd.Flags().StringVar(&mealTime, "time", "", "Time in HH:MM")
	mealAddCmd.Flags().StringArrayVar(&mealMicros, "micro", nil, "Micronutrient amount as code=amount (repeatable)")
	mealAddCmd.Flags().StringArrayVar(&mealItems, "item", nil, "Food item as name|qty|unit|kcal|protein|carbs|fat (repeatable)")
	_ = mealAddCmd.MarkFlagRequired("name")

	mealListCmd.Flags().StringVar(&mealListUser, "user", "", "User id (UUID)")
	mealListCmd.Flags().StringVar(&mealListDate, "date", "", "Date YYYY-MM-DD (default today)")
}
