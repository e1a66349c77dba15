package nutrilog

import (
	"database/sql"
	"fmt"

	"github.com/nutrilog/nutrilog/internal/service"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profiles for target calculation",
}

var (
	profileUser     string
	profileAge      int
	profileSex      string
	profileWeight   float64
	profileHeight   float64
	profileActivity string
	profileDiet     string
	profileGoal     string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace a user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(profileUser); err != nil {
			return err
		}
		in := service.SetProfileInput{
			UserID:        profileUser,
			Sex:           profileSex,
			ActivityLevel: profileActivity,
			DietType:      profileDiet,
			PrimaryGoal:   profileGoal,
		}
		if cmd.Flags().Changed("age") {
			in.Age = &profileAge
		}
		if cmd.Flags().Changed("weight") {
			in.WeightKg = &profileWeight
		}
		if cmd.Flags().Changed("height") {
			in.HeightCm = &profileHeight
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetProfile(sqldb, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile for %s\n", profileUser)
			return nil
		})
	},
}

var profileShowUser string

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireUser(profileShowUser); err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.GetProfile(sqldb, profileShowUser)
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile stored for this user")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User: %s\n", p.UserID)
			if p.Age != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Age: %d\n", *p.Age)
			}
			if p.Sex != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Sex: %s\n", p.Sex)
			}
			if p.WeightKg != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Weight: %.1f kg\n", *p.WeightKg)
			}
			if p.HeightCm != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Height: %.1f cm\n", *p.HeightCm)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Activity: %s\n", p.ActivityLevel)
			fmt.Fprintf(cmd.OutOrStdout(), "Diet: %s\n", p.DietType)
			fmt.Fprintf(cmd.OutOrStdout(), "Goal: %s\n", p.PrimaryGoal)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd, profileShowCmd)

	profileSetCmd.Flags().StringVar(&profileUser, "user", "", "User id (UUID)")
	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileSetCmd.Flags().StringVar(&profileSex, "sex", "", "Sex: male or female")
	profileSetCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Weight in kg")
	profileSetCmd.Flags().Float64Var(&profileHeight, "height", 0, "Height in cm")
	profileSetCmd.Flags().StringVar(&profileActivity, "activity", "", "Activity level: sedentary, light, moderate, active, very_active")
	profileSetCmd.Flags().StringVar(&profileDiet, "diet", "", "Diet type, e.g. keto or low carb")
	profileSetCmd.Flags().StringVar(&profileGoal, "goal", "", "Primary goal, e.g. weight loss or muscle gain")

	profileShowCmd.Flags().StringVar(&profileShowUser, "user", "", "User id (UUID)")
}
