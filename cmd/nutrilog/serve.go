package nutrilog

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/app"
	"github.com/nutrilog/nutrilog/internal/config"
	"github.com/nutrilog/nutrilog/internal/db"
	"github.com/nutrilog/nutrilog/internal/logger"
	"github.com/nutrilog/nutrilog/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the aggregation scheduler in the foreground",
	Long:  "serve runs the cron-driven daily, weekly, and monthly aggregation batches plus the retention sweep until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		bootstrap, err := logger.New("dev")
		if err != nil {
			return err
		}
		cfg := config.Load(bootstrap)
		_ = bootstrap.Sync()

		log, err := logger.New(cfg.LogMode)
		if err != nil {
			return err
		}
		defer log.Sync()

		path := dbPath
		if path == "" {
			path = cfg.DBPath
		}
		if path == "" {
			if path, err = app.DefaultDBPath(); err != nil {
				return err
			}
		}
		if err := app.EnsureDBDir(path); err != nil {
			return err
		}
		sqldb, err := db.Open(path)
		if err != nil {
			return err
		}
		defer sqldb.Close()
		if err := db.ApplyMigrations(sqldb); err != nil {
			return err
		}

		batch := scheduler.NewBatch(sqldb, log)
		c := cron.New()
		if err := batch.Register(c, cfg.Schedules); err != nil {
			return err
		}
		c.Start()
		log.Info("scheduler started",
			zap.String("db", path),
			zap.String("daily", cfg.Schedules.Daily),
			zap.String("weekly", cfg.Schedules.Weekly),
			zap.String("monthly", cfg.Schedules.Monthly),
			zap.String("retention", cfg.Schedules.Retention))

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		ctx := c.Stop()
		<-ctx.Done()
		log.Info("scheduler stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
