package main

import (
	"context"
	"log"
	"time"

	"go-docflow/internal/config"
	"go-docflow/internal/database"
	"go-docflow/internal/features/workflow"
	"go-docflow/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type cli struct {
	file string
	drop bool
	seed *SeedFile
}

func setupFlags(cmd *cobra.Command, c *cli) {
	cmd.Flags().StringVarP(&c.file, "file", "f", "organization.json", "Path to the organization seed file.")
	cmd.Flags().BoolVar(&c.drop, "drop", false, "Drop the organization collections before seeding.")
}

func (c *cli) load(cmd *cobra.Command, args []string) error {
	f, err := LoadSeedFile(c.file)
	if err != nil {
		return err
	}
	c.seed = f
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	var runErr error
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			logger.NewLogger,
			workflow.NewWorkflowRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(func(lc fx.Lifecycle, db *database.MongodbDB, workflows workflow.WorkflowRepository, log *zap.Logger, shutdowner fx.Shutdowner) {
			seeder := &Seeder{DB: db, Workflows: workflows, Logger: log}
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
						defer cancel()
						code := 0
						if runErr = seeder.Run(ctx, c.seed, c.drop); runErr != nil {
							log.Error("Seeding failed", zap.Error(runErr))
							code = 1
						}
						if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
							log.Error("Failed to shutdown", zap.Error(err))
						}
					}()
					return nil
				},
			})
		}),
	)

	app.Run()
	return runErr
}

func main() {
	c := &cli{}
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load branches, departments, roles, users and workflows into Mongo",
		PreRunE:      c.load,
		RunE:         c.run,
		SilenceUsage: true,
	}
	setupFlags(cmd, c)

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
