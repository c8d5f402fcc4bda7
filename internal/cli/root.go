// Package cli implements finovoctl, the operator command line for the
// finovo database: migrations, seeding, admin grants and trial cleanup.
package cli

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/apps/expenses"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/config"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/logging"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "finovoctl",
		Short:         "Finovo operator tools",
		Long:          `finovoctl runs maintenance tasks against the finovo database using the same environment configuration as the server.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newMakeAdminCommand(),
		newCleanupCommand(),
	)
	return root
}

// openDB loads config, connects and migrates. The caller closes the pool.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	logging.Setup("text", cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db, expenses.New().Models()...); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return cfg, db, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo user and sample expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			res, err := Seed(cmd.Context(), db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s (%d expenses created)\n", res.Email, res.ExpensesCreated)
			return nil
		},
	}
}

func newMakeAdminCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "make-admin <email>",
		Short: "Grant admin rights to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			user, err := services.NewAuthService(db, cfg).MakeAdmin(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("make-admin %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", user.Email)
			return nil
		},
	}
}
