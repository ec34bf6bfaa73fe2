package cmd

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"protrack.GO/config"
)

var migrationsPath string

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := newMigrator()
		if err != nil {
			fmt.Printf("Migrate init failed: %v\n", err)
			return
		}
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("No pending migrations.")
				return
			}
			fmt.Printf("Migrate failed: %v\n", err)
			return
		}
		fmt.Println("Migrations applied.")
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "db:rollback",
	Short: "Roll back the most recent migration",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := newMigrator()
		if err != nil {
			fmt.Printf("Migrate init failed: %v\n", err)
			return
		}
		if err := m.Steps(-1); err != nil {
			fmt.Printf("Rollback failed: %v\n", err)
			return
		}
		fmt.Println("Rolled back one migration.")
	},
}

func newMigrator() (*migrate.Migrate, error) {
	return migrate.New("file://"+migrationsPath, "mysql://"+config.MigrateDSN())
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")
	rollbackCmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(rollbackCmd)
}
