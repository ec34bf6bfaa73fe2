package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "protrack",
	Short: "Procurement tracking CLI",
	Long:  "CLI for the procurement tracking service: spreadsheet imports, migrations, cron jobs.",
}

// Execute runs the root command. Custom commands registered via Register are
// attached first.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
