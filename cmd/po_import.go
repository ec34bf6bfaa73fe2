package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"protrack.GO/config"
	repo "protrack.GO/model/repository/procurement"
	uploadService "protrack.GO/service/upload"
)

var poImportFile string

var poImportCmd = &cobra.Command{
	Use:   "po:import",
	Short: "Import purchase-order line items from an xlsx file",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()

		data, err := os.ReadFile(poImportFile)
		if err != nil {
			fmt.Printf("Failed to read file: %v\n", err)
			return
		}

		parsed, err := uploadService.ParsePOSheet(data)
		if err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			return
		}
		for _, e := range parsed.Errors {
			fmt.Printf("  [row %d] %s\n", e.Index, e.Message)
		}

		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}
		poRepo, err := repo.NewPORepository(db)
		if err != nil {
			fmt.Printf("Repository init failed: %v\n", err)
			return
		}

		res, err := uploadService.CommitPORows(poRepo, parsed.AllValidRows)
		if err != nil {
			fmt.Printf("Commit failed: %v\n", err)
			return
		}

		fmt.Printf(`
=== PO Import Report ===
Sheet:          %s
Sheet rows:     %d
Valid rows:     %d
Row errors:     %d
Inserted:       %d
Skipped dupes:  %d
Total time:     %s
========================
`, parsed.SheetName, parsed.TotalRows, parsed.ValidRowsCount, len(parsed.Errors),
			res.InsertedCount, res.SkippedDuplicates, time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	poImportCmd.Flags().StringVarP(&poImportFile, "file", "f", "", "xlsx file path (required)")
	poImportCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(poImportCmd)
}
