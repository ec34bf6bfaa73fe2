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

var iarImportFile string

var iarImportCmd = &cobra.Command{
	Use:   "iar:import",
	Short: "Import inspection and acceptance records from an xlsx file",
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()

		data, err := os.ReadFile(iarImportFile)
		if err != nil {
			fmt.Printf("Failed to read file: %v\n", err)
			return
		}

		parsed, err := uploadService.ParseIARSheet(data)
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
		iarRepo, err := repo.NewIARRepository(db)
		if err != nil {
			fmt.Printf("Repository init failed: %v\n", err)
			return
		}
		poRepo, err := repo.NewPORepository(db)
		if err != nil {
			fmt.Printf("Repository init failed: %v\n", err)
			return
		}

		res, err := uploadService.CommitIARRows(iarRepo, poRepo, parsed.AllValidRows)
		if err != nil {
			fmt.Printf("Commit failed: %v\n", err)
			return
		}

		fmt.Printf(`
=== IAR Import Report ===
Sheet:          %s
Sheet rows:     %d
Valid rows:     %d
Row errors:     %d
Inserted:       %d
Skipped dupes:  %d
Total time:     %s
=========================
`, parsed.SheetName, parsed.TotalRows, parsed.ValidRowsCount, len(parsed.Errors),
			res.InsertedCount, res.SkippedDuplicates, time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	iarImportCmd.Flags().StringVarP(&iarImportFile, "file", "f", "", "xlsx file path (required)")
	iarImportCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(iarImportCmd)
}
