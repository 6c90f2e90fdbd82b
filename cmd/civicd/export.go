package main

import (
	"fmt"
	"os"

	"github.com/alderbrook/civicd/internal/store/filedoc"
	docsync "github.com/alderbrook/civicd/internal/sync"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export all collections as a JSONL snapshot",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// Local export reads the data directory directly; no HTTP client needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		if dataDir == "" {
			dataDir = os.Getenv("CIVICD_DATA_DIR")
		}
		if dataDir == "" {
			return fmt.Errorf("--data-dir or CIVICD_DATA_DIR is required")
		}

		store, err := filedoc.New(dataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		out := os.Stdout
		if path, _ := cmd.Flags().GetString("output"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		return docsync.ExportJSONL(cmd.Context(), store, out)
	},
}

func init() {
	exportCmd.Flags().String("data-dir", "", "data directory holding the collection documents")
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}
