package main

import (
	"encoding/json"
	"fmt"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:     "page",
	Short:   "Read and write page sections",
	GroupID: "content",
}

var pageShowCmd = &cobra.Command{
	Use:   "show <section>",
	Short: "Show one page section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section, err := adminClient.Section(cmd.Context(), model.CollectionPages, args[0])
		if err != nil {
			return err
		}
		printJSON(section)
		return nil
	},
}

var pageSetCmd = &cobra.Command{
	Use:   "set <section>",
	Short: "Replace one page section from a JSON payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := readFields(cmd)
		if err != nil {
			return err
		}
		var data map[string]any
		if err := json.Unmarshal(fields, &data); err != nil {
			return fmt.Errorf("--data must be a JSON object: %w", err)
		}
		if err := adminClient.SaveSection(cmd.Context(), model.CollectionPages, args[0], data); err != nil {
			return err
		}
		fmt.Printf("section %q saved\n", args[0])
		return nil
	},
}

func init() {
	pageSetCmd.Flags().String("data", "", "section fields as a JSON object (- for stdin)")

	pageCmd.AddCommand(pageShowCmd)
	pageCmd.AddCommand(pageSetCmd)
}
