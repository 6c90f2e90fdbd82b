package main

import (
	"encoding/json"
	"fmt"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list <collection>",
	Short:   "List records in a collection",
	GroupID: "content",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ := model.CollectionType(args[0])
		data, err := adminClient.List(cmd.Context(), typ)
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(json.RawMessage(data))
			return nil
		}

		if c, ok := model.Lookup(typ); ok && c.Envelope == model.EnvelopeSections {
			var sections map[string]map[string]any
			if err := json.Unmarshal(data, &sections); err != nil {
				return fmt.Errorf("decoding sections: %w", err)
			}
			for name := range sections {
				fmt.Println(name)
			}
			return nil
		}

		return printRecordTable(typ, data)
	},
}
