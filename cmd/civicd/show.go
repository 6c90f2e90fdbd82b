package main

import (
	"encoding/json"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <collection> <id>",
	Short:   "Show a single record",
	GroupID: "content",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ := model.CollectionType(args[0])
		data, err := adminClient.Get(cmd.Context(), typ, args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(json.RawMessage(data))
			return nil
		}
		return printRecordDetail(typ, data)
	},
}
