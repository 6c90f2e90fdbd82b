package main

import (
	"encoding/json"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:     "update <collection> <id>",
	Short:   "Replace a record's fields from a JSON payload",
	GroupID: "content",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ := model.CollectionType(args[0])
		fields, err := readFields(cmd)
		if err != nil {
			return err
		}

		data, err := adminClient.Update(cmd.Context(), typ, args[1], fields)
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

func init() {
	updateCmd.Flags().String("data", "", "record fields as a JSON object (- for stdin)")
}
