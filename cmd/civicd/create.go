package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/spf13/cobra"
)

// readFields reads the record payload from --data, or from stdin when the
// flag value is "-".
func readFields(cmd *cobra.Command) (json.RawMessage, error) {
	data, _ := cmd.Flags().GetString("data")
	if data == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return raw, nil
	}
	if data == "" {
		return nil, fmt.Errorf("--data is required (JSON object, or - for stdin)")
	}
	return json.RawMessage(data), nil
}

var createCmd = &cobra.Command{
	Use:     "create <collection>",
	Short:   "Create a record from a JSON payload",
	GroupID: "content",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ := model.CollectionType(args[0])
		fields, err := readFields(cmd)
		if err != nil {
			return err
		}

		data, err := adminClient.Create(cmd.Context(), typ, fields)
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
	createCmd.Flags().String("data", "", "record fields as a JSON object (- for stdin)")
}
