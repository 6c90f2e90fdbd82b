package main

import (
	"encoding/json"
	"fmt"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:     "review <collection> <id>",
	Short:   "Update the review fields of an inquiry or application",
	GroupID: "content",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ := model.CollectionType(args[0])

		patch := map[string]any{}
		if status, _ := cmd.Flags().GetString("status"); status != "" {
			patch["status"] = status
		}
		if cmd.Flags().Changed("priority") {
			priority, _ := cmd.Flags().GetInt("priority")
			patch["priority"] = priority
		}
		if notes, _ := cmd.Flags().GetString("notes"); notes != "" {
			patch["notes"] = notes
		}
		if by, _ := cmd.Flags().GetString("reviewed-by"); by != "" {
			patch["reviewed_by"] = by
		}
		if len(patch) == 0 {
			return fmt.Errorf("nothing to update; pass --status, --priority, --notes, or --reviewed-by")
		}

		data, err := adminClient.PartialUpdate(cmd.Context(), typ, args[1], patch)
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
	reviewCmd.Flags().String("status", "", "review status (new, in_review, resolved, archived)")
	reviewCmd.Flags().Int("priority", 0, "review priority")
	reviewCmd.Flags().String("notes", "", "reviewer notes")
	reviewCmd.Flags().String("reviewed-by", "", "reviewer name")
}
