package main

import (
	"fmt"

	"github.com/alderbrook/civicd/internal/model"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <collection> <id>",
	Short:   "Delete a record (member-role accounts cascade)",
	GroupID: "content",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ := model.CollectionType(args[0])
		if err := adminClient.Delete(cmd.Context(), typ, args[1]); err != nil {
			return err
		}
		fmt.Printf("deleted %s %s\n", typ, args[1])
		return nil
	},
}
