package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var identitiesCmd = &cobra.Command{
	Use:     "identities",
	Short:   "Show the merged account/member identity view",
	GroupID: "membership",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := adminClient.Identities(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(views)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tORIGIN\tROLE\tNAME\tMEMBER_NUMBER\tACTIVE")
		for _, v := range views {
			active := "no"
			if v.Active {
				active = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				v.Key, v.Origin, v.Role, v.Name, v.MemberNumber, active)
		}
		w.Flush()
		fmt.Printf("\n%d identities\n", len(views))
		return nil
	},
}
