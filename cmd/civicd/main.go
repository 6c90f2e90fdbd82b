package main

import (
	"os"

	"github.com/alderbrook/civicd/internal/client"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool

	adminClient client.AdminClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("CIVICD_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("CIVICD_AUTH_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "civicd <command>",
	Short: "CLI client for the civicd content service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		adminClient = client.NewHTTPClient(httpURL, authToken, "")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if adminClient != nil {
			adminClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "content", Title: "Content:"},
		&cobra.Group{ID: "membership", Title: "Membership:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Content
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(pageCmd)

	// Membership
	rootCmd.AddCommand(identitiesCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
