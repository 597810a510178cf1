package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "patientdesk",
		Short:        "Patient records desk",
		Long:         "Keep patient records in a local database and export them to a spreadsheet.\nWith no subcommand the terminal desk is started.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}
	rootCmd.PersistentFlags().String("db", "", "database file or postgres:// URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}
