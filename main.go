package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "fourwheels",
	Short:        "FourWheels vehicle marketplace API",
	Long:         "FourWheels serves the vehicle marketplace REST API. Running it without a subcommand starts the server.",
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(routeListCmd)
}
