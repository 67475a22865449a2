package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "admindash",
		Short:        "Admin dashboard API",
		Long:         `admindash serves the CRUD API behind the admin dashboard: users, plans, payments, templates, support tickets, FAQs and settings.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newSeedCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("admindash %s (commit: %s)\n", version, commit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
