package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "piggy-point-plan",
	Short: "Piggy Point Plan - personal budgeting with PiggyPoints",
	Long: `Piggy Point Plan is a personal budgeting service.

It provides a REST API for tracking transactions, budgets and savings
projects, a PiggyPoints progression system with daily rewards and
achievements, a cosmetic shop, and an AI financial advisor.

Run 'piggy-point-plan serve' to start the server, or
'piggy-point-plan seed' to load the achievement and shop catalogs.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}
