package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "croptrack",
	Short: "CropTrack - plant lot record keeping",
	Long: `CropTrack tracks plant species, planted lots, growth measurements
and harvests, and generates QR codes for lot traceability.

Run 'croptrack serve' to start the API server, or 'croptrack seed' to
load a species catalog from a JSON file.`,
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
