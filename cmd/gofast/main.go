// Package main provides the entry point for the GoFast HTTP API server
// and its companion CLI tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gofast",
	Short: "GoFast social running server",
	Long:  "GoFast turns pasted run announcements into structured run records, schedules crew runs with RSVPs, and surfaces nearby races via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
