// Package main provides the careerflow agent CLI and HTTP server entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerflow_agent",
	Short: "Resume AI orchestration agent",
	Long:  "Careerflow agent routes resume requests to specialized AI capabilities (job match, bullet enhancement, company research, translation) and manages immutable resume versions.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
