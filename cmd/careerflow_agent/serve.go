package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/careerflow-agent/internal/config"
	"github.com/jonathan/careerflow-agent/internal/server"
)

var (
	servePort       int
	serveConfigFile string
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing the chat, natural-language chat, resume version, and edit application endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigFile, "config", "", "Path to JSON config file")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Render company pages in a headless browser when plain fetch yields too little text")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Config{
		Port:       servePort,
		UseBrowser: serveUseBrowser,
	}
	if serveConfigFile != "" {
		fileCfg, err := config.LoadConfig(serveConfigFile)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	srv, err := server.New(context.Background(), server.Config{
		Port:        cfg.Port,
		DatabaseURL: cfg.DatabaseURL,
		APIKey:      cfg.APIKey,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		UseBrowser:  cfg.UseBrowser,
		Models:      cfg.Models,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
