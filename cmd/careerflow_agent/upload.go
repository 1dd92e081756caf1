package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/careerflow-agent/internal/store"
)

var (
	uploadFile string
	uploadName string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a resume file as a new resume with an initial version",
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadFile, "file", "f", "", "Path to resume text file (required)")
	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "Resume name (defaults to the file name)")
	_ = uploadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(_ *cobra.Command, _ []string) error {
	text, err := os.ReadFile(uploadFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	if len(text) == 0 {
		return fmt.Errorf("resume file is empty")
	}

	name := uploadName
	if name == "" {
		name = filepath.Base(uploadFile)
	}

	ctx := context.Background()
	pg, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer pg.Close()

	resume, err := pg.CreateResume(ctx, name)
	if err != nil {
		return err
	}
	version, err := pg.CreateVersion(ctx, resume.ID, nil, string(text))
	if err != nil {
		return err
	}

	fmt.Printf("Resume:  %s (%s)\n", resume.Name, resume.ID)
	fmt.Printf("Version: %s (v%d)\n", version.ID, version.Seq)
	fmt.Printf("Preview: %s\n", version.Preview)
	return nil
}

// connectStore opens the Postgres-backed version store from DATABASE_URL.
func connectStore(ctx context.Context) (*store.PostgresStore, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return store.Connect(ctx, databaseURL)
}
