package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/careerflow-agent/internal/observability"
)

var versionsResumeID string

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List a resume's version history, newest first",
	RunE:  runVersions,
}

func init() {
	versionsCmd.Flags().StringVar(&versionsResumeID, "resume-id", "", "Resume ID (required)")
	_ = versionsCmd.MarkFlagRequired("resume-id")
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(_ *cobra.Command, _ []string) error {
	resumeID, err := uuid.Parse(versionsResumeID)
	if err != nil {
		return fmt.Errorf("invalid resume id: %w", err)
	}

	ctx := context.Background()
	pg, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer pg.Close()

	resume, err := pg.GetResume(ctx, resumeID)
	if err != nil {
		return err
	}
	versions, err := pg.ListVersions(ctx, resumeID)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintVersions(resume.Name, versions)
	return nil
}
