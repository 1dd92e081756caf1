package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/careerflow-agent/internal/edits"
	"github.com/jonathan/careerflow-agent/internal/observability"
	"github.com/jonathan/careerflow-agent/internal/types"
)

var (
	applyResumeID    string
	applyBaseVersion string
	applyEditsFile   string
)

var applyEditsCmd = &cobra.Command{
	Use:   "apply-edits",
	Short: "Apply accepted edits to a base version, creating a new version",
	Long:  `Reads a JSON array of {before, after, explanation} edits and applies them against the given base version. Edits whose before text is not found are skipped; a new immutable version is created from the rest.`,
	RunE:  runApplyEdits,
}

func init() {
	applyEditsCmd.Flags().StringVar(&applyResumeID, "resume-id", "", "Resume ID (required)")
	applyEditsCmd.Flags().StringVar(&applyBaseVersion, "base-version", "", "Base version ID (required)")
	applyEditsCmd.Flags().StringVar(&applyEditsFile, "edits-file", "", "Path to JSON file with the edits to apply (required)")
	_ = applyEditsCmd.MarkFlagRequired("resume-id")
	_ = applyEditsCmd.MarkFlagRequired("base-version")
	_ = applyEditsCmd.MarkFlagRequired("edits-file")
	rootCmd.AddCommand(applyEditsCmd)
}

func runApplyEdits(_ *cobra.Command, _ []string) error {
	resumeID, err := uuid.Parse(applyResumeID)
	if err != nil {
		return fmt.Errorf("invalid resume id: %w", err)
	}
	baseVersionID, err := uuid.Parse(applyBaseVersion)
	if err != nil {
		return fmt.Errorf("invalid base version id: %w", err)
	}

	data, err := os.ReadFile(applyEditsFile)
	if err != nil {
		return fmt.Errorf("failed to read edits file: %w", err)
	}
	var editList []types.Edit
	if err := json.Unmarshal(data, &editList); err != nil {
		return fmt.Errorf("failed to parse edits file: %w", err)
	}

	ctx := context.Background()
	pg, err := connectStore(ctx)
	if err != nil {
		return err
	}
	defer pg.Close()

	result, err := edits.NewApplicator(pg).Apply(ctx, resumeID, baseVersionID, editList)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintEditResult(result)
	return nil
}
