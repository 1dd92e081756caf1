package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/careerflow-agent/internal/agents"
	"github.com/jonathan/careerflow-agent/internal/config"
	"github.com/jonathan/careerflow-agent/internal/llm"
	"github.com/jonathan/careerflow-agent/internal/observability"
	"github.com/jonathan/careerflow-agent/internal/orchestrator"
	"github.com/jonathan/careerflow-agent/internal/research"
	"github.com/jonathan/careerflow-agent/internal/routing"
	"github.com/jonathan/careerflow-agent/internal/store"
	"github.com/jonathan/careerflow-agent/internal/types"
)

var (
	chatResumeFile string
	chatMessage    string
	chatJobFile    string
	chatJobURL     string
	chatCompany    string
	chatCompanyURL string
	chatRole       string
	chatConfigFile string
	chatAPIKey     string
	chatUseBrowser bool
	chatVerbose    bool
	chatJSONOutput bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run one orchestrated request against a resume file",
	Long:  "Routes the message (plus job description and company context) to the matching agents and prints the merged result. Runs against an in-memory version store; nothing is persisted.",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatResumeFile, "resume", "r", "", "Path to resume text file")
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Free-form request message")
	chatCmd.Flags().StringVarP(&chatJobFile, "job", "j", "", "Path to job posting text file")
	chatCmd.Flags().StringVar(&chatJobURL, "job-url", "", "URL to fetch the job posting from")
	chatCmd.Flags().StringVar(&chatCompany, "company", "", "Target company name")
	chatCmd.Flags().StringVar(&chatCompanyURL, "company-url", "", "Company site URL for research material")
	chatCmd.Flags().StringVar(&chatRole, "role", "", "Target role")
	chatCmd.Flags().StringVar(&chatConfigFile, "config", "", "Path to JSON config file")
	chatCmd.Flags().StringVar(&chatAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	chatCmd.Flags().BoolVar(&chatUseBrowser, "use-browser", false, "Render company pages in a headless browser when plain fetch yields too little text")
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "Print dispatch plan and structured fields")
	chatCmd.Flags().BoolVar(&chatJSONOutput, "json", false, "Print the normalized result as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg := config.Config{
		Resume:      chatResumeFile,
		Job:         chatJobFile,
		JobURL:      chatJobURL,
		CompanySeed: chatCompanyURL,
		APIKey:      chatAPIKey,
		UseBrowser:  chatUseBrowser,
		Verbose:     chatVerbose,
	}
	if chatConfigFile != "" {
		fileCfg, err := config.LoadConfig(chatConfigFile)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Resume == "" {
		return fmt.Errorf("a resume file is required (use --resume or the config file)")
	}
	resumeText, err := os.ReadFile(cfg.Resume)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	ctx := context.Background()

	jobDescription, err := loadJobDescription(ctx, cfg)
	if err != nil {
		return err
	}

	var snippets []string
	if cfg.CompanySeed != "" {
		opts := research.DefaultOptions()
		opts.UseBrowser = cfg.UseBrowser
		opts.Verbose = cfg.Verbose
		snippets, err = research.Collect(ctx, cfg.CompanySeed, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: company research collection failed: %v\n", err)
			snippets = nil
		}
	}

	llmCfg := llm.DefaultGeminiConfig()
	for tier, model := range cfg.Models {
		llmCfg = llmCfg.WithModel(llm.ModelTier(tier), model)
	}
	if cfg.TimeoutSeconds > 0 {
		llmCfg = llmCfg.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	// One-shot runs keep versions in memory; the serve command persists.
	memStore := store.NewMemoryStore()
	resume, err := memStore.CreateResume(ctx, "cli")
	if err != nil {
		return err
	}
	version, err := memStore.CreateVersion(ctx, resume.ID, nil, string(resumeText))
	if err != nil {
		return err
	}

	req := types.ChatRequest{
		ResumeVersionID: &version.ID,
		JobDescription:  jobDescription,
		CompanyName:     chatCompany,
		Role:            chatRole,
		UserMessage:     chatMessage,
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		plan, err := routing.Route(types.RequestContext{
			ResumeText:     string(resumeText),
			JobDescription: jobDescription,
			CompanyName:    chatCompany,
			Role:           chatRole,
			UserMessage:    chatMessage,
		})
		if err == nil {
			printer.PrintDispatchPlan(plan)
		}
	}

	orch := orchestrator.New(memStore, agents.NewRunner(client))
	result, err := orch.HandleStructured(ctx, req, snippets)
	if err != nil {
		return err
	}

	if chatJSONOutput {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printer.PrintResult(result)
	if result.Text != "" {
		fmt.Println(result.Text)
	}
	return nil
}

func loadJobDescription(ctx context.Context, cfg config.Config) (string, error) {
	switch {
	case cfg.Job != "":
		content, err := os.ReadFile(cfg.Job)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return string(content), nil
	case cfg.JobURL != "":
		text, err := research.FetchJobPosting(ctx, cfg.JobURL, nil)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job posting: %w", err)
		}
		return text, nil
	default:
		return "", nil
	}
}
