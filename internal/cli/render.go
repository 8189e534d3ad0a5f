package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rvanwijk/caseview/internal/casefile"
	"github.com/rvanwijk/caseview/internal/model"
	"github.com/rvanwijk/caseview/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	canApprove  bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
	httpProxy   string
	httpsProxy  string
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <case-file>",
	Short: "Render a single case file into a reviewable report",
	Long: `Render loads a case file (YAML or JSON) and produces a report:
- Walk the decision tree in evaluation order
- Format every value for display, flagging missing inputs
- Overlay pending, approved and rejected claims on the fields they target
- Attach edit and approve/reject actions per the viewer's role

Example:
  caseview render case.yaml
  caseview render case.yaml --json report.json --md report.md
  caseview render case.yaml --approver --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	// Output flags
	renderCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	renderCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	renderCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall render timeout (mostly bounds the LLM call)")
	renderCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh render)")
	renderCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	renderCmd.Flags().BoolVar(&canApprove, "approver", false, "render with approve permission (overrides the case file)")

	// LLM flags
	renderCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM explanation generation")
	renderCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	renderCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	renderCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL for LLM calls (overrides HTTP_PROXY env var)")
	renderCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL for LLM calls (overrides HTTPS_PROXY env var)")
}

func runRender(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Rendering: %s\n", path)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	cf, err := casefile.Load(path)
	if err != nil {
		return fmt.Errorf("load case file: %w", err)
	}
	if cmd.Flags().Changed("approver") {
		cf.CanApprove = canApprove
	}

	p := pipeline.NewPipeline(cfg)

	report, err := p.Render(ctx, cf)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Rendered %d fields\n", report.CountLeaves())
		fmt.Fprintf(os.Stderr, "✓ Overlaid %d claims\n", report.CountOverlays())
		if report.FromCache {
			fmt.Fprintf(os.Stderr, "✓ Served from cache\n")
		}
		if report.Explanation != nil && report.Explanation.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated explanation using %s/%s\n", report.Explanation.Provider, report.Explanation.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.WriteReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// buildConfig assembles configuration from defaults and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		cfg.LLM.StrictFields = true // Always enforce
		cfg.LLM.HTTPProxy = httpProxy
		cfg.LLM.HTTPSProxy = httpsProxy

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}
