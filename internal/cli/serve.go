package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvanwijk/caseview/internal/casefile"
	"github.com/rvanwijk/caseview/internal/server"
)

var (
	serveAddr   string
	actionRate  float64
	actionBurst int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve <case-file>",
	Short: "Serve a case for interactive review over HTTP",
	Long: `Serve loads a case file and exposes it for interactive review:
- POST /v1/render            render the case with current claim state
- POST /v1/claims            submit a correction claim
- GET  /v1/claims/:id        inspect a claim
- POST /v1/claims/:id/approve
- POST /v1/claims/:id/reject

Approve and reject are rate limited per producing service.

Example:
  caseview serve case.yaml
  caseview serve case.yaml --addr :9090 --action-rate 2`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().Float64Var(&actionRate, "action-rate", 5, "claim actions per second, per service")
	serveCmd.Flags().IntVar(&actionBurst, "action-burst", 10, "claim action burst per service")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Server.Addr = serveAddr
	cfg.Server.ActionRate = actionRate
	cfg.Server.ActionBurst = actionBurst

	cf, err := casefile.Load(args[0])
	if err != nil {
		return fmt.Errorf("load case file: %w", err)
	}

	srv, err := server.NewServer(cfg, cf)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	return srv.Run()
}
