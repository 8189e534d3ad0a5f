package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rvanwijk/caseview/internal/casefile"
	"github.com/rvanwijk/caseview/internal/claims"
	"github.com/rvanwijk/caseview/internal/model"
)

var (
	claimService  string
	claimLaw      string
	claimKey      string
	claimValue    string
	claimClaimant string
)

// claimsCmd represents the claims command
var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Manage correction claims on a case file",
	Long: `Submit, approve and reject correction claims directly on a case file.

Changes are written back to the file, so the next render reflects them.
For interactive review over HTTP use 'caseview serve' instead.`,
}

var claimsSubmitCmd = &cobra.Command{
	Use:   "submit <case-file>",
	Short: "Submit a correction claim against a field",
	Long: `Submit records a PENDING claim for one field of the case. The field is
addressed by the service and law that produced it plus the field key.
A new claim supersedes an earlier live claim on the same field.

Example:
  caseview claims submit case.yaml --service TOESLAGEN --law zorgtoeslagwet --key income --value 1500`,
	Args: cobra.ExactArgs(1),
	RunE: runClaimsSubmit,
}

var claimsApproveCmd = &cobra.Command{
	Use:   "approve <case-file> <claim-id>",
	Short: "Approve a pending claim",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClaimAction(args[0], args[1], func(s *claims.Store, id string) (model.Claim, error) {
			return s.Approve(id)
		})
	},
}

var claimsRejectCmd = &cobra.Command{
	Use:   "reject <case-file> <claim-id>",
	Short: "Reject a pending or approved claim",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClaimAction(args[0], args[1], func(s *claims.Store, id string) (model.Claim, error) {
			return s.Reject(id)
		})
	},
}

func init() {
	rootCmd.AddCommand(claimsCmd)
	claimsCmd.AddCommand(claimsSubmitCmd)
	claimsCmd.AddCommand(claimsApproveCmd)
	claimsCmd.AddCommand(claimsRejectCmd)

	claimsSubmitCmd.Flags().StringVar(&claimService, "service", "", "service that produced the field (required)")
	claimsSubmitCmd.Flags().StringVar(&claimLaw, "law", "", "law the field belongs to (required)")
	claimsSubmitCmd.Flags().StringVar(&claimKey, "key", "", "field key (required)")
	claimsSubmitCmd.Flags().StringVar(&claimValue, "value", "", "proposed value, parsed as JSON when possible (required)")
	claimsSubmitCmd.Flags().StringVar(&claimClaimant, "claimant", "", "claimant identifier (defaults to the case claimant)")
	_ = claimsSubmitCmd.MarkFlagRequired("service")
	_ = claimsSubmitCmd.MarkFlagRequired("law")
	_ = claimsSubmitCmd.MarkFlagRequired("key")
	_ = claimsSubmitCmd.MarkFlagRequired("value")
}

func runClaimsSubmit(cmd *cobra.Command, args []string) error {
	path := args[0]

	cf, err := casefile.Load(path)
	if err != nil {
		return fmt.Errorf("load case file: %w", err)
	}

	store := claims.NewStore()
	if err := store.Seed(cf.Claims); err != nil {
		return fmt.Errorf("seed claims: %w", err)
	}

	claimant := claimClaimant
	if claimant == "" {
		claimant = cf.Claimant
	}

	claim, err := store.Submit(claimService, claimLaw, claimKey, parseClaimValue(claimValue), claimant)
	if err != nil {
		return fmt.Errorf("submit claim: %w", err)
	}

	cf.Claims = store.All()
	if err := casefile.Save(cf, path); err != nil {
		return err
	}

	fmt.Printf("✓ Submitted claim %s (%s/%s/%s)\n", claim.ID, claim.ServiceKey, claim.LawKey, claim.FieldKey)
	return nil
}

func runClaimAction(path, claimID string, action func(*claims.Store, string) (model.Claim, error)) error {
	cf, err := casefile.Load(path)
	if err != nil {
		return fmt.Errorf("load case file: %w", err)
	}

	store := claims.NewStore()
	if err := store.Seed(cf.Claims); err != nil {
		return fmt.Errorf("seed claims: %w", err)
	}

	claim, err := action(store, claimID)
	if err != nil {
		return err
	}

	cf.Claims = store.All()
	if err := casefile.Save(cf, path); err != nil {
		return err
	}

	fmt.Printf("✓ Claim %s is now %s\n", claim.ID, claim.Status)
	if verbose {
		fmt.Fprintf(os.Stderr, "  Field: %s/%s/%s\n", claim.ServiceKey, claim.LawKey, claim.FieldKey)
	}
	return nil
}

// parseClaimValue decodes the flag value as JSON so numbers and booleans keep
// their types; anything that fails to parse stays a plain string.
func parseClaimValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
