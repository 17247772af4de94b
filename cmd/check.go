/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"net/http"
	"time"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/internal/tui"
	"github.com/coffeeshop/envctl/pkg/httputil"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Check that the endpoints referenced by a record are reachable.
type CheckOpts struct {
	UsePositionalArgs

	argVariant   string
	flagTimeout  time.Duration
	flagRetries  int
	flagSkipAuth bool

	discoveryURL string // Replaces the tenant's discovery URL, used in tests.
}

func init() {
	o := CheckOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argVariant, "VARIANT", "Variant to check. Chosen interactively if omitted.")

	cmd := &cobra.Command{
		Use:   "check [VARIANT] [flags]",
		Short: "Check that the API server and Auth0 tenant of a variant are reachable",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Probe the endpoints referenced by the resolved record of a variant:
			- apiServerUrl: the backend must answer without a server error. Client errors
			  such as 401 or 404 still count as reachable.
			- The OpenID discovery document of the Auth0 tenant: it must be served, and the
			  issuer it advertises must match the tenant derived from auth0.url.

			Transient failures are retried. Exits with a non-zero code if any endpoint is
			unreachable.

			{Arguments}
		`),
		Example: trimIndent(`
			# Check the development endpoints.
			envctl check development

			# Check only the production API server, with a shorter timeout.
			envctl check production --skip-auth --timeout=3s
		`),
	}
	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.DurationVar(&o.flagTimeout, "timeout", httputil.DefaultClientOptions.Timeout, "Timeout of each request")
	flags.IntVar(&o.flagRetries, "retries", httputil.DefaultClientOptions.RetryCount, "Number of retries on network errors and 429/5xx responses")
	flags.BoolVar(&o.flagSkipAuth, "skip-auth", false, "Don't check the Auth0 tenant")
}

func (o *CheckOpts) Prepare(cmd *cobra.Command, args []string) error {
	if o.argVariant != "" {
		if _, err := parseVariantArg(o.argVariant); err != nil {
			return err
		}
	}
	if o.flagTimeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", o.flagTimeout)
	}
	if o.flagRetries < 0 {
		return fmt.Errorf("--retries must not be negative, got %d", o.flagRetries)
	}
	return nil
}

func (o *CheckOpts) Run(cmd *cobra.Command) error {
	_, resolved, err := loadRecord(o.argVariant)
	if err != nil {
		return err
	}
	cfg := resolved.Config

	clientOpts := httputil.DefaultClientOptions
	clientOpts.Timeout = o.flagTimeout
	clientOpts.RetryCount = o.flagRetries
	prober := httputil.NewProber(clientOpts)

	log.Info().Msgf("Checking endpoints of %s", styles.RenderVariant(string(resolved.Variant), resolved.Variant.IsProduction()))

	failures := []string{}
	apiErr := tui.RunWithSpinner(fmt.Sprintf("API server %s", styles.RenderTechnical(cfg.APIServerURL)), func() (string, error) {
		result := prober.Probe(cmd.Context(), "apiServerUrl", cfg.APIServerURL)
		if !result.Reachable() {
			return "", result.Err
		}
		return probeSummary(result), nil
	})
	if apiErr != nil {
		failures = append(failures, fmt.Sprintf("apiServerUrl: %v", apiErr))
	}

	if !o.flagSkipAuth {
		discoveryURL := cfg.Auth0.DiscoveryURL()
		if o.discoveryURL != "" {
			discoveryURL = o.discoveryURL
		}
		authErr := tui.RunWithSpinner(fmt.Sprintf("Auth0 tenant %s", styles.RenderTechnical(cfg.Auth0.TenantDomain())), func() (string, error) {
			result := prober.CheckDiscovery(cmd.Context(), discoveryURL, cfg.Auth0.Issuer())
			if !result.Reachable() {
				return "", result.Err
			}
			return probeSummary(result.ProbeResult), nil
		})
		if authErr != nil {
			failures = append(failures, fmt.Sprintf("auth0: %v", authErr))
		}
	}

	if len(failures) > 0 {
		return clierrors.Newf("%d endpoint check(s) failed", len(failures)).
			WithDetails(failures...).
			WithSuggestion("Check the URLs with 'envctl show', and that you can reach the network they are in")
	}

	log.Info().Msg("")
	log.Info().Msg(styles.RenderSuccess("All endpoints are reachable"))
	return nil
}

// Summary of a successful probe, eg, '200 OK, 1.2 kB in 35ms'.
func probeSummary(result httputil.ProbeResult) string {
	return styles.RenderMuted(fmt.Sprintf("%d %s, %s in %s",
		result.StatusCode,
		http.StatusText(result.StatusCode),
		humanize.Bytes(uint64(result.Size)),
		result.Latency.Round(time.Millisecond)))
}
