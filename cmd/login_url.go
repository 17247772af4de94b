/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Opens URLs in the user's browser. Replaced in tests.
var openBrowser = browser.OpenURL

// Print (or open) the Auth0 login or logout URL of a variant.
type LoginURLOpts struct {
	UsePositionalArgs

	argVariant string
	flagState  string
	flagOpen   bool
	flagLogout bool
}

func init() {
	o := LoginURLOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argVariant, "VARIANT", "Variant whose Auth0 configuration to use. Chosen interactively if omitted.")

	cmd := &cobra.Command{
		Use:   "login-url [VARIANT] [flags]",
		Short: "Print the Auth0 login URL of a variant",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Print the Auth0 authorize URL that the front-end of the variant redirects users to,
			built from the record's tenant, audience, client ID and callback URL. Opening the
			URL is a quick way to check the Auth0 application accepts the configuration: a
			misconfigured callback URL or client ID shows an error page on the Auth0 side.

			No tokens are requested or handled by envctl.

			{Arguments}
		`),
		Example: trimIndent(`
			# Print the login URL of the development variant.
			envctl login-url development

			# Open the production login page in the browser.
			envctl login-url production --open

			# Print the logout URL instead.
			envctl login-url dev --logout
		`),
	}
	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.StringVar(&o.flagState, "state", "", "Value of the 'state' parameter to include in the URL")
	flags.BoolVar(&o.flagOpen, "open", false, "Open the URL in the default browser")
	flags.BoolVar(&o.flagLogout, "logout", false, "Print the logout URL instead of the login URL")
}

func (o *LoginURLOpts) Prepare(cmd *cobra.Command, args []string) error {
	if o.argVariant != "" {
		if _, err := parseVariantArg(o.argVariant); err != nil {
			return err
		}
	}
	return nil
}

func (o *LoginURLOpts) Run(cmd *cobra.Command) error {
	_, resolved, err := loadRecord(o.argVariant)
	if err != nil {
		return err
	}

	auth0 := resolved.Config.Auth0
	targetURL := auth0.AuthorizeURL(o.flagState)
	if o.flagLogout {
		targetURL = auth0.LogoutURL()
	}

	log.Info().Msg(targetURL)

	if o.flagOpen {
		if err := openBrowser(targetURL); err != nil {
			log.Warn().Msgf("Failed to open the browser: %v", err)
			log.Info().Msg(styles.RenderAttention("Please open the URL above in your browser."))
		}
	}
	return nil
}
