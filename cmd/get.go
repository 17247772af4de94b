/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"strings"

	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Print a single field of a resolved record.
type GetOpts struct {
	UsePositionalArgs

	argVariant string
	argField   string
}

func init() {
	o := GetOpts{}

	args := o.Arguments()
	args.AddStringArgument(&o.argVariant, "VARIANT", "Variant to read from, eg, 'development' or 'prod'.")
	args.AddStringArgument(&o.argField, "FIELD", "Dotted path of the field, eg, 'apiServerUrl' or 'auth0.clientId'.")

	cmd := &cobra.Command{
		Use:   "get VARIANT FIELD",
		Short: "Print a single field of a variant's record",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Print the value of a single field of the resolved record, with nothing else in
			the output. Useful in scripts and build pipelines.

			{Arguments}

			The valid fields are: `+strings.Join(envconfig.Fields(), ", ")+`.
		`),
		Example: trimIndent(`
			# Print the backend API base URL of the development variant.
			envctl get development apiServerUrl

			# Use the production client ID in a script.
			CLIENT_ID=$(envctl get prod auth0.clientId)
		`),
	}
	rootCmd.AddCommand(cmd)
}

func (o *GetOpts) Prepare(cmd *cobra.Command, args []string) error {
	if _, err := parseVariantArg(o.argVariant); err != nil {
		return err
	}
	if !envconfig.IsKnownField(o.argField) {
		return fmt.Errorf("unknown field '%s', the valid fields are: %s", o.argField, strings.Join(envconfig.Fields(), ", "))
	}
	return nil
}

func (o *GetOpts) Run(cmd *cobra.Command) error {
	_, resolved, err := loadRecord(o.argVariant)
	if err != nil {
		return err
	}

	value, err := envconfig.Lookup(resolved.Config, o.argField)
	if err != nil {
		return err
	}
	log.Info().Msg(value)
	return nil
}
