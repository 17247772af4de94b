/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"strings"

	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/filesetwriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Render the resolved record of a variant in a machine-readable format.
type RenderOpts struct {
	UsePositionalArgs

	argVariant string
	flagFormat string
	flagOutput string

	variant envconfig.Variant
	format  envconfig.Format
}

func init() {
	o := RenderOpts{}

	args := o.Arguments()
	args.AddStringArgument(&o.argVariant, "VARIANT", "Variant to render, eg, 'development' or 'prod'.")

	cmd := &cobra.Command{
		Use:   "render VARIANT [flags]",
		Short: "Render the record of a variant as TypeScript, JSON, YAML or dotenv",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Render the resolved record of a variant in one of the supported formats:
			- ts: an Angular/Ionic environment module ('export const environment = ...').
			- json: a runtime configuration document, eg, for serving as 'env.json'.
			- yaml: a YAML document with the same structure.
			- dotenv: ENVCTL_* variable assignments, loadable as an .env file.

			The output is printed, or written to the file given with --output.

			{Arguments}

			Related commands:
			- 'envctl generate' to write the environment files of all variants.
		`),
		Example: trimIndent(`
			# Print the production record as TypeScript.
			envctl render production

			# Write the runtime config of the development variant.
			envctl render development --format=json --output=src/assets/env.json

			# Snapshot the resolved production values as an env file.
			envctl render prod --format=dotenv --output=.env.production
		`),
	}
	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.StringVar(&o.flagFormat, "format", "ts", "Output format. Valid values are 'ts', 'json', 'yaml' or 'dotenv'")
	flags.StringVarP(&o.flagOutput, "output", "o", "", "Write to this file instead of printing")
}

func (o *RenderOpts) Prepare(cmd *cobra.Command, args []string) error {
	var err error
	if o.variant, err = parseVariantArg(o.argVariant); err != nil {
		return err
	}
	if o.format, err = envconfig.ParseFormat(o.flagFormat); err != nil {
		return err
	}
	return nil
}

func (o *RenderOpts) Run(cmd *cobra.Command) error {
	_, resolved, err := loadRecord(string(o.variant))
	if err != nil {
		return err
	}

	output, err := envconfig.Render(o.format, resolved.Variant, resolved.Config)
	if err != nil {
		return err
	}

	if o.flagOutput == "" {
		log.Info().Msg(strings.TrimSuffix(string(output), "\n"))
		return nil
	}

	plan := filesetwriter.NewPlan().Add(o.flagOutput, output, 0644)
	if err := plan.Scan(); err != nil {
		return err
	}
	return plan.Execute()
}
