/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/filesetwriter"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Create an envctl.yaml seeded from the built-in records.
type InitOpts struct {
	flagForce   bool
	flagFromEnv bool
}

func init() {
	o := InitOpts{}

	cmd := &cobra.Command{
		Use:   "init [flags]",
		Short: "Create an envctl.yaml config file from the built-in records",
		Args:  cobra.NoArgs,
		Run:   runCommand(&o),
		Long: trimIndent(`
			Create an envctl.yaml config file containing the records of all variants, with
			comments describing each field. Edit the file, or use 'envctl set', to replace
			the built-in values with the ones of your deployment.

			The file is created in the current directory, or at the path given with --config.
			An existing file is only replaced with --force.

			With --from-env, the records are seeded with the ENVCTL_* environment overrides
			(including those from .env files) applied, which is handy for turning an existing
			.env based setup into a config file.
		`),
		Example: trimIndent(`
			# Create envctl.yaml in the current directory.
			envctl init

			# Recreate the file from the built-in records.
			envctl init --force

			# Create the config file in another directory.
			envctl init --config=frontend/
		`),
	}
	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.BoolVar(&o.flagForce, "force", false, "Replace an existing config file")
	flags.BoolVar(&o.flagFromEnv, "from-env", false, "Apply the ENVCTL_* environment overrides to the seeded records")
}

func (o *InitOpts) Prepare(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *InitOpts) Run(cmd *cobra.Command) error {
	configFilePath, err := configFileTargetPath()
	if err != nil {
		return err
	}

	records := envconfig.Builtins()
	if o.flagFromEnv {
		for _, variant := range envconfig.AllVariants() {
			resolved, err := resolveRecord(nil, variant)
			if err != nil {
				return err
			}
			records[variant] = resolved.Config
			if len(resolved.Overrides) > 0 {
				log.Info().Msgf("Applied %s to '%s'", styles.RenderListTechnical(resolved.Overrides), variant)
			}
		}
	}

	content, err := envconfig.RenderConfigFileYAML(records)
	if err != nil {
		return err
	}

	plan := filesetwriter.NewPlan()
	if o.flagForce {
		plan.Add(configFilePath, []byte(content), 0644)
	} else {
		plan.AddSkipExisting(configFilePath, []byte(content), 0644)
	}
	if err := plan.Scan(); err != nil {
		return err
	}

	result := plan.Results()[0]
	switch result.Action {
	case filesetwriter.ActionSkip:
		return clierrors.Newf("Config file %s already exists", configFilePath).
			WithSuggestion("Use --force to replace it, or 'envctl set' to edit it")
	case filesetwriter.ActionUnchanged:
		log.Info().Msgf("Config file %s is already up to date", styles.RenderTechnical(configFilePath))
		return nil
	}

	if err := plan.Execute(); err != nil {
		return err
	}

	log.Info().Msg("")
	log.Info().Msg(styles.RenderSuccess(fmt.Sprintf("Created %s", configFilePath)))
	log.Info().Msg("")
	log.Info().Msg("Next steps:")
	log.Info().Msgf("- Replace the values with those of your deployment, eg, %s", styles.RenderTechnical("envctl set production apiServerUrl https://api.coffee.shop"))
	log.Info().Msgf("- Check the records with %s", styles.RenderTechnical("envctl validate --strict"))
	log.Info().Msgf("- Write the environment files with %s", styles.RenderTechnical("envctl generate"))
	return nil
}
