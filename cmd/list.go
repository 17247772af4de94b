/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"

	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// List the variants and the state of their records.
type ListOpts struct {
}

func init() {
	o := ListOpts{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the variants and where their records come from",
		Args:  cobra.NoArgs,
		Run:   runCommand(&o),
		Long: trimIndent(`
			List all variants with the environment file they compile into, the source of
			their record (built-in or envctl.yaml), and whether the resolved record is valid.

			Related commands:
			- 'envctl show VARIANT' to show the full record of a variant.
			- 'envctl validate' to validate all records, including advisory checks.
		`),
	}
	rootCmd.AddCommand(cmd)
}

func (o *ListOpts) Prepare(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *ListOpts) Run(cmd *cobra.Command) error {
	configFile, err := tryLoadConfigFile()
	if err != nil {
		return err
	}

	if configFile != nil {
		log.Info().Msgf("Config file: %s", styles.RenderTechnical(configFile.Path))
	} else {
		log.Info().Msgf("Config file: %s", styles.RenderMuted("none, using built-in records"))
	}
	log.Info().Msg("")

	for _, variant := range envconfig.AllVariants() {
		status := styles.RenderSuccess("valid")
		resolved, err := envconfig.Resolve(envconfig.ResolveOptions{Variant: variant, File: configFile})
		if err != nil {
			status = styles.RenderError("invalid: " + err.Error())
		} else if warnings := len(resolved.Config.CheckPlaceholders()) + len(resolved.Config.CheckConsistency()); warnings > 0 {
			status = styles.RenderAttention(fmt.Sprintf("valid, %d warning(s)", warnings))
		}

		source := string(variantSource(configFile, variant))
		if resolved != nil && len(resolved.Overrides) > 0 {
			source += fmt.Sprintf(" + %d env override(s)", len(resolved.Overrides))
		}

		log.Info().Msgf("%s %s %s %s",
			styles.RenderVariant(fmt.Sprintf("%-12s", variant), variant.IsProduction()),
			fmt.Sprintf("%-20s", variant.FileName()),
			styles.RenderMuted(fmt.Sprintf("[%s]", source)),
			status)
	}

	return nil
}
