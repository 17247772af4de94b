/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Validate the resolved records of one or more variants.
type ValidateOpts struct {
	UsePositionalArgs

	extraArgs  []string
	flagStrict bool

	variants []envconfig.Variant
}

func init() {
	o := ValidateOpts{}

	args := o.Arguments()
	args.SetExtraArgs(&o.extraArgs, "VARIANTS", "Variants to validate. All variants are validated if none are given.")

	cmd := &cobra.Command{
		Use:   "validate [VARIANTS...] [flags]",
		Short: "Validate the records of the variants",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Validate the config file and the resolved record of each variant, including the
			ENVCTL_* environment overrides.

			Besides the hard validation rules, the records are checked for placeholder values
			(eg, reserved example domains or the sample Auth0 tenant) and for inconsistencies
			(eg, a production record pointing at a private address). These are reported as
			warnings, unless --strict is given, in which case they fail the validation.

			Exits with code 3 if any record is invalid.

			{Arguments}
		`),
		Example: trimIndent(`
			# Validate all variants.
			envctl validate

			# Validate the production variant, failing on any warnings. Useful in CI.
			envctl validate production --strict
		`),
	}
	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.BoolVar(&o.flagStrict, "strict", false, "Treat placeholder and consistency warnings as errors")
}

func (o *ValidateOpts) Prepare(cmd *cobra.Command, args []string) error {
	o.variants = []envconfig.Variant{}
	if len(o.extraArgs) == 0 {
		o.variants = envconfig.AllVariants()
		return nil
	}

	for _, name := range o.extraArgs {
		variant, err := parseVariantArg(name)
		if err != nil {
			return err
		}
		o.variants = append(o.variants, variant)
	}
	return nil
}

func (o *ValidateOpts) Run(cmd *cobra.Command) error {
	configFile, err := tryLoadConfigFile()
	if err != nil {
		return err
	}
	if configFile != nil {
		log.Info().Msgf(" %s %s %s", styles.RenderSuccess("✓"), configFile.Path, styles.RenderMuted(fmt.Sprintf("(schema v%s)", configFile.SchemaVersion)))
	}

	numInvalid := 0
	numWarnings := 0
	details := []string{}
	for _, variant := range o.variants {
		name := styles.RenderVariant(string(variant), variant.IsProduction())

		resolved, err := envconfig.Resolve(envconfig.ResolveOptions{Variant: variant, File: configFile})
		if err != nil {
			numInvalid++
			log.Info().Msgf(" %s %s %s", styles.RenderError("✗"), name, styles.RenderError(err.Error()))
			details = append(details, err.Error())
			continue
		}

		warnings := recordWarnings(resolved.Config)
		numWarnings += len(warnings)
		if len(warnings) == 0 {
			log.Info().Msgf(" %s %s %s", styles.RenderSuccess("✓"), name, styles.RenderMuted("["+string(resolved.Source)+"]"))
			continue
		}

		log.Info().Msgf(" %s %s %s", styles.RenderAttention("!"), name, styles.RenderMuted(fmt.Sprintf("[%s, %d warning(s)]", resolved.Source, len(warnings))))
		for _, warning := range warnings {
			log.Warn().Msgf("   - %s", warning)
			if o.flagStrict {
				details = append(details, fmt.Sprintf("%s: %s", variant, warning))
			}
		}
	}

	if numInvalid > 0 {
		return clierrors.NewInvalidConfigf("%d of %d record(s) are invalid", numInvalid, len(o.variants)).
			WithDetails(details...).
			WithSuggestion("Use 'envctl set VARIANT FIELD VALUE' to fix the values, or check the ENVCTL_* environment variables")
	}
	if o.flagStrict && numWarnings > 0 {
		return clierrors.NewInvalidConfigf("Validation failed in strict mode with %d warning(s)", numWarnings).
			WithDetails(details...)
	}

	log.Info().Msg("")
	log.Info().Msg(styles.RenderSuccess(fmt.Sprintf("All %d record(s) are valid", len(o.variants))))
	return nil
}
