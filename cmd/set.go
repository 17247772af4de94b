/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"strings"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Set a single field of a variant in envctl.yaml.
type SetOpts struct {
	UsePositionalArgs

	argVariant string
	argField   string
	argValue   string

	variant envconfig.Variant
}

func init() {
	o := SetOpts{}

	args := o.Arguments()
	args.AddStringArgument(&o.argVariant, "VARIANT", "Variant to edit, eg, 'development' or 'prod'.")
	args.AddStringArgument(&o.argField, "FIELD", "Dotted path of the field, eg, 'apiServerUrl' or 'auth0.clientId'.")
	args.AddStringArgument(&o.argValue, "VALUE", "New value of the field.")

	cmd := &cobra.Command{
		Use:   "set VARIANT FIELD VALUE",
		Short: "Set a field of a variant in envctl.yaml",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Update a single field of a variant in the envctl.yaml config file. Comments and
			formatting of the rest of the file are kept as they are.

			The edited file is validated before writing: if the new value would make the
			record invalid, the file is left untouched and the command exits with code 3.

			{Arguments}

			Related commands:
			- 'envctl init' to create the config file.
			- 'envctl get VARIANT FIELD' to read a field.
		`),
		Example: trimIndent(`
			# Point the production front-end to the production API.
			envctl set production apiServerUrl https://api.coffee.shop

			# Use your own Auth0 application in development.
			envctl set dev auth0.clientId abcDEF123
		`),
	}
	rootCmd.AddCommand(cmd)
}

func (o *SetOpts) Prepare(cmd *cobra.Command, args []string) error {
	var err error
	if o.variant, err = parseVariantArg(o.argVariant); err != nil {
		return err
	}
	if !envconfig.IsKnownField(o.argField) {
		return fmt.Errorf("unknown field '%s', the valid fields are: %s", o.argField, strings.Join(envconfig.Fields(), ", "))
	}
	return nil
}

func (o *SetOpts) Run(cmd *cobra.Command) error {
	configFile, err := requireConfigFile()
	if err != nil {
		return err
	}

	if !configFile.Defines(o.variant) {
		return clierrors.Newf("Config file %s does not define the '%s' variant", configFile.Path, o.variant).
			WithSuggestion("Run 'envctl init --force' to recreate the file with all variants")
	}

	record, err := configFile.Variant(o.variant)
	if err != nil {
		return err
	}
	oldValue, err := envconfig.Lookup(record, o.argField)
	if err != nil {
		return err
	}

	if err := envconfig.SetFieldInFile(configFile.Path, o.variant, o.argField, o.argValue); err != nil {
		return clierrors.WrapInvalidConfig(err, fmt.Sprintf("Failed to set '%s' of '%s'", o.argField, o.variant))
	}

	log.Info().Msgf("Updated %s of %s in %s",
		styles.RenderTechnical(o.argField),
		styles.RenderVariant(string(o.variant), o.variant.IsProduction()),
		configFile.Path)
	log.Info().Msgf("  %s %s", styles.RenderError("-"), oldValue)
	log.Info().Msgf("  %s %s", styles.RenderSuccess("+"), o.argValue)
	return nil
}
